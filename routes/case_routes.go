package routes

import (
	shared "gorent/internal/handlers/shared"
	"gorent/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupDisputeRoutes mounts the renter-opened dispute surface.
func SetupDisputeRoutes(r *gin.RouterGroup, handler *shared.CaseHandler, jwtSecret string) {
	disputes := r.Group("/disputes")
	disputes.Use(middleware.AuthRequired(jwtSecret))
	{
		disputes.POST("/", handler.OpenCase)
		disputes.GET("/", handler.ListCases)
		disputes.GET("/:id", handler.GetCase)
		disputes.GET("/number/:case_number", handler.GetCaseByNumber)
		disputes.POST("/:id/messages", handler.AddMessage)
		disputes.POST("/:id/evidence", handler.AddEvidence)

		decisions := disputes.Group("")
		decisions.Use(middleware.AdminRequired())
		{
			decisions.POST("/:id/decisions", handler.Decide)
		}

		overrides := disputes.Group("")
		overrides.Use(middleware.PrimeAdminRequired())
		{
			overrides.POST("/:id/override", handler.Override)
		}
	}
}

// SetupComplaintRoutes mounts the dealer-opened complaint surface. Same shape
// as disputes plus the draft submission step.
func SetupComplaintRoutes(r *gin.RouterGroup, handler *shared.CaseHandler, jwtSecret string) {
	complaints := r.Group("/complaints")
	complaints.Use(middleware.AuthRequired(jwtSecret))
	{
		complaints.POST("/", handler.OpenCase)
		complaints.GET("/", handler.ListCases)
		complaints.GET("/:id", handler.GetCase)
		complaints.GET("/number/:case_number", handler.GetCaseByNumber)
		complaints.POST("/:id/messages", handler.AddMessage)
		complaints.POST("/:id/evidence", handler.AddEvidence)
		complaints.POST("/:id/submit", handler.SubmitDraft)

		decisions := complaints.Group("")
		decisions.Use(middleware.AdminRequired())
		{
			decisions.POST("/:id/decisions", handler.Decide)
		}

		overrides := complaints.Group("")
		overrides.Use(middleware.PrimeAdminRequired())
		{
			overrides.POST("/:id/override", handler.Override)
		}
	}
}

// SetupAdminRoutes mounts the admin-only audit trail reads.
func SetupAdminRoutes(r *gin.RouterGroup, auditHandler *shared.AuditHandler, jwtSecret string) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.GET("/audit-logs", auditHandler.ListAuditLogs)
		admin.GET("/audit-logs/:id", auditHandler.GetAuditLog)
	}
}
