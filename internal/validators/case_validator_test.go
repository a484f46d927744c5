package validators

import (
	"testing"

	"gorent/internal/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateOpenCase(t *testing.T) {
	valid := &models.OpenCaseRequest{
		BookingID: primitive.NewObjectID().Hex(),
		Category:  models.CaseCategoryDamage,
		Summary:   "Scratch on rear bumper",
	}
	assert.Empty(t, ValidateOpenCase(valid))

	bad := &models.OpenCaseRequest{
		BookingID: "not-an-object-id",
		Category:  models.CaseCategory("vibes"),
		Summary:   "   ",
	}
	errs := ValidateOpenCase(bad)
	assert.Len(t, errs, 3)
}

func TestValidateAddMessage(t *testing.T) {
	assert.Empty(t, ValidateAddMessage(&models.AddMessageRequest{Body: "hello"}))
	assert.NotEmpty(t, ValidateAddMessage(&models.AddMessageRequest{Body: ""}))
	assert.NotEmpty(t, ValidateAddMessage(&models.AddMessageRequest{Body: "  \t "}))
}

func TestValidateAddEvidence(t *testing.T) {
	valid := &models.AddEvidenceRequest{
		Files: []models.FileDescriptor{{FileName: "photo.jpg", ContentType: "image/jpeg"}},
	}
	assert.Empty(t, ValidateAddEvidence(valid))

	assert.NotEmpty(t, ValidateAddEvidence(&models.AddEvidenceRequest{}))

	// Path traversal attempts are rejected outright.
	for _, name := range []string{"../../etc/passwd", "dir/photo.jpg", "a/../b.jpg"} {
		errs := ValidateAddEvidence(&models.AddEvidenceRequest{
			Files: []models.FileDescriptor{{FileName: name, ContentType: "image/jpeg"}},
		})
		assert.NotEmpty(t, errs, "file name %q should be rejected", name)
	}

	// Only recognized image and document types are accepted.
	for _, name := range []string{"dashcam.mp4", "payload.exe", "archive.zip", "noextension", "trailing."} {
		errs := ValidateAddEvidence(&models.AddEvidenceRequest{
			Files: []models.FileDescriptor{{FileName: name, ContentType: "application/octet-stream"}},
		})
		assert.NotEmpty(t, errs, "file name %q should be rejected", name)
	}
	for _, name := range []string{"photo.JPG", "scan.pdf", "notes.txt", "shot.webp"} {
		errs := ValidateAddEvidence(&models.AddEvidenceRequest{
			Files: []models.FileDescriptor{{FileName: name, ContentType: "application/octet-stream"}},
		})
		assert.Empty(t, errs, "file name %q should be accepted", name)
	}

	many := make([]models.FileDescriptor, 11)
	for i := range many {
		many[i] = models.FileDescriptor{FileName: "f.jpg", ContentType: "image/jpeg"}
	}
	assert.NotEmpty(t, ValidateAddEvidence(&models.AddEvidenceRequest{Files: many}))
}

func TestValidateDecide(t *testing.T) {
	assert.Empty(t, ValidateDecide(&models.DecideRequest{
		Value: models.ResolutionPartialRefund,
		Notes: "split repair cost",
	}))

	assert.NotEmpty(t, ValidateDecide(&models.DecideRequest{
		Value: models.ResolutionValue("whatever"),
		Notes: "notes",
	}))
	assert.NotEmpty(t, ValidateDecide(&models.DecideRequest{
		Value: models.ResolutionNoAction,
	}))

	// Override values do not pass the decision validator.
	assert.NotEmpty(t, ValidateDecide(&models.DecideRequest{
		Value: models.ResolutionValue(models.OverrideReverse),
		Notes: "notes",
	}))
}

func TestValidateOverride(t *testing.T) {
	assert.Empty(t, ValidateOverride(&models.OverrideRequest{
		Value: models.OverrideReverse,
		Notes: "second review reversed the outcome",
	}))
	assert.NotEmpty(t, ValidateOverride(&models.OverrideRequest{
		Value: models.OverrideValue("undo"),
		Notes: "notes",
	}))
}
