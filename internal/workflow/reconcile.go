package workflow

import (
	"time"

	"gorent/internal/models"
)

// ResponseWindow is how long the counterparty has to respond before a stalled
// case is pulled into review automatically.
const ResponseWindow = 48 * time.Hour

// Reconcile decides whether the response-window rule should move the case.
// It is a pure function of (now, case, counterparty activity): callers invoke
// it at the top of every read and write path and apply the returned status.
// A case already past the escalation sources is left alone, which makes the
// check idempotent.
func Reconcile(def *Definition, c *models.Case, counterpartyMessages int64, now time.Time) (models.CaseStatus, bool) {
	if counterpartyMessages > 0 {
		return "", false
	}
	if now.Sub(c.CreatedAt) <= def.ResponseWindow {
		return "", false
	}
	for _, status := range def.AutoEscalateFrom {
		if c.Status == status {
			return def.AutoEscalateTo, true
		}
	}
	return "", false
}
