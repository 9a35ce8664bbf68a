package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/workshop-scheduler/internal/audit"
	"github.com/BruksfildServices01/workshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/workshop-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
)

// AuditLogLister reads the audit trail. audit.Logger implements it with the
// postgres storage driver.
type AuditLogLister interface {
	List(ctx context.Context, q audit.Query) ([]models.AuditLog, int64, error)
}

type AuditLogsHandler struct {
	logs AuditLogLister
}

func NewAuditLogsHandler(logs AuditLogLister) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

// List answers GET /workshops/:id/audit-logs?action=&entity=&from=&to=&page=&limit=
// from and to are inclusive UTC days.
func (h *AuditLogsHandler) List(c *gin.Context) {
	workshopID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	page, limit, ok := pagination(c)
	if !ok {
		return
	}

	q := audit.Query{
		WorkshopID: workshopID,
		Action:     c.Query("action"),
		Entity:     c.Query("entity"),
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}

	if q.From, ok = queryDay(c, "from"); !ok {
		return
	}
	if q.To, ok = queryDay(c, "to"); !ok {
		return
	}
	if q.To != nil {
		next := q.To.AddDate(0, 0, 1)
		q.To = &next
	}

	logs, total, err := h.logs.List(c.Request.Context(), q)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, logs, total, page, limit)
}

// queryDay reads an optional YYYY-MM-DD value as midnight UTC.
func queryDay(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		httperr.Respond(c, httperr.ErrValidation("invalid_date"))
		return nil, false
	}
	return &day, true
}
