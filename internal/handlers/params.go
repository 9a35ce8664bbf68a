package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/workshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/workshop-scheduler/internal/httperr"
)

// pathUUID reads a uuid path parameter, answering 400 when malformed.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identifier must be a UUID.")
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID reads an optional uuid query value.
func queryUUID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identifier must be a UUID.")
		return nil, false
	}
	return &id, true
}

// queryInt reads an optional non-negative integer; absent means 0.
func queryInt(c *gin.Context, key string) (int, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		httperr.Respond(c, httperr.ErrValidation("invalid_pagination"))
		return 0, false
	}
	return n, true
}

func invalidBody(c *gin.Context) {
	httperr.BadRequest(c, "invalid_body", "Request body is malformed.")
}

// pagination reads page and limit with the same defaults and bounds as the
// appointment listing.
func pagination(c *gin.Context) (page, limit int, ok bool) {
	if page, ok = queryInt(c, "page"); !ok {
		return 0, 0, false
	}
	if limit, ok = queryInt(c, "limit"); !ok {
		return 0, 0, false
	}
	if limit > domain.MaxLimit {
		httperr.Respond(c, httperr.ErrValidation("invalid_pagination"))
		return 0, 0, false
	}
	if page == 0 {
		page = 1
	}

	limit, _ = domain.ListFilter{Limit: limit}.Page()
	return page, limit, true
}
