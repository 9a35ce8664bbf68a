package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/workshop-scheduler/internal/domain/workshop"
	"github.com/BruksfildServices01/workshop-scheduler/internal/dto"
	"github.com/BruksfildServices01/workshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/workshop-scheduler/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/workshop-scheduler/internal/usecase/appointment"
	ucWorkshop "github.com/BruksfildServices01/workshop-scheduler/internal/usecase/workshop"
)

// ======================================================
// HANDLER
// ======================================================

type WorkshopHandler struct {
	list   *ucWorkshop.ListWorkshops
	get    *ucWorkshop.GetWorkshop
	create *ucWorkshop.CreateWorkshop
	update *ucWorkshop.UpdateWorkshop
	slots  *ucAppointment.GetAvailability
}

func NewWorkshopHandler(
	list *ucWorkshop.ListWorkshops,
	get *ucWorkshop.GetWorkshop,
	create *ucWorkshop.CreateWorkshop,
	update *ucWorkshop.UpdateWorkshop,
	slots *ucAppointment.GetAvailability,
) *WorkshopHandler {
	return &WorkshopHandler{
		list:   list,
		get:    get,
		create: create,
		update: update,
		slots:  slots,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type OpeningHoursRequest struct {
	Weekdays *[]domain.TimeRange `json:"weekdays" binding:"required,dive"`
	Saturday *[]domain.TimeRange `json:"saturday" binding:"required,dive"`
	Sunday   *[]domain.TimeRange `json:"sunday" binding:"required,dive"`
}

type WorkshopRequest struct {
	Name         string               `json:"name" binding:"required,max=100"`
	Address      string               `json:"address" binding:"max=255"`
	Phone        string               `json:"phone" binding:"omitempty,phone"`
	Timezone     string               `json:"timezone" binding:"max=64"`
	OpeningHours *OpeningHoursRequest `json:"opening_hours" binding:"required"`
}

func (r WorkshopRequest) input() (ucWorkshop.Input, error) {
	hours := domain.OpeningHours{
		Weekdays: *r.OpeningHours.Weekdays,
		Saturday: *r.OpeningHours.Saturday,
		Sunday:   *r.OpeningHours.Sunday,
	}
	raw, err := hours.Marshal()
	if err != nil {
		return ucWorkshop.Input{}, err
	}

	return ucWorkshop.Input{
		Name:         r.Name,
		Address:      r.Address,
		Phone:        r.Phone,
		Timezone:     r.Timezone,
		OpeningHours: raw,
	}, nil
}

// ======================================================
// READ
// ======================================================

func (h *WorkshopHandler) List(c *gin.Context) {
	workshops, err := h.list.Execute(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]dto.WorkshopSummaryDTO, 0, len(workshops))
	for i := range workshops {
		out = append(out, dto.FromWorkshopSummary(&workshops[i]))
	}

	httpresp.List(c, out)
}

func (h *WorkshopHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	w, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.FromWorkshop(w))
}

// Slots answers GET /workshops/:id/slots?date=YYYY-MM-DD
func (h *WorkshopHandler) Slots(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.Respond(c, httperr.ErrValidation("invalid_date"))
		return
	}

	slots, err := h.slots.Execute(c.Request.Context(), id, date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.SlotsDTO{AvailableSlots: slots})
}

// ======================================================
// WRITE
// ======================================================

func (h *WorkshopHandler) Create(c *gin.Context) {
	var req WorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	in, err := req.input()
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	w, err := h.create.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, dto.FromWorkshop(w))
}

func (h *WorkshopHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req WorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	in, err := req.input()
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	w, err := h.update.Execute(c.Request.Context(), id, in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.FromWorkshop(w))
}
