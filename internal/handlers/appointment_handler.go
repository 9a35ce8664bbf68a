package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/workshop-scheduler/internal/dto"
	"github.com/BruksfildServices01/workshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/workshop-scheduler/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/workshop-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create  *ucAppointment.CreateAppointment
	confirm *ucAppointment.ConfirmAppointment
	cancel  *ucAppointment.CancelAppointment
	update  *ucAppointment.UpdateAppointment
	remove  *ucAppointment.DeleteAppointment
	get     *ucAppointment.GetAppointment
	list    *ucAppointment.ListAppointments
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	confirm *ucAppointment.ConfirmAppointment,
	cancel *ucAppointment.CancelAppointment,
	update *ucAppointment.UpdateAppointment,
	remove *ucAppointment.DeleteAppointment,
	get *ucAppointment.GetAppointment,
	list *ucAppointment.ListAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:  create,
		confirm: confirm,
		cancel:  cancel,
		update:  update,
		remove:  remove,
		get:     get,
		list:    list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	WorkshopID    uuid.UUID `json:"workshop_id" binding:"required"`
	CustomerName  string    `json:"customer_name" binding:"required,max=100"`
	CustomerPhone string    `json:"customer_phone" binding:"required,phone"`
	Description   string    `json:"description" binding:"max=500"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required"`
}

type UpdateAppointmentRequest struct {
	CustomerName  *string    `json:"customer_name" binding:"omitempty,max=100"`
	CustomerPhone *string    `json:"customer_phone" binding:"omitempty,phone"`
	Description   *string    `json:"description" binding:"omitempty,max=500"`
	StartTime     *time.Time `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateInput{
		WorkshopID:    req.WorkshopID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Description:   req.Description,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, dto.FromAppointment(ap))
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap))
}

// List supports ?workshop_id=&date=&state=&customer_phone=&order=&page=&limit=
func (h *AppointmentHandler) List(c *gin.Context) {
	workshopID, ok := queryUUID(c, "workshop_id")
	if !ok {
		return
	}
	page, ok := queryInt(c, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	res, err := h.list.Execute(c.Request.Context(), ucAppointment.ListInput{
		WorkshopID: workshopID,
		Date:       c.Query("date"),
		States:     c.Query("state"),
		Phone:      c.Query("customer_phone"),
		Order:      c.Query("order"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, dto.FromAppointments(res.Items), res.Total, res.Page, res.Limit)
}

// ======================================================
// UPDATE / DELETE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), id, ucAppointment.UpdateInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Description:   req.Description,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap))
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.NoContent(c)
}

// ======================================================
// STATE TRANSITIONS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap))
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap))
}
