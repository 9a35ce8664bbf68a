package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BruksfildServices01/workshop-scheduler/internal/audit"
	"github.com/BruksfildServices01/workshop-scheduler/internal/config"
	"github.com/BruksfildServices01/workshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/workshop-scheduler/internal/domain/workshop"
	"github.com/BruksfildServices01/workshop-scheduler/internal/handlers"
	"github.com/BruksfildServices01/workshop-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/workshop-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/workshop-scheduler/internal/usecase/appointment"
	ucWorkshop "github.com/BruksfildServices01/workshop-scheduler/internal/usecase/workshop"
	"github.com/BruksfildServices01/workshop-scheduler/internal/validators"
)

// Dependencies are the process-wide singletons built by main.
type Dependencies struct {
	Config       *config.Config
	Logger       *slog.Logger
	AuditLogs    handlers.AuditLogLister // nil with the memory storage driver
	Workshops    workshop.Registry
	Appointments appointment.Repository
	Cache        cache.Availability
	Audit        audit.Recorder
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) error {

	if err := validators.Register(); err != nil {
		return err
	}

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(deps.Logger),
		middleware.Metrics(),
		middleware.CORSMiddleware(),
	)

	// ======================================================
	// OPERATIONAL
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// USE CASES: WORKSHOPS
	// ======================================================
	listWorkshopsUC := ucWorkshop.NewListWorkshops(deps.Workshops)
	getWorkshopUC := ucWorkshop.NewGetWorkshop(deps.Workshops)

	createWorkshopUC := ucWorkshop.NewCreateWorkshop(
		deps.Workshops,
		deps.Audit,
		deps.Logger,
	)

	updateWorkshopUC := ucWorkshop.NewUpdateWorkshop(
		deps.Workshops,
		deps.Cache,
		deps.Audit,
		deps.Logger,
	)

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	availabilityUC := ucAppointment.NewGetAvailability(
		deps.Workshops,
		deps.Appointments,
		deps.Cache,
		deps.Logger,
	)

	createAppointmentUC := ucAppointment.NewCreateAppointment(
		deps.Workshops,
		deps.Appointments,
		deps.Audit,
		deps.Logger,
	)

	confirmAppointmentUC := ucAppointment.NewConfirmAppointment(
		deps.Workshops,
		deps.Appointments,
		deps.Cache,
		deps.Audit,
		deps.Logger,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		deps.Workshops,
		deps.Appointments,
		deps.Cache,
		deps.Audit,
		deps.Logger,
	)

	updateAppointmentUC := ucAppointment.NewUpdateAppointment(
		deps.Workshops,
		deps.Appointments,
		deps.Cache,
		deps.Audit,
		deps.Logger,
	)

	deleteAppointmentUC := ucAppointment.NewDeleteAppointment(
		deps.Workshops,
		deps.Appointments,
		deps.Cache,
		deps.Audit,
		deps.Logger,
	)

	getAppointmentUC := ucAppointment.NewGetAppointment(deps.Appointments)

	listAppointmentsUC := ucAppointment.NewListAppointments(
		deps.Workshops,
		deps.Appointments,
		validators.PhoneNormalizer(deps.Config.PhoneDefaultRegion),
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	workshopHandler := handlers.NewWorkshopHandler(
		listWorkshopsUC,
		getWorkshopUC,
		createWorkshopUC,
		updateWorkshopUC,
		availabilityUC,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		confirmAppointmentUC,
		cancelAppointmentUC,
		updateAppointmentUC,
		deleteAppointmentUC,
		getAppointmentUC,
		listAppointmentsUC,
	)

	// ======================================================
	// WORKSHOPS
	// ======================================================
	workshops := r.Group("/workshops")
	{
		workshops.GET("", workshopHandler.List)
		workshops.POST("", workshopHandler.Create)
		workshops.GET("/:id", workshopHandler.Get)
		workshops.PUT("/:id", workshopHandler.Update)
		workshops.GET("/:id/slots", workshopHandler.Slots)

		if deps.AuditLogs != nil {
			auditLogsHandler := handlers.NewAuditLogsHandler(deps.AuditLogs)
			workshops.GET("/:id/audit-logs", auditLogsHandler.List)
		}
	}

	// ======================================================
	// APPOINTMENTS
	// ======================================================
	appointments := r.Group("/appointments")
	{
		appointments.POST("", appointmentHandler.Create)
		appointments.GET("", appointmentHandler.List)
		appointments.GET("/:id", appointmentHandler.Get)
		appointments.PATCH("/:id", appointmentHandler.Update)
		appointments.DELETE("/:id", appointmentHandler.Delete)
		appointments.PATCH("/:id/confirm", appointmentHandler.Confirm)
		appointments.PATCH("/:id/cancel", appointmentHandler.Cancel)
	}

	return nil
}
