package workshop

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/workshop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/workshop-scheduler/internal/domain/workshop"
	"github.com/BruksfildServices01/workshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/workshop-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
	"github.com/BruksfildServices01/workshop-scheduler/internal/timezone"
)

// Input is the full description of a workshop. OpeningHours is the raw
// JSON document so that missing day buckets can be told apart from empty ones.
type Input struct {
	Name         string
	Address      string
	Phone        string
	Timezone     string
	OpeningHours []byte
}

func (in Input) apply(w *models.Workshop) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return httperr.ErrValidation("missing_required_fields")
	}

	tz := strings.TrimSpace(in.Timezone)
	if tz != "" && !timezone.IsValid(tz) {
		return httperr.ErrValidation("invalid_timezone")
	}

	hours, err := domain.ParseOpeningHours(in.OpeningHours)
	if err != nil {
		return err
	}
	if err := hours.Validate(); err != nil {
		return err
	}
	raw, err := hours.Marshal()
	if err != nil {
		return err
	}

	w.Name = name
	w.Address = strings.TrimSpace(in.Address)
	w.Phone = strings.TrimSpace(in.Phone)
	w.Timezone = tz
	w.OpeningHours = datatypes.JSON(raw)
	return nil
}

func workshopEvent(action string, w *models.Workshop) audit.Event {
	id := w.ID
	return audit.Event{
		WorkshopID: w.ID,
		Action:     action,
		Entity:     "workshop",
		EntityID:   &id,
		Metadata:   map[string]any{"name": w.Name},
	}
}

// ======================================================
// LIST / GET
// ======================================================

type ListWorkshops struct {
	registry domain.Registry
}

func NewListWorkshops(registry domain.Registry) *ListWorkshops {
	return &ListWorkshops{registry: registry}
}

func (uc *ListWorkshops) Execute(ctx context.Context) ([]models.Workshop, error) {
	out, err := uc.registry.ListWorkshops(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Workshop{}
	}
	return out, nil
}

type GetWorkshop struct {
	registry domain.Registry
}

func NewGetWorkshop(registry domain.Registry) *GetWorkshop {
	return &GetWorkshop{registry: registry}
}

func (uc *GetWorkshop) Execute(ctx context.Context, id uuid.UUID) (*models.Workshop, error) {
	w, err := uc.registry.GetWorkshop(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrNotFound("workshop_not_found")
		}
		return nil, err
	}
	return w, nil
}

// ======================================================
// CREATE / UPDATE
// ======================================================

type CreateWorkshop struct {
	registry domain.Registry
	audit    audit.Recorder
	logger   *slog.Logger
}

func NewCreateWorkshop(
	registry domain.Registry,
	audit audit.Recorder,
	logger *slog.Logger,
) *CreateWorkshop {
	return &CreateWorkshop{
		registry: registry,
		audit:    audit,
		logger:   logger,
	}
}

func (uc *CreateWorkshop) Execute(ctx context.Context, in Input) (*models.Workshop, error) {
	w := &models.Workshop{}
	if err := in.apply(w); err != nil {
		return nil, err
	}

	if err := uc.registry.CreateWorkshop(ctx, w); err != nil {
		return nil, err
	}

	uc.logger.Info("workshop created", "workshop_id", w.ID.String(), "name", w.Name)
	uc.audit.Dispatch(workshopEvent(audit.ActionWorkshopCreated, w))

	return w, nil
}

type UpdateWorkshop struct {
	registry domain.Registry
	cache    cache.Availability
	audit    audit.Recorder
	logger   *slog.Logger
}

func NewUpdateWorkshop(
	registry domain.Registry,
	c cache.Availability,
	audit audit.Recorder,
	logger *slog.Logger,
) *UpdateWorkshop {
	return &UpdateWorkshop{
		registry: registry,
		cache:    c,
		audit:    audit,
		logger:   logger,
	}
}

// Execute replaces the workshop's attributes. Cached availability of the
// workshop is dropped since opening hours or timezone may have changed.
func (uc *UpdateWorkshop) Execute(
	ctx context.Context,
	id uuid.UUID,
	in Input,
) (*models.Workshop, error) {

	w, err := uc.registry.GetWorkshop(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrNotFound("workshop_not_found")
		}
		return nil, err
	}

	if err := in.apply(w); err != nil {
		return nil, err
	}

	if err := uc.registry.UpdateWorkshop(ctx, w); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrNotFound("workshop_not_found")
		}
		return nil, err
	}

	uc.cache.InvalidateWorkshop(ctx, w.ID)

	uc.logger.Info("workshop updated", "workshop_id", w.ID.String())
	uc.audit.Dispatch(workshopEvent(audit.ActionWorkshopUpdated, w))

	return w, nil
}
