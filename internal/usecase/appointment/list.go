package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/workshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/workshop-scheduler/internal/domain/workshop"
	"github.com/BruksfildServices01/workshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
	"github.com/BruksfildServices01/workshop-scheduler/internal/timezone"
)

// ListInput holds raw filter values as received from the caller.
// Empty strings and zero values do not filter.
type ListInput struct {
	WorkshopID *uuid.UUID
	Date       string
	States     string
	Phone      string
	Order      string

	Page  int
	Limit int
}

type ListResult struct {
	Items []models.Appointment
	Total int64
	Page  int
	Limit int
}

type ListAppointments struct {
	registry  workshop.Registry
	repo      domain.Repository
	normalize func(string) string
}

// NewListAppointments builds the listing use case. normalize, when not nil,
// adds a canonical form of the phone filter to the tolerant match.
func NewListAppointments(
	registry workshop.Registry,
	repo domain.Repository,
	normalize func(string) string,
) *ListAppointments {
	return &ListAppointments{
		registry:  registry,
		repo:      repo,
		normalize: normalize,
	}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListInput,
) (*ListResult, error) {

	filter := domain.ListFilter{
		WorkshopID: in.WorkshopID,
	}

	// --------------------------------------------------
	// Pagination / ordering
	// --------------------------------------------------
	page := in.Page
	if page == 0 {
		page = 1
	}
	if page < 0 || in.Limit < 0 || in.Limit > domain.MaxLimit {
		return nil, httperr.ErrValidation("invalid_pagination")
	}
	limit := in.Limit
	if limit == 0 {
		limit = domain.DefaultLimit
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	switch order := domain.Order(strings.ToLower(strings.TrimSpace(in.Order))); order {
	case "", domain.OrderCreated:
		filter.Order = domain.OrderCreated
	case domain.OrderStartAsc, domain.OrderStartDesc:
		filter.Order = order
	default:
		return nil, httperr.ErrValidation("invalid_order")
	}

	// --------------------------------------------------
	// States: "CONFIRMED" or "PENDING,CONFIRMED"
	// --------------------------------------------------
	if strings.TrimSpace(in.States) != "" {
		for _, raw := range strings.Split(in.States, ",") {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			st, err := domain.ParseState(raw)
			if err != nil {
				return nil, err
			}
			filter.States = append(filter.States, st)
		}
	}

	// --------------------------------------------------
	// Calendar day in the reference zone
	// --------------------------------------------------
	if in.Date != "" {
		tz := ""
		if in.WorkshopID != nil {
			ws, err := loadWorkshop(ctx, uc.registry, *in.WorkshopID)
			if err != nil {
				return nil, err
			}
			tz = ws.Timezone
		}

		loc := timezone.Location(tz)
		day, err := time.ParseInLocation(dateLayout, in.Date, loc)
		if err != nil {
			return nil, httperr.ErrValidation("invalid_date")
		}
		from, to := domain.DayWindow(day, loc)
		filter.From = &from
		filter.To = &to
	}

	// --------------------------------------------------
	// Tolerant phone match
	// --------------------------------------------------
	if in.Phone != "" {
		filter.Phones = domain.PhoneVariants(in.Phone, uc.normalize)
	}

	items, total, err := uc.repo.ListAppointments(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Appointment{}
	}

	return &ListResult{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}
