package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/workshop-scheduler/internal/audit"
	"github.com/BruksfildServices01/workshop-scheduler/internal/config"
	"github.com/BruksfildServices01/workshop-scheduler/internal/dto"
	"github.com/BruksfildServices01/workshop-scheduler/internal/handlers"
	"github.com/BruksfildServices01/workshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/workshop-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/workshop-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/workshop-scheduler/internal/logger"
	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
)

const workshopBody = `{
	"name": "Taller Sur",
	"address": "Calle Sol 3",
	"phone": "+34910000002",
	"timezone": "UTC",
	"opening_hours": {
		"weekdays": [{"start": "09:00", "end": "12:00"}],
		"saturday": [{"start": "11:00", "end": "14:00"}],
		"sunday": []
	}
}`

type server struct {
	t *testing.T
	r *gin.Engine
}

func newServer(t *testing.T) *server {
	t.Helper()
	return newServerWithAuditLogs(t, nil)
}

func newServerWithAuditLogs(t *testing.T, logs handlers.AuditLogLister) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	r := gin.New()
	err := RegisterRoutes(r, Dependencies{
		Config:       &config.Config{PhoneDefaultRegion: "ES"},
		Logger:       logger.Discard(),
		AuditLogs:    logs,
		Workshops:    store,
		Appointments: store,
		Cache:        cache.NewLocal(time.Minute),
		Audit:        audit.Nop{},
	})
	if err != nil {
		t.Fatalf("register routes: %v", err)
	}
	return &server{t: t, r: r}
}

func (s *server) do(method, path, body string, out any) int {
	s.t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)

	if out != nil && w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			s.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code
}

func (s *server) slots(workshopID, date string) []string {
	s.t.Helper()

	var res dto.SlotsDTO
	if code := s.do(http.MethodGet, "/workshops/"+workshopID+"/slots?date="+date, "", &res); code != http.StatusOK {
		s.t.Fatalf("slots: expected 200, got %d", code)
	}
	return res.AvailableSlots
}

func appointmentBody(workshopID, start, end string) string {
	return `{
		"workshop_id": "` + workshopID + `",
		"customer_name": "Ana",
		"customer_phone": "whatsapp:+34600111222",
		"description": "cambio de aceite",
		"start_time": "` + start + `",
		"end_time": "` + end + `"
	}`
}

func TestBookingFlow(t *testing.T) {
	s := newServer(t)

	// --------------------------------------------------
	// Workshop
	// --------------------------------------------------
	var ws dto.WorkshopDTO
	if code := s.do(http.MethodPost, "/workshops", workshopBody, &ws); code != http.StatusCreated {
		t.Fatalf("create workshop: expected 201, got %d", code)
	}
	id := ws.ID.String()

	var list struct {
		Data  []dto.WorkshopSummaryDTO `json:"data"`
		Total int                      `json:"total"`
	}
	if code := s.do(http.MethodGet, "/workshops", "", &list); code != http.StatusOK || list.Total != 1 {
		t.Fatalf("list workshops: got %d %+v", code, list)
	}
	if list.Data[0].Name != "Taller Sur" || list.Data[0].Phone != "+34910000002" {
		t.Fatalf("unexpected summary %+v", list.Data[0])
	}

	all := []string{"11:00", "11:30", "12:00", "12:30", "13:00", "13:30"}
	if got := s.slots(id, "2030-06-01"); !slices.Equal(got, all) {
		t.Fatalf("expected %v, got %v", all, got)
	}

	// --------------------------------------------------
	// Pending booking keeps the slots
	// --------------------------------------------------
	var ap dto.AppointmentDTO
	body := appointmentBody(id, "2030-06-01T12:00:00Z", "2030-06-01T13:00:00Z")
	if code := s.do(http.MethodPost, "/appointments", body, &ap); code != http.StatusCreated {
		t.Fatalf("create appointment: expected 201, got %d", code)
	}
	if ap.State != "PENDING" || ap.Completed {
		t.Fatalf("unexpected appointment %+v", ap)
	}
	if got := s.slots(id, "2030-06-01"); !slices.Equal(got, all) {
		t.Fatalf("pending must not block, got %v", got)
	}

	// --------------------------------------------------
	// Confirmed booking removes them
	// --------------------------------------------------
	if code := s.do(http.MethodPatch, "/appointments/"+ap.ID.String()+"/confirm", "", &ap); code != http.StatusOK {
		t.Fatalf("confirm: expected 200, got %d", code)
	}
	if ap.State != "CONFIRMED" {
		t.Fatalf("expected CONFIRMED, got %s", ap.State)
	}
	want := []string{"11:00", "11:30", "13:00", "13:30"}
	if got := s.slots(id, "2030-06-01"); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	var apiErr httperr.HTTPError
	overlap := appointmentBody(id, "2030-06-01T12:30:00Z", "2030-06-01T13:30:00Z")
	if code := s.do(http.MethodPost, "/appointments", overlap, &apiErr); code != http.StatusConflict || apiErr.Code != "slot_not_available" {
		t.Fatalf("overlap: got %d %+v", code, apiErr)
	}

	// --------------------------------------------------
	// Listing with the tolerant phone match
	// --------------------------------------------------
	var page struct {
		Data  []dto.AppointmentDTO `json:"data"`
		Total int64                `json:"total"`
		Page  int                  `json:"page"`
		Limit int                  `json:"limit"`
	}
	path := "/appointments?workshop_id=" + id + "&date=2030-06-01&state=confirmed&customer_phone=%2B34600111222"
	if code := s.do(http.MethodGet, path, "", &page); code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", code)
	}
	if page.Total != 1 || page.Data[0].ID != ap.ID || page.Page != 1 || page.Limit != 50 {
		t.Fatalf("unexpected page %+v", page)
	}

	// --------------------------------------------------
	// Cancel, then confirm is refused
	// --------------------------------------------------
	if code := s.do(http.MethodPatch, "/appointments/"+ap.ID.String()+"/cancel", "", &ap); code != http.StatusOK || ap.State != "CANCELED" {
		t.Fatalf("cancel: got %d %s", code, ap.State)
	}
	if code := s.do(http.MethodPatch, "/appointments/"+ap.ID.String()+"/confirm", "", &apiErr); code != http.StatusConflict || apiErr.Code != "invalid_state" {
		t.Fatalf("confirm canceled: got %d %+v", code, apiErr)
	}
	if got := s.slots(id, "2030-06-01"); !slices.Equal(got, all) {
		t.Fatalf("canceled booking must free the slots, got %v", got)
	}

	// --------------------------------------------------
	// Delete
	// --------------------------------------------------
	if code := s.do(http.MethodDelete, "/appointments/"+ap.ID.String(), "", nil); code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", code)
	}
	if code := s.do(http.MethodGet, "/appointments/"+ap.ID.String(), "", &apiErr); code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", code)
	}
}

func TestUpdateAppointmentEndpoint(t *testing.T) {
	s := newServer(t)

	var ws dto.WorkshopDTO
	s.do(http.MethodPost, "/workshops", workshopBody, &ws)
	id := ws.ID.String()

	var ap dto.AppointmentDTO
	s.do(http.MethodPost, "/appointments", appointmentBody(id, "2030-06-03T09:00:00Z", "2030-06-03T09:30:00Z"), &ap)

	var updated dto.AppointmentDTO
	patch := `{"end_time": "2030-06-03T10:00:00Z", "description": "revisión completa"}`
	if code := s.do(http.MethodPatch, "/appointments/"+ap.ID.String(), patch, &updated); code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d", code)
	}
	if updated.EndTime.Hour() != 10 || updated.Description != "revisión completa" || updated.CustomerName != "Ana" {
		t.Fatalf("unexpected update %+v", updated)
	}

	var apiErr httperr.HTTPError
	inverted := `{"start_time": "2030-06-03T11:00:00Z"}`
	if code := s.do(http.MethodPatch, "/appointments/"+ap.ID.String(), inverted, &apiErr); code != http.StatusUnprocessableEntity {
		t.Fatalf("inverted interval: expected 422, got %d", code)
	}
}

func TestRequestErrors(t *testing.T) {
	s := newServer(t)

	var ws dto.WorkshopDTO
	s.do(http.MethodPost, "/workshops", workshopBody, &ws)
	id := ws.ID.String()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:   "empty interval",
			method: http.MethodPost, path: "/appointments",
			body:       appointmentBody(id, "2030-06-03T09:00:00Z", "2030-06-03T09:00:00Z"),
			wantStatus: http.StatusUnprocessableEntity, wantCode: "invalid_time_range",
		},
		{
			name:   "unknown workshop",
			method: http.MethodPost, path: "/appointments",
			body:       appointmentBody("0b7d2a36-8a51-4c39-a0a4-1d3c9c1f9e10", "2030-06-03T09:00:00Z", "2030-06-03T09:30:00Z"),
			wantStatus: http.StatusNotFound, wantCode: "workshop_not_found",
		},
		{
			name:   "missing customer",
			method: http.MethodPost, path: "/appointments",
			body:       `{"workshop_id": "` + id + `", "start_time": "2030-06-03T09:00:00Z", "end_time": "2030-06-03T09:30:00Z"}`,
			wantStatus: http.StatusBadRequest, wantCode: "invalid_body",
		},
		{
			name:   "malformed id",
			method: http.MethodGet, path: "/appointments/not-a-uuid",
			wantStatus: http.StatusBadRequest, wantCode: "invalid_id",
		},
		{
			name:   "unknown appointment",
			method: http.MethodPatch, path: "/appointments/0b7d2a36-8a51-4c39-a0a4-1d3c9c1f9e10/cancel",
			wantStatus: http.StatusNotFound, wantCode: "appointment_not_found",
		},
		{
			name:   "bad date",
			method: http.MethodGet, path: "/workshops/" + id + "/slots?date=tomorrow",
			wantStatus: http.StatusUnprocessableEntity, wantCode: "invalid_date",
		},
		{
			name:   "missing date",
			method: http.MethodGet, path: "/workshops/" + id + "/slots",
			wantStatus: http.StatusUnprocessableEntity, wantCode: "invalid_date",
		},
		{
			name:   "bad state filter",
			method: http.MethodGet, path: "/appointments?state=DONE",
			wantStatus: http.StatusUnprocessableEntity, wantCode: "invalid_state_filter",
		},
		{
			name:   "bad page",
			method: http.MethodGet, path: "/appointments?page=0",
			wantStatus: http.StatusUnprocessableEntity, wantCode: "invalid_pagination",
		},
		{
			name:   "missing bucket",
			method: http.MethodPost, path: "/workshops",
			body:       strings.Replace(workshopBody, `"sunday": []`, `"holidays": []`, 1),
			wantStatus: http.StatusBadRequest, wantCode: "invalid_body",
		},
		{
			name:   "bad clock",
			method: http.MethodPost, path: "/workshops",
			body:       strings.Replace(workshopBody, `"start": "09:00"`, `"start": "9h"`, 1),
			wantStatus: http.StatusBadRequest, wantCode: "invalid_body",
		},
		{
			name:   "inverted opening range",
			method: http.MethodPut, path: "/workshops/" + id,
			body:       strings.Replace(workshopBody, `"start": "09:00", "end": "12:00"`, `"start": "12:00", "end": "09:00"`, 1),
			wantStatus: http.StatusUnprocessableEntity, wantCode: "invalid_opening_hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var apiErr httperr.HTTPError
			code := s.do(tt.method, tt.path, tt.body, &apiErr)
			if code != tt.wantStatus || apiErr.Code != tt.wantCode {
				t.Fatalf("expected %d %s, got %d %+v", tt.wantStatus, tt.wantCode, code, apiErr)
			}
		})
	}
}

func TestOperationalEndpoints(t *testing.T) {
	s := newServer(t)

	var health map[string]string
	if code := s.do(http.MethodGet, "/health", "", &health); code != http.StatusOK || health["status"] != "ok" {
		t.Fatalf("health: got %d %v", code, health)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "workshop_http_requests_total") {
		t.Fatalf("metrics: got %d", w.Code)
	}
}

type fakeAuditLogs struct {
	got  audit.Query
	rows []models.AuditLog
}

func (f *fakeAuditLogs) List(_ context.Context, q audit.Query) ([]models.AuditLog, int64, error) {
	f.got = q
	return f.rows, int64(len(f.rows)), nil
}

func TestAuditLogsEndpoint(t *testing.T) {
	workshopID := uuid.New()
	logs := &fakeAuditLogs{rows: []models.AuditLog{{ID: 7, WorkshopID: workshopID, Action: audit.ActionConfirmed}}}
	s := newServerWithAuditLogs(t, logs)

	var page struct {
		Data  []models.AuditLog `json:"data"`
		Total int64             `json:"total"`
		Page  int               `json:"page"`
		Limit int               `json:"limit"`
	}
	path := "/workshops/" + workshopID.String() + "/audit-logs?action=confirmed&from=2030-06-01&to=2030-06-03&page=3&limit=20"
	if code := s.do(http.MethodGet, path, "", &page); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if page.Total != 1 || page.Page != 3 || page.Limit != 20 || page.Data[0].ID != 7 {
		t.Fatalf("unexpected page %+v", page)
	}

	q := logs.got
	if q.WorkshopID != workshopID || q.Action != "confirmed" || q.Limit != 20 || q.Offset != 40 {
		t.Fatalf("unexpected query %+v", q)
	}
	if q.From == nil || !q.From.Equal(time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected from %v", q.From)
	}
	if q.To == nil || !q.To.Equal(time.Date(2030, 6, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("to must include the whole day, got %v", q.To)
	}

	if code := s.do(http.MethodGet, "/workshops/"+workshopID.String()+"/audit-logs", "", &page); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if logs.got.Limit != 50 || logs.got.Offset != 0 || page.Page != 1 {
		t.Fatalf("expected default paging, got %+v", logs.got)
	}

	var apiErr httperr.HTTPError
	tests := []struct {
		query    string
		wantCode string
	}{
		{"?limit=500", "invalid_pagination"},
		{"?page=-1", "invalid_pagination"},
		{"?from=yesterday", "invalid_date"},
	}
	for _, tt := range tests {
		code := s.do(http.MethodGet, "/workshops/"+workshopID.String()+"/audit-logs"+tt.query, "", &apiErr)
		if code != http.StatusUnprocessableEntity || apiErr.Code != tt.wantCode {
			t.Fatalf("%s: expected 422 %s, got %d %+v", tt.query, tt.wantCode, code, apiErr)
		}
	}
}

func TestAuditLogsRouteNeedsPostgres(t *testing.T) {
	s := newServer(t)

	if code := s.do(http.MethodGet, "/workshops/"+uuid.NewString()+"/audit-logs", "", nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 without an audit log reader, got %d", code)
	}
}
