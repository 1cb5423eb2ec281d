package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/evcal/event-lifecycle-service/internal/bus"
	"github.com/evcal/event-lifecycle-service/internal/clock"
	"github.com/evcal/event-lifecycle-service/internal/domain"
	"github.com/evcal/event-lifecycle-service/internal/parser"
	"github.com/evcal/event-lifecycle-service/internal/repository/memory"
	"github.com/evcal/event-lifecycle-service/internal/scheduler"
	"github.com/evcal/event-lifecycle-service/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// A Sunday at noon, matching the service fixtures.
var apiNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	log := zap.NewNop()
	proposals := memory.NewParseResponseRepository()
	events := memory.NewEventRepository()
	reminders := memory.NewReminderRepository()
	timeline := memory.NewTimelineRepository()
	b := bus.New()
	clk := clock.NewSimulated(apiNow)

	sched := scheduler.New(reminders, events, b, clk, nil, log)
	sched.Register(b)
	service.NewAuditRecorder(timeline, events, clk, log).Register(b)

	lifecycle := service.NewLifecycleService(
		proposals, events, timeline, b, clk, sched, parser.NewRuleBased(), log,
	)
	return NewHandler(lifecycle, log)
}

func doJSON(t *testing.T, h *Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func submitDinner(t *testing.T, h *Handler) domain.ParseResponse {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/parse", gin.H{"text": "Dinner with Sam tomorrow at 7pm"})
	require.Equal(t, http.StatusCreated, w.Code)
	return decodeBody[domain.ParseResponse](t, w)
}

func confirmProposal(t *testing.T, h *Handler, pr domain.ParseResponse) domain.Event {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/proposed-events/%s/confirm", pr.ID), gin.H{
		"proposed_event": pr.Proposed,
	})
	require.Equal(t, http.StatusOK, w.Code)
	return decodeBody[domain.Event](t, w)
}

func TestHealthCheck(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestParse_MissingText(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/parse", gin.H{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}

func TestParse_CreatesPendingProposal(t *testing.T) {
	h := newTestHandler(t)

	pr := submitDinner(t, h)

	assert.NotEmpty(t, pr.ID)
	assert.Equal(t, domain.ProposalStatusPending, pr.Status)
	assert.Equal(t, "Dinner with Sam", pr.Proposed.Title)
	assert.Equal(t, time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC), pr.Proposed.Start)
	assert.Empty(t, pr.Conflicts)
}

func TestListPending(t *testing.T) {
	h := newTestHandler(t)
	pr := submitDinner(t, h)

	w := doJSON(t, h, http.MethodGet, "/proposed-events", nil)

	require.Equal(t, http.StatusOK, w.Code)
	pending := decodeBody[[]domain.ParseResponse](t, w)
	require.Len(t, pending, 1)
	assert.Equal(t, pr.ID, pending[0].ID)
}

func TestGetProposal_NotFound(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, http.MethodGet, "/proposed-events/bogus-id", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestConfirm_CreatesEventWithReminder(t *testing.T) {
	h := newTestHandler(t)
	pr := submitDinner(t, h)

	event := confirmProposal(t, h, pr)

	assert.Equal(t, "Dinner with Sam", event.Title)
	assert.Equal(t, pr.ID, event.ParseResponseID)
	assert.Len(t, event.ReminderIDs, 1)
}

func TestConfirm_NotFound(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/proposed-events/bogus-id/confirm", gin.H{
		"proposed_event": gin.H{
			"title": "Dinner",
			"start": apiNow.Add(7 * time.Hour),
			"end":   apiNow.Add(8 * time.Hour),
		},
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfirm_InvalidInterval(t *testing.T) {
	h := newTestHandler(t)
	pr := submitDinner(t, h)

	edited := pr.Proposed
	edited.Start, edited.End = edited.End, edited.Start
	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/proposed-events/%s/confirm", pr.ID), gin.H{
		"proposed_event": edited,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_interval")
}

func TestRejectThenConfirm_Conflict(t *testing.T) {
	h := newTestHandler(t)
	pr := submitDinner(t, h)

	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/proposed-events/%s/reject", pr.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	rejected := decodeBody[domain.ParseResponse](t, w)
	assert.Equal(t, domain.ProposalStatusRejected, rejected.Status)

	w = doJSON(t, h, http.MethodPost, fmt.Sprintf("/proposed-events/%s/confirm", pr.ID), gin.H{
		"proposed_event": pr.Proposed,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "illegal_transition")

	// The rejected record stays retrievable.
	w = doJSON(t, h, http.MethodGet, fmt.Sprintf("/proposed-events/%s", pr.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	stored := decodeBody[domain.ParseResponse](t, w)
	assert.Equal(t, domain.ProposalStatusRejected, stored.Status)
}

func TestGetEvent_NotFound(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, http.MethodGet, "/events/bogus-id", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShareEvent(t *testing.T) {
	h := newTestHandler(t)
	event := confirmProposal(t, h, submitDinner(t, h))

	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/events/%s/share", event.ID), gin.H{
		"targets": []string{"alice@example.com"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"shared_with":["alice@example.com"]`)
}

func TestShareEvent_EmptyTargets(t *testing.T) {
	h := newTestHandler(t)
	event := confirmProposal(t, h, submitDinner(t, h))

	w := doJSON(t, h, http.MethodPost, fmt.Sprintf("/events/%s/share", event.ID), gin.H{
		"targets": []string{},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}

func TestTick_FiresDueReminder(t *testing.T) {
	h := newTestHandler(t)
	event := confirmProposal(t, h, submitDinner(t, h))

	// The default reminder sits 30 minutes before the 19:00 start.
	w := doJSON(t, h, http.MethodPost, "/tick", gin.H{"now": "2026-03-02T18:30:00Z"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Time           time.Time         `json:"time"`
		RemindersFired []domain.Reminder `json:"reminders_fired"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, time.Date(2026, 3, 2, 18, 30, 0, 0, time.UTC), resp.Time)
	require.Len(t, resp.RemindersFired, 1)
	assert.Equal(t, event.ID, resp.RemindersFired[0].EventID)
}

func TestTick_NothingDueReturnsEmptyArray(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, http.MethodPost, "/tick", gin.H{"now": "2026-03-01T13:00:00Z"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reminders_fired":[]`)
}

func TestEventTimeline(t *testing.T) {
	h := newTestHandler(t)
	event := confirmProposal(t, h, submitDinner(t, h))

	w := doJSON(t, h, http.MethodGet, fmt.Sprintf("/events/%s/timeline", event.ID), nil)

	require.Equal(t, http.StatusOK, w.Code)
	entries := decodeBody[[]domain.TimelineEntry](t, w)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.TimelineCreated, entries[0].Type)
	assert.Equal(t, domain.TimelineReminderScheduled, entries[1].Type)
}

func TestEventTimeline_NotFound(t *testing.T) {
	h := newTestHandler(t)

	w := doJSON(t, h, http.MethodGet, "/events/bogus-id/timeline", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportCalendar(t *testing.T) {
	h := newTestHandler(t)
	event := confirmProposal(t, h, submitDinner(t, h))

	w := doJSON(t, h, http.MethodGet, "/events/calendar.ics", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/calendar"))
	body := w.Body.String()
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "SUMMARY:Dinner with Sam")
	assert.Contains(t, body, event.ID)
}
