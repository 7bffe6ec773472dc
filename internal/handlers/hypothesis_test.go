package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/archboard/archboard-backend/internal/catalog"
	"github.com/archboard/archboard-backend/internal/db"
	"github.com/archboard/archboard-backend/internal/handlers"
	"github.com/archboard/archboard-backend/internal/logger"
	"github.com/archboard/archboard-backend/internal/middleware"
	"github.com/archboard/archboard-backend/internal/repos"
	"github.com/archboard/archboard-backend/internal/server"
	"github.com/archboard/archboard-backend/internal/services"
	"github.com/archboard/archboard-backend/internal/types"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	gdb, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	log := logger.NewNop()
	hypoRepo := repos.NewHypothesisRepo(gdb, log)
	planningRepo := repos.NewTechnicalPlanningRepo(gdb, log)
	eventRepo := repos.NewHypothesisEventRepo(gdb, log)
	directory := catalog.NewStaticDirectory([]catalog.Entity{
		{Ref: "component:default/checkout", Team: "payments"},
	}, log)
	hypService := services.NewHypothesisService(gdb, log, hypoRepo, planningRepo, eventRepo, directory)
	eventService := services.NewEventService(gdb, log, eventRepo)

	return server.NewRouter(server.RouterConfig{
		RequestLogMiddleware: middleware.NewRequestLogMiddleware(log),
		HypothesisHandler:    handlers.NewHypothesisHandler(log, hypService),
		PlanningHandler:      handlers.NewPlanningHandler(log, hypService),
		EventHandler:         handlers.NewEventHandler(log, eventService),
		StatsHandler:         handlers.NewStatsHandler(log, hypService),
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createPayload() map[string]any {
	return map[string]any{
		"statement":          "The checkout service will not scale past 500 rps",
		"source_type":        "Solution",
		"entity_refs":        []string{"component:default/checkout"},
		"quality_attributes": []string{"Scalability"},
		"uncertainty":        "High",
		"impact":             "High",
	}
}

func TestHypothesisEndpoints(t *testing.T) {
	router := newTestRouter(t)

	// create
	rec := doJSON(t, router, http.MethodPost, "/api/hypotheses", createPayload())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created types.Hypothesis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, types.StatusOpen, created.Status)

	// get by id
	rec = doJSON(t, router, http.MethodGet, "/api/hypotheses/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var loaded types.Hypothesis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loaded))
	require.Equal(t, created.ID, loaded.ID)
	require.Equal(t, "need-attention", loaded.Focus)

	// update
	rec = doJSON(t, router, http.MethodPut, "/api/hypotheses/"+created.ID.String(), map[string]any{
		"status": "In Review",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// events: CREATE then UPDATE
	rec = doJSON(t, router, http.MethodGet, "/api/hypotheses/"+created.ID.String()+"/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var eventsResp struct {
		Events []types.HypothesisEvent `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eventsResp))
	require.Len(t, eventsResp.Events, 2)
	require.Equal(t, types.EventCreate, eventsResp.Events[0].EventType)
	require.Equal(t, types.EventUpdate, eventsResp.Events[1].EventType)

	// stats
	rec = doJSON(t, router, http.MethodGet, "/api/hypotheses/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats services.HypothesisStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Equal(t, 1, stats.Total)
	require.Equal(t, 1, stats.NeedAttention)
	require.Equal(t, 1, stats.InLast30Days)

	// referenced refs
	rec = doJSON(t, router, http.MethodGet, "/api/entity-refs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var refsResp struct {
		EntityRefs []string `json:"entity_refs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refsResp))
	require.Equal(t, []string{"component:default/checkout"}, refsResp.EntityRefs)

	// teams via directory
	rec = doJSON(t, router, http.MethodGet, "/api/teams", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var teamsResp struct {
		Teams []string `json:"teams"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &teamsResp))
	require.Equal(t, []string{"payments"}, teamsResp.Teams)

	// delete, then delete again -> 404
	rec = doJSON(t, router, http.MethodDelete, "/api/hypotheses/"+created.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, router, http.MethodDelete, "/api/hypotheses/"+created.ID.String(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateHypothesisSchemaValidation(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name   string
		mutate func(p map[string]any)
	}{
		{"short_statement", func(p map[string]any) { p["statement"] = "too short" }},
		{"bad_ordinal", func(p map[string]any) { p["uncertainty"] = "Extreme" }},
		{"bad_source_type", func(p map[string]any) { p["source_type"] = "Guesswork" }},
		{"bad_entity_ref", func(p map[string]any) { p["entity_refs"] = []string{"not a ref"} }},
		{"missing_entity_refs", func(p map[string]any) { delete(p, "entity_refs") }},
		{"bad_quality_attribute", func(p map[string]any) { p["quality_attributes"] = []string{"Speed"} }},
		{"bad_artefact_url", func(p map[string]any) { p["related_artefacts"] = []string{"not-a-url"} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := createPayload()
			tc.mutate(payload)
			rec := doJSON(t, router, http.MethodPost, "/api/hypotheses", payload)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestMalformedAndMissingIDs(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/hypotheses/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	missing := "018f2f4a-0000-7000-8000-000000000000"
	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/hypotheses/%s", missing), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// plannings for an unknown hypothesis: 404
	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/hypotheses/%s/plannings", missing), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// events for an unknown hypothesis: empty series, not an error
	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/hypotheses/%s/events", missing), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var eventsResp struct {
		Events []types.HypothesisEvent `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eventsResp))
	require.Empty(t, eventsResp.Events)
}

func TestPlanningEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/hypotheses", createPayload())
	require.Equal(t, http.StatusCreated, rec.Code)
	var created types.Hypothesis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, router, http.MethodPost, "/api/hypotheses/"+created.ID.String()+"/plannings", map[string]any{
		"entity_ref":       "component:default/checkout",
		"action_type":      "Spike",
		"description":      "load test the checkout path",
		"expected_outcome": "hard numbers for the scaling claim",
		"target_date":      "2026-10-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var planning types.TechnicalPlanning
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &planning))

	rec = doJSON(t, router, http.MethodGet, "/api/hypotheses/"+created.ID.String()+"/plannings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listResp struct {
		TechnicalPlannings []types.TechnicalPlanning `json:"technical_plannings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	require.Len(t, listResp.TechnicalPlannings, 1)

	rec = doJSON(t, router, http.MethodPut, "/api/plannings/"+planning.ID.String(), map[string]any{
		"expected_outcome": "revised numbers",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated types.TechnicalPlanning
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, "revised numbers", updated.ExpectedOutcome)

	rec = doJSON(t, router, http.MethodDelete, "/api/plannings/"+planning.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, router, http.MethodDelete, "/api/plannings/"+planning.ID.String(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
