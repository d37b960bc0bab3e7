package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/api"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/api/models"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/config"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/planner"
	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/gt"
	"github.com/rs/zerolog"
	"go.uber.org/goleak"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newServer(t *testing.T) *api.Server {
	t.Helper()
	c := config.Default()
	c.Data.Projections = []string{"testdata/projections.csv"}
	c.Data.Auction = "testdata/auction.csv"
	c.Data.ADP = "testdata/adp.csv"
	c.Roster.Preset = "two-qb"
	return api.NewServer(planner.New(c, zerolog.Nop()), zerolog.Nop(), api.Options{})
}

func do(t *testing.T, s *api.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &v)).Required()
	return v
}

func TestHealth(t *testing.T) {
	w := do(t, newServer(t), http.MethodGet, "/health", "")
	gt.Number(t, w.Code).Equal(http.StatusOK)
	gt.String(t, w.Body.String()).Contains(`"ok"`)
}

func TestListPresets(t *testing.T) {
	w := do(t, newServer(t), http.MethodGet, "/api/v1/presets", "")
	gt.Number(t, w.Code).Equal(http.StatusOK)

	resp := decode[models.PresetsResponse](t, w)
	gt.Number(t, len(resp.Rosters)).Equal(4)
	gt.Number(t, len(resp.Scenarios)).Equal(3)
	gt.Number(t, resp.Scenarios["volatile"].NumScenarios).Equal(300)
}

func TestListPlayers(t *testing.T) {
	s := newServer(t)

	w := do(t, s, http.MethodGet, "/api/v1/players?position=qb&limit=2", "")
	gt.Number(t, w.Code).Equal(http.StatusOK)
	resp := decode[models.PlayersResponse](t, w)
	gt.Number(t, resp.Count).Equal(2)
	for _, p := range resp.Players {
		gt.Value(t, string(p.Position)).Equal("QB")
	}
	gt.Value(t, resp.Report != nil).Equal(true)

	w = do(t, s, http.MethodGet, "/api/v1/players", "")
	gt.Number(t, decode[models.PlayersResponse](t, w).Count).Equal(13)

	t.Run("unknown position", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/api/v1/players?position=LB", "")
		gt.Number(t, w.Code).Equal(http.StatusBadRequest)
		gt.Value(t, decode[models.ErrorResponse](t, w).Error.Code).Equal("INVALID_REQUEST")
	})

	t.Run("negative limit", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/api/v1/players?limit=-1", "")
		gt.Number(t, w.Code).Equal(http.StatusBadRequest)
	})
}

func TestListOptimizers(t *testing.T) {
	w := do(t, newServer(t), http.MethodGet, "/api/v1/optimizers", "")
	gt.Number(t, w.Code).Equal(http.StatusOK)
	resp := decode[[]models.OptimizerInfo](t, w)
	gt.Array(t, resp).Length(2)
	gt.Value(t, resp[0].Name).Equal("greedy")
	gt.Value(t, resp[1].Name).Equal("knapsack")
}

func TestOptimize(t *testing.T) {
	s := newServer(t)

	t.Run("config defaults with empty body", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/api/v1/optimize", "")
		gt.Number(t, w.Code).Equal(http.StatusOK)
		resp := decode[models.OptimizeResponse](t, w)
		gt.Array(t, resp.Assignment.Picks).Length(7)
		gt.Number(t, resp.Assignment.Spent).LessOrEqual(200)
		gt.Array(t, resp.Slots).Length(4)
	})

	t.Run("knapsack never worse than greedy", func(t *testing.T) {
		greedy := decode[models.OptimizeResponse](t, do(t, s, http.MethodPost, "/api/v1/optimize", `{"optimizer":"greedy"}`))
		w := do(t, s, http.MethodPost, "/api/v1/optimize", `{"optimizer":"knapsack","params":{"max_cells":5000000}}`)
		gt.Number(t, w.Code).Equal(http.StatusOK)
		exact := decode[models.OptimizeResponse](t, w)
		gt.Number(t, exact.Assignment.TotalValue).GreaterOrEqual(greedy.Assignment.TotalValue - 1e-9)
	})

	t.Run("repeated request is served from cache", func(t *testing.T) {
		body := `{"budget":150,"preset":"standard"}`
		first := do(t, s, http.MethodPost, "/api/v1/optimize", body)
		second := do(t, s, http.MethodPost, "/api/v1/optimize", body)
		gt.Number(t, first.Code).Equal(second.Code)
		gt.Value(t, second.Body.String()).Equal(first.Body.String())
	})

	t.Run("infeasible budget", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/api/v1/optimize", `{"budget":20}`)
		gt.Number(t, w.Code).Equal(http.StatusUnprocessableEntity)
		resp := decode[models.ErrorResponse](t, w)
		gt.Value(t, resp.Error.Code).Equal("INFEASIBLE_ROSTER")
		gt.Value(t, resp.Error.Details["budget"]).Equal(float64(20))
	})

	t.Run("unknown optimizer", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/api/v1/optimize", `{"optimizer":"knapsak"}`)
		gt.Number(t, w.Code).Equal(http.StatusBadRequest)
		resp := decode[models.ErrorResponse](t, w)
		gt.Value(t, resp.Error.Code).Equal("INVALID_CONFIGURATION")
		gt.Value(t, resp.Error.Details["did_you_mean"]).Equal("knapsack")
	})

	t.Run("malformed body", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/api/v1/optimize", `{"budget":`)
		gt.Number(t, w.Code).Equal(http.StatusBadRequest)
		gt.Value(t, decode[models.ErrorResponse](t, w).Error.Code).Equal("INVALID_REQUEST")
	})
}

func TestScenarios(t *testing.T) {
	s := newServer(t)

	body := `{"scenarios":{"preset":"calm","num_scenarios":10,"seed":42}}`
	w := do(t, s, http.MethodPost, "/api/v1/scenarios", body)
	gt.Number(t, w.Code).Equal(http.StatusOK)
	created := decode[models.ScenarioResponse](t, w)
	gt.String(t, created.ID).NotEqual("")
	gt.Value(t, created.Seed).Equal(uint64(42))
	gt.Array(t, created.Scenarios).Length(0)
	gt.Number(t, created.Summary.TotalValue.Count).Equal(10)

	w = do(t, s, http.MethodGet, "/api/v1/scenarios/"+created.ID, "")
	gt.Number(t, w.Code).Equal(http.StatusOK)
	fetched := decode[models.ScenarioResponse](t, w)
	gt.Array(t, fetched.Scenarios).Length(10)
	gt.Value(t, fetched.Summary).Equal(created.Summary)

	// Same seed, same batch.
	again := decode[models.ScenarioResponse](t, do(t, s, http.MethodPost, "/api/v1/scenarios", body))
	gt.Value(t, again.Summary).Equal(created.Summary)
	gt.String(t, again.ID).NotEqual(created.ID)

	t.Run("unknown id", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/api/v1/scenarios/nope", "")
		gt.Number(t, w.Code).Equal(http.StatusNotFound)
		gt.Value(t, decode[models.ErrorResponse](t, w).Error.Code).Equal("NOT_FOUND")
	})

	t.Run("too many scenarios", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/api/v1/scenarios", `{"scenarios":{"num_scenarios":100000}}`)
		gt.Number(t, w.Code).Equal(http.StatusBadRequest)
	})

	t.Run("invalid scenario params", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/api/v1/scenarios", `{"scenarios":{"preset":"wild"}}`)
		gt.Number(t, w.Code).Equal(http.StatusBadRequest)
		gt.Value(t, decode[models.ErrorResponse](t, w).Error.Code).Equal("INVALID_CONFIGURATION")
	})
}

func TestMissingInputs(t *testing.T) {
	s := api.NewServer(planner.New(config.Default(), zerolog.Nop()), zerolog.Nop(), api.Options{})
	w := do(t, s, http.MethodGet, "/api/v1/players", "")
	gt.Number(t, w.Code).Equal(http.StatusBadRequest)
	gt.Value(t, decode[models.ErrorResponse](t, w).Error.Code).Equal("INVALID_CONFIGURATION")
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/optimize", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	newServer(t).Router.ServeHTTP(w, req)

	gt.Number(t, w.Code).Equal(http.StatusNoContent)
	gt.Value(t, w.Header().Get("Access-Control-Allow-Origin")).Equal("*")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newServer(t)
	do(t, s, http.MethodGet, "/health", "")

	w := do(t, s, http.MethodGet, "/metrics", "")
	gt.Number(t, w.Code).Equal(http.StatusOK)
	gt.Bool(t, bytes.Contains(w.Body.Bytes(), []byte(`ffbo_http_requests_total{method="GET",route="/health",status="200"}`))).True()
}

func TestJanitorStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		newServer(t).Janitor(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
