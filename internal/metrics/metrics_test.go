package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus"
)

func TestObserveOptimizeRegistersMetrics(t *testing.T) {
	ObserveOptimize("greedy", time.Now(), nil)
	ObserveOptimize("greedy", time.Now(), errors.New("boom"))

	mfs, err := prometheus.DefaultGatherer.Gather()
	gt.NoError(t, err).Required()

	found := map[string]bool{}
	for _, mf := range mfs {
		found[mf.GetName()] = true
	}
	gt.Bool(t, found["ffbo_optimize_total"]).True()
	gt.Bool(t, found["ffbo_optimize_seconds"]).True()
}

func TestHandlerServesMetrics(t *testing.T) {
	ScenariosTotal.Add(3)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	gt.Number(t, rec.Code).Equal(200)
	gt.Bool(t, strings.Contains(rec.Body.String(), "ffbo_scenarios_total")).True()
}

func TestResult(t *testing.T) {
	gt.Value(t, Result(nil)).Equal("ok")
	gt.Value(t, Result(errors.New("x"))).Equal("error")
}
