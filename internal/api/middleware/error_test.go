package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/api/middleware"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"bad cell", goerr.Wrap(model.ErrInvalidValue, "unparsable number", goerr.V(model.RowKey, 4)), http.StatusBadRequest, "INVALID_VALUE"},
		{"bad config", goerr.Wrap(model.ErrInvalidConfiguration, "budget must be > 0"), http.StatusBadRequest, "INVALID_CONFIGURATION"},
		{"missing column", goerr.Wrap(model.ErrMissingRequiredColumn, "name column not found"), http.StatusUnprocessableEntity, "MISSING_REQUIRED_COLUMN"},
		{"unresolved", goerr.Wrap(model.ErrUnresolvedPlayerIdentity, "no player with this name"), http.StatusUnprocessableEntity, "UNRESOLVED_PLAYER"},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, "TIMEOUT"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := middleware.Classify(tc.err)
			gt.Number(t, status).Equal(tc.status)
			gt.Value(t, body.Error.Code).Equal(tc.code)
			gt.Value(t, body.Error.Message).Equal(tc.err.Error())
		})
	}

	_, body := middleware.Classify(goerr.Wrap(model.ErrInvalidValue, "risk out of range", goerr.V(model.ValueKey, 1.5)))
	gt.Value(t, body.Error.Details[model.ValueKey]).Equal(any(1.5))
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/value", func(c *gin.Context) {
		_ = c.Error(goerr.Wrap(model.ErrInvalidValue, "unparsable number"))
	})
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/value", nil))
	gt.Number(t, w.Code).Equal(http.StatusBadRequest)
	gt.String(t, w.Body.String()).Contains(`"code":"INVALID_VALUE"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	gt.Number(t, w.Code).Equal(http.StatusInternalServerError)
	gt.String(t, w.Body.String()).Contains("kaboom")
}
