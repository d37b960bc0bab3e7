package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/api/models"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/goerr/v2"
)

// Errors raised by the handlers themselves.
var (
	ErrBadRequest = goerr.New("invalid request")
	ErrNotFound   = goerr.New("not found")
)

var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{model.ErrMissingRequiredColumn, http.StatusUnprocessableEntity, "MISSING_REQUIRED_COLUMN"},
	{model.ErrUnresolvedPlayerIdentity, http.StatusUnprocessableEntity, "UNRESOLVED_PLAYER"},
	{model.ErrInfeasibleRoster, http.StatusUnprocessableEntity, "INFEASIBLE_ROSTER"},
	{model.ErrInvalidConfiguration, http.StatusBadRequest, "INVALID_CONFIGURATION"},
	{model.ErrInvalidValue, http.StatusBadRequest, "INVALID_VALUE"},
	{model.ErrFetchFailed, http.StatusBadGateway, "FETCH_FAILED"},
	{ErrBadRequest, http.StatusBadRequest, "INVALID_REQUEST"},
	{ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "TIMEOUT"},
	{context.Canceled, http.StatusServiceUnavailable, "CANCELLED"},
}

// Classify maps an error to its HTTP status and response body.
func Classify(err error) (int, models.ErrorResponse) {
	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			status, code = e.status, e.code
			break
		}
	}
	detail := models.ErrorDetail{Code: code, Message: err.Error()}
	var ge *goerr.Error
	if errors.As(err, &ge) {
		if values := ge.Values(); len(values) > 0 {
			detail.Details = values
		}
	}
	return status, models.ErrorResponse{Error: detail}
}

// ErrorHandler middleware handles panics and errors added with c.Error
func ErrorHandler() gin.HandlerFunc {
	recovery := gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		if err, ok := recovered.(string); ok {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "INTERNAL_ERROR", Message: err},
			})
		} else {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"},
			})
		}
		c.Abort()
	})

	return func(c *gin.Context) {
		recovery(c)
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		status, body := Classify(c.Errors.Last().Err)
		c.JSON(status, body)
	}
}
