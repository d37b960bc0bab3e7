package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/api/middleware"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/api/models"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/optimizer"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/planner"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/goerr/v2"
)

// OptimizerHandler handles optimizer-related requests
type OptimizerHandler struct {
	planner *planner.Planner
	// Optimizers are deterministic, so identical requests share a result
	// until the entry expires.
	results *store.Cache[*models.OptimizeResponse]
}

// NewOptimizerHandler creates a new optimizer handler
func NewOptimizerHandler(p *planner.Planner, ttl time.Duration) *OptimizerHandler {
	return &OptimizerHandler{planner: p, results: store.New[*models.OptimizeResponse](ttl)}
}

// Cache exposes the result cache so the server can sweep it.
func (h *OptimizerHandler) Cache() *store.Cache[*models.OptimizeResponse] { return h.results }

// ListOptimizers handles GET /api/v1/optimizers
func (h *OptimizerHandler) ListOptimizers(c *gin.Context) {
	c.JSON(http.StatusOK, []models.OptimizerInfo{
		{
			Name:        optimizer.NameGreedy,
			Description: "Value-per-dollar greedy fill with a reserve check and same-slot upgrades. Fast, approximate.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "max_upgrades",
					Type:        "int",
					Description: "Upper bound on back-fill upgrade steps",
					Default:     200,
				},
			},
		},
		{
			Name:        optimizer.NameKnapsack,
			Description: "Exact multiple-choice knapsack over whole-dollar prices and per-slot seat counts.",
			Parameters: []models.ParameterInfo{
				{
					Name:        "max_cells",
					Type:        "int",
					Description: "Upper bound on players x roster states x budget dollars",
					Default:     60_000_000,
				},
			},
		},
	})
}

// Optimize handles POST /api/v1/optimize
func (h *OptimizerHandler) Optimize(c *gin.Context) {
	var req models.OptimizeRequest
	if !bindOptional(c, &req) {
		return
	}

	key, err := store.Key(req)
	if err != nil {
		_ = c.Error(goerr.Wrap(middleware.ErrBadRequest, err.Error()))
		return
	}
	if resp, ok := h.results.Get(key); ok {
		c.JSON(http.StatusOK, resp)
		return
	}

	players, _, err := h.planner.Market()
	if err != nil {
		_ = c.Error(err)
		return
	}
	_, _, slots, err := h.planner.Resolve(req.Planner())
	if err != nil {
		_ = c.Error(err)
		return
	}
	a, err := h.planner.Optimize(players, req.Planner())
	if err != nil {
		_ = c.Error(err)
		return
	}
	resp := &models.OptimizeResponse{Assignment: a, Slots: slots}
	h.results.Set(key, resp)
	c.JSON(http.StatusOK, resp)
}

// bindOptional decodes a JSON body. An empty body leaves v at its zero value.
func bindOptional(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		_ = c.Error(goerr.Wrap(middleware.ErrBadRequest, err.Error()))
		return false
	}
	return true
}
