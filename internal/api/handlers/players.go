package handlers

import (
	"net/http"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/api/middleware"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/api/models"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/market"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/planner"
	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/goerr/v2"
)

// PlayerHandler serves the built market
type PlayerHandler struct {
	planner *planner.Planner
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(p *planner.Planner) *PlayerHandler {
	return &PlayerHandler{planner: p}
}

// ListPlayers handles GET /api/v1/players
func (h *PlayerHandler) ListPlayers(c *gin.Context) {
	var q models.PlayersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(goerr.Wrap(middleware.ErrBadRequest, err.Error()))
		return
	}
	if q.Limit < 0 {
		_ = c.Error(goerr.Wrap(middleware.ErrBadRequest, "limit must be >= 0", goerr.V("limit", q.Limit)))
		return
	}
	var pos model.Position
	if q.Position != "" {
		p, ok := model.ParsePosition(q.Position)
		if !ok {
			_ = c.Error(goerr.Wrap(middleware.ErrBadRequest, "unknown position", goerr.V(model.PositionKey, q.Position)))
			return
		}
		pos = p
	}

	players, rep, err := h.planner.Market()
	if err != nil {
		_ = c.Error(err)
		return
	}
	top := market.Top(players, pos, q.Limit)
	if top == nil {
		top = []model.Player{}
	}
	c.JSON(http.StatusOK, models.PlayersResponse{Count: len(top), Players: top, Report: rep})
}
