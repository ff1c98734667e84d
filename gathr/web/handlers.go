package web

import (
	"net/http"
	"strconv"

	"github.com/gathr-app/gathr-rankings/gathr/ranking"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(c echo.Context) error {
	if err := s.db.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "database unreachable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// getLeaderboard serves the dual-shape read: a flat rank-ordered page when
// both category and period are given, a category -> period -> entries
// overview otherwise.
func (s *Server) getLeaderboard(c echo.Context) error {
	category := c.QueryParam("category")
	period := c.QueryParam("period")

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	page, _ := strconv.Atoi(c.QueryParam("page"))

	if category != "" {
		if _, err := ranking.ParseCategory(category); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
	}

	resp, err := s.leaderboards.Get(c.Request().Context(), category, period, limit, page)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to load leaderboard"})
	}
	if resp.Board != nil {
		return c.JSON(http.StatusOK, resp.Board)
	}
	return c.JSON(http.StatusOK, resp.Overview)
}

type recomputeRequest struct {
	Categories []string `json:"categories"`
	Periods    []string `json:"periods"`
}

type categoryReport struct {
	Category string `json:"category"`
	Period   string `json:"period"`
	Status   string `json:"status"`
	Count    int    `json:"count"`
	Error    string `json:"error,omitempty"`
}

type recomputeResponse struct {
	Success bool             `json:"success"`
	Results []categoryReport `json:"results"`
}

// recompute triggers an on-demand recomputation. The response reports every
// requested category individually; partial failure is reported, not masked.
func (s *Server) recompute(c echo.Context) error {
	var req recomputeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	var categories []ranking.RankingCategory
	if len(req.Categories) > 0 {
		categories = make([]ranking.RankingCategory, 0, len(req.Categories))
		for _, raw := range req.Categories {
			category, err := ranking.ParseCategory(raw)
			if err != nil {
				return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			}
			categories = append(categories, category)
		}
	}

	var periods []string
	if len(req.Periods) > 0 {
		periods = req.Periods
	}

	results := s.orchestrator.Run(c.Request().Context(), categories, periods)

	resp := recomputeResponse{Success: true, Results: make([]categoryReport, len(results))}
	for i, r := range results {
		report := categoryReport{
			Category: string(r.Category),
			Period:   r.Period,
			Status:   string(r.State),
			Count:    r.Count,
		}
		if r.Err != nil {
			report.Error = r.Err.Error()
			resp.Success = false
		}
		resp.Results[i] = report
	}

	status := http.StatusOK
	if !resp.Success {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, resp)
}
