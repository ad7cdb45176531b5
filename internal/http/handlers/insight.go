package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/inspect-backend/internal/data/aggregates"
	"github.com/yungbote/inspect-backend/internal/http/response"
	"github.com/yungbote/inspect-backend/internal/services"
)

type InsightHandler struct {
	insights services.InsightService
}

func NewInsightHandler(insights services.InsightService) *InsightHandler {
	return &InsightHandler{insights: insights}
}

type createInsightRequest struct {
	Title    string `json:"title"`
	IsPublic bool   `json:"is_public"`
}

// GET /api/insights
func (h *InsightHandler) ListInsights(c *gin.Context) {
	const op = "insights.list"
	offset, limit, ok := page(c, op)
	if !ok {
		return
	}
	out, err := h.insights.List(c.Request.Context(), services.ListInsightsInput{
		Query:    c.Query("query"),
		Offset:   offset,
		Limit:    limit,
		Parents:  flag(c, "parents"),
		Children: flag(c, "children"),
		Evidence: flag(c, "evidence"),
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/insights
func (h *InsightHandler) CreateInsight(c *gin.Context) {
	var req createInsightRequest
	if !bindJSON(c, "insights.create", &req) {
		return
	}
	in, err := h.insights.Create(c.Request.Context(), req.Title, req.IsPublic)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, in)
}

// GET /api/insights/:uid
func (h *InsightHandler) GetInsight(c *gin.Context) {
	offset, limit, ok := page(c, "insights.get")
	if !ok {
		return
	}
	in, err := h.insights.Get(c.Request.Context(), c.Param("uid"), aggregates.GetInsightOptions{
		Offset:                      offset,
		Limit:                       limit,
		IncludeNestedEvidenceTotals: flag(c, "nestedEvidenceTotals"),
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, in)
}

// PATCH /api/insights/:uid
func (h *InsightHandler) UpdateInsight(c *gin.Context) {
	var patch services.InsightPatch
	if !bindJSON(c, "insights.update", &patch) {
		return
	}
	in, err := h.insights.Update(c.Request.Context(), c.Param("uid"), patch)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, in)
}

// DELETE /api/insights/:uid
func (h *InsightHandler) DeleteInsight(c *gin.Context) {
	if err := h.insights.Delete(c.Request.Context(), c.Param("uid")); err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}

// GET /api/insights/:uid/candidates
func (h *InsightHandler) ListCandidates(c *gin.Context) {
	offset, limit, ok := page(c, "insights.candidates")
	if !ok {
		return
	}
	out, err := h.insights.Candidates(c.Request.Context(), c.Param("uid"), c.Query("query"), offset, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}
