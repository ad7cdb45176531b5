package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/inspect-backend/internal/http/response"
	"github.com/yungbote/inspect-backend/internal/services"
)

type EvidenceHandler struct {
	evidence services.EvidenceService
}

func NewEvidenceHandler(evidence services.EvidenceService) *EvidenceHandler {
	return &EvidenceHandler{evidence: evidence}
}

type createEvidenceRequest struct {
	Evidence []services.EvidenceInput `json:"evidence"`
}

// POST /api/evidence
func (h *EvidenceHandler) CreateEvidence(c *gin.Context) {
	var req createEvidenceRequest
	if !bindJSON(c, "evidence.create", &req) {
		return
	}
	rows, err := h.evidence.Create(c.Request.Context(), req.Evidence)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, rows)
}

// DELETE /api/evidence/:id
func (h *EvidenceHandler) DeleteEvidence(c *gin.Context) {
	id, ok := pathID(c, "evidence.delete")
	if !ok {
		return
	}
	if err := h.evidence.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}
