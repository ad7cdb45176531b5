package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/inspect-backend/internal/http/response"
	"github.com/yungbote/inspect-backend/internal/services"
)

type ChildrenHandler struct {
	children services.InsightLinkService
}

func NewChildrenHandler(children services.InsightLinkService) *ChildrenHandler {
	return &ChildrenHandler{children: children}
}

type createChildrenRequest struct {
	Children []services.InsightLinkInput `json:"children"`
}

// POST /api/children
func (h *ChildrenHandler) CreateChildren(c *gin.Context) {
	var req createChildrenRequest
	if !bindJSON(c, "children.create", &req) {
		return
	}
	rows, err := h.children.Create(c.Request.Context(), req.Children)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, rows)
}

// DELETE /api/children/:id
func (h *ChildrenHandler) DeleteChild(c *gin.Context) {
	id, ok := pathID(c, "children.delete")
	if !ok {
		return
	}
	if err := h.children.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}
