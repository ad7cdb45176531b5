package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/inspect-backend/internal/http/response"
	"github.com/yungbote/inspect-backend/internal/services"
)

// FeedbackHandler serves comments and reactions.
type FeedbackHandler struct {
	comments  services.CommentService
	reactions services.ReactionService
}

func NewFeedbackHandler(comments services.CommentService, reactions services.ReactionService) *FeedbackHandler {
	return &FeedbackHandler{comments: comments, reactions: reactions}
}

// POST /api/comments
func (h *FeedbackHandler) CreateComment(c *gin.Context) {
	var req services.CommentInput
	if !bindJSON(c, "comments.create", &req) {
		return
	}
	row, err := h.comments.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, row)
}

// DELETE /api/comments/:id
func (h *FeedbackHandler) DeleteComment(c *gin.Context) {
	id, ok := pathID(c, "comments.delete")
	if !ok {
		return
	}
	if err := h.comments.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}

// POST /api/reactions
func (h *FeedbackHandler) UpsertReaction(c *gin.Context) {
	var req services.ReactionInput
	if !bindJSON(c, "reactions.upsert", &req) {
		return
	}
	row, err := h.reactions.Upsert(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, row)
}

// DELETE /api/reactions/:id
func (h *FeedbackHandler) DeleteReaction(c *gin.Context) {
	id, ok := pathID(c, "reactions.delete")
	if !ok {
		return
	}
	if err := h.reactions.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}
