package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/inspect-backend/internal/http/response"
	"github.com/yungbote/inspect-backend/internal/services"
)

type LinkHandler struct {
	links services.LinkService
}

func NewLinkHandler(links services.LinkService) *LinkHandler {
	return &LinkHandler{links: links}
}

type createLinkRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type updateLinkRequest struct {
	Title string `json:"title"`
}

// GET /api/links
func (h *LinkHandler) ListLinks(c *gin.Context) {
	offset, limit, ok := page(c, "links.list")
	if !ok {
		return
	}
	out, err := h.links.List(c.Request.Context(), c.Query("query"), offset, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/links
func (h *LinkHandler) CreateLink(c *gin.Context) {
	var req createLinkRequest
	if !bindJSON(c, "links.create", &req) {
		return
	}
	link, err := h.links.Create(c.Request.Context(), req.URL, req.Title)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondCreated(c, link)
}

// GET /api/links/:uid
func (h *LinkHandler) GetLink(c *gin.Context) {
	link, err := h.links.Get(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, link)
}

// PATCH /api/links/:uid
func (h *LinkHandler) UpdateLink(c *gin.Context) {
	var req updateLinkRequest
	if !bindJSON(c, "links.update", &req) {
		return
	}
	link, err := h.links.Update(c.Request.Context(), c.Param("uid"), req.Title)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, link)
}

// DELETE /api/links/:uid
func (h *LinkHandler) DeleteLink(c *gin.Context) {
	if err := h.links.Delete(c.Request.Context(), c.Param("uid")); err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}
