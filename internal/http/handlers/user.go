package handlers

import (
	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/inspect-backend/internal/domain/aggregates"
	"github.com/yungbote/inspect-backend/internal/http/response"
	"github.com/yungbote/inspect-backend/internal/platform/ctxutil"
	"github.com/yungbote/inspect-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	id, ok := ctxutil.AuthUserID(c.Request.Context())
	if !ok {
		respondErr(c, domainagg.Unauthorized("users.me"))
		return
	}
	me, err := uh.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}
