package handler

import (
	"net/http"

	"wallet-api/internal/middleware"
	"wallet-api/internal/util"

	"github.com/gin-gonic/gin"
)

type changePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword lets the current user replace their password. Tokens
// already issued stay valid until they expire.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordReq
	if !bind(c, &req) {
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.Store.ChangePassword(c.Request.Context(), user.UUID, req.OldPassword, req.NewPassword); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, gin.H{"detail": "Password changed."})
}
