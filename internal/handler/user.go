package handler

import (
	"fmt"
	"net/http"

	"wallet-api/internal/errs"
	"wallet-api/internal/middleware"
	"wallet-api/internal/store"
	"wallet-api/internal/util"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Store *store.Store
}

func NewUserHandler(s *store.Store) *UserHandler {
	return &UserHandler{Store: s}
}

// GetUser looks a user up by username.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.Store.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	if user == nil {
		util.Fail(c, fmt.Errorf("user with this username: %w", errs.ErrNotFound))
		return
	}
	util.Success(c, http.StatusOK, toUserResp(user))
}

// Profile returns the authenticated user.
func (h *UserHandler) Profile(c *gin.Context) {
	util.Success(c, http.StatusOK, toUserResp(middleware.CurrentUser(c)))
}
