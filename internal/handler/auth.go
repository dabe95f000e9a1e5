package handler

import (
	"net/http"

	"wallet-api/internal/auth"
	"wallet-api/internal/store"
	"wallet-api/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves login and signup.
type AuthHandler struct {
	Store *store.Store
	Auth  *auth.Service
}

func NewAuthHandler(s *store.Store, a *auth.Service) *AuthHandler {
	return &AuthHandler{Store: s, Auth: a}
}

// ---------- signup ----------

// signupReq keeps the historical wire name hashed_password; the value is the
// raw password and is hashed by the store.
type signupReq struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"hashed_password" binding:"required"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupReq
	if !bind(c, &req) {
		return
	}

	user, err := h.Store.CreateUser(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusCreated, toUserResp(user))
}

// ---------- login ----------

type loginReq struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login takes form fields username and password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	user, err := h.Auth.Authenticate(c.Request.Context(), h.Store, req.Username, req.Password)
	if err != nil {
		util.Fail(c, err)
		return
	}

	token, _, err := h.Auth.IssueToken(user.Username, 0)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, tokenResp{AccessToken: token, TokenType: "bearer"})
}
