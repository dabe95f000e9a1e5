package handler

import (
	"fmt"
	"net/http"
	"strings"

	"wallet-api/internal/access"
	"wallet-api/internal/errs"
	"wallet-api/internal/events"
	"wallet-api/internal/middleware"
	"wallet-api/internal/store"
	"wallet-api/internal/util"

	"github.com/gin-gonic/gin"
)

// AccountHandler serves /accounts.
type AccountHandler struct {
	Store  *store.Store
	Events events.Publisher
}

func NewAccountHandler(s *store.Store, pub events.Publisher) *AccountHandler {
	return &AccountHandler{Store: s, Events: pub}
}

// accountReq is shared by create and update. IsPrivate defaults to true.
type accountReq struct {
	Name      string `json:"name" binding:"required"`
	IsPrivate *bool  `json:"is_private"`
}

func (r accountReq) private() bool {
	return r.IsPrivate == nil || *r.IsPrivate
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req accountReq
	if !bind(c, &req) {
		return
	}
	user := middleware.CurrentUser(c)

	account, err := h.Store.CreateAccount(c.Request.Context(), req.Name, req.private(), user.UUID)
	if err != nil {
		util.Fail(c, err)
		return
	}

	created := store.AccountBalance{Account: *account}
	created.Creator = user
	util.Success(c, http.StatusCreated, toAccountResp(&created))
}

// ListOwn answers 404 when the user has no accounts.
func (h *AccountHandler) ListOwn(c *gin.Context) {
	user := middleware.CurrentUser(c)

	accounts, err := h.Store.GetAccountsByOwner(c.Request.Context(), user.UUID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	if len(accounts) == 0 {
		util.Fail(c, fmt.Errorf("accounts: %w", errs.ErrNotFound))
		return
	}

	items := make([]accountResp, 0, len(accounts))
	for i := range accounts {
		items = append(items, toAccountResp(&accounts[i]))
	}
	util.Success(c, http.StatusOK, items)
}

// GetByName serves GET /accounts?name=...
func (h *AccountHandler) GetByName(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		util.Fail(c, errs.Invalid("name", "is required"))
		return
	}

	account, err := h.Store.GetAccountByName(c.Request.Context(), name)
	if err != nil {
		util.Fail(c, err)
		return
	}
	if err := access.CanReadAccount(middleware.CurrentUser(c), &account.Account); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, toAccountResp(account))
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	var req accountReq
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	account, err := h.Store.GetAccountByUUID(ctx, c.Param("uuid"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	if err := access.CanModifyAccount(user, account); err != nil {
		util.Fail(c, err)
		return
	}

	updated, err := h.Store.UpdateAccount(ctx, account.UUID, req.Name, req.private())
	if err != nil {
		util.Fail(c, err)
		return
	}
	updated.Creator = user
	util.Success(c, http.StatusOK, toAccountResp(updated))
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	account, err := h.Store.GetAccountByUUID(ctx, c.Param("uuid"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	if err := access.CanModifyAccount(user, account); err != nil {
		util.Fail(c, err)
		return
	}

	if err := h.Store.DeleteAccount(ctx, account.UUID); err != nil {
		util.Fail(c, err)
		return
	}

	publish(ctx, h.Events, events.Event{
		Type:       events.AccountDeleted,
		UserID:     user.UUID,
		ResourceID: account.UUID,
	})
	util.Success(c, http.StatusOK, deletedResp{UUID: account.UUID, Deleted: true})
}
