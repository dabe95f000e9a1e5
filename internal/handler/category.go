package handler

import (
	"net/http"

	"wallet-api/internal/access"
	"wallet-api/internal/events"
	"wallet-api/internal/middleware"
	"wallet-api/internal/store"
	"wallet-api/internal/util"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves /categories. Every category route is owner-only.
type CategoryHandler struct {
	Store  *store.Store
	Events events.Publisher
}

func NewCategoryHandler(s *store.Store, pub events.Publisher) *CategoryHandler {
	return &CategoryHandler{Store: s, Events: pub}
}

type categoryReq struct {
	Name string `json:"name" binding:"required"`
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req categoryReq
	if !bind(c, &req) {
		return
	}

	category, err := h.Store.CreateCategory(c.Request.Context(), req.Name, middleware.CurrentUser(c).UUID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusCreated, toCategoryResp(&store.CategoryBalance{Category: *category}))
}

func (h *CategoryHandler) ListOwn(c *gin.Context) {
	categories, err := h.Store.GetCategoriesByOwner(c.Request.Context(), middleware.CurrentUser(c).UUID)
	if err != nil {
		util.Fail(c, err)
		return
	}

	items := make([]categoryResp, 0, len(categories))
	for i := range categories {
		items = append(items, toCategoryResp(&categories[i]))
	}
	util.Success(c, http.StatusOK, items)
}

// owned loads the :uuid category and checks ownership; it writes the error
// response itself.
func (h *CategoryHandler) owned(c *gin.Context) (*store.CategoryBalance, bool) {
	category, err := h.Store.GetCategoryByUUID(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		util.Fail(c, err)
		return nil, false
	}
	if err := access.CanAccessCategory(middleware.CurrentUser(c), &category.Category); err != nil {
		util.Fail(c, err)
		return nil, false
	}
	return category, true
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, ok := h.owned(c)
	if !ok {
		return
	}
	util.Success(c, http.StatusOK, toCategoryResp(category))
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req categoryReq
	if !bind(c, &req) {
		return
	}
	category, ok := h.owned(c)
	if !ok {
		return
	}

	updated, err := h.Store.UpdateCategory(c.Request.Context(), category.UUID, req.Name)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, toCategoryResp(updated))
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	category, ok := h.owned(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if err := h.Store.DeleteCategory(ctx, category.UUID); err != nil {
		util.Fail(c, err)
		return
	}

	publish(ctx, h.Events, events.Event{
		Type:       events.CategoryDeleted,
		UserID:     category.CreatorID,
		ResourceID: category.UUID,
	})
	util.Success(c, http.StatusOK, deletedResp{UUID: category.UUID, Deleted: true})
}
