package http

import (
	"errors"
	"net/http"

	"github.com/wattlecart/storefront/internal/shop/service"
	"github.com/wattlecart/storefront/pkg/httpx"
	"github.com/wattlecart/storefront/pkg/slogx"
)

// ProductsHandler serves the catalog endpoints. Admin-only routes are gated
// by middleware in the router, not here.
type ProductsHandler struct {
	ProductService *service.ProductService
}

type createProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	IsFeatured  bool   `json:"isFeatured"`
}

// HandleList godoc
//
//	@Summary		List the whole catalog (admin)
//	@Tags			Products
//	@Produce		json
//	@Success		200	{array}		domain.Product
//	@Failure		401	{object}	httpx.ErrorResponse
//	@Failure		500	{object}	httpx.ErrorResponse
//	@Router			/api/products [get].
func (h *ProductsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.ProductService.ListAll(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("product list failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

// HandleFeatured godoc
//
//	@Summary		List featured products
//	@Description	Served from the Redis cache when warm; read-through to the store otherwise.
//	@Tags			Products
//	@Produce		json
//	@Success		200	{array}		domain.Product
//	@Failure		404	{object}	httpx.ErrorResponse	"No featured products"
//	@Failure		500	{object}	httpx.ErrorResponse
//	@Router			/api/products/featured [get].
func (h *ProductsHandler) HandleFeatured(w http.ResponseWriter, r *http.Request) {
	products, err := h.ProductService.GetFeatured(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoFeaturedProducts) {
			httpx.WriteError(w, http.StatusNotFound, "no featured products found")
			return
		}
		slogx.FromContext(r.Context()).Error("featured list failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

// HandleRecommendations godoc
//
//	@Summary		Random product recommendations
//	@Tags			Products
//	@Produce		json
//	@Success		200	{array}		domain.Product
//	@Failure		500	{object}	httpx.ErrorResponse
//	@Router			/api/products/recommendations [get].
func (h *ProductsHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	products, err := h.ProductService.Recommendations(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("recommendations failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

// HandleByCategory godoc
//
//	@Summary		List products in a category
//	@Tags			Products
//	@Produce		json
//	@Param			category	path		string	true	"Category name"
//	@Success		200			{array}		domain.Product
//	@Failure		500			{object}	httpx.ErrorResponse
//	@Router			/api/products/{category} [get].
func (h *ProductsHandler) HandleByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.ProductService.ListByCategory(r.Context(), r.PathValue("category"))
	if err != nil {
		slogx.FromContext(r.Context()).Error("category list failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

// HandleCreate godoc
//
//	@Summary		Create a product (admin)
//	@Description	Uploads the inline image to the media host first when one is supplied.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			body	body		createProductRequest	true	"Product fields; price is in cents"
//	@Success		201		{object}	domain.Product
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Failure		401		{object}	httpx.ErrorResponse
//	@Failure		500		{object}	httpx.ErrorResponse
//	@Router			/api/products [post].
func (h *ProductsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req createProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.Category == "" || req.Price < 0 {
		httpx.WriteError(w, http.StatusBadRequest, "name, category and a non-negative price are required")
		return
	}

	product, err := h.ProductService.Create(ctx, service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.Price,
		Image:       req.Image,
		Category:    req.Category,
		IsFeatured:  req.IsFeatured,
	})
	if err != nil {
		log.Error("product create failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, product)
}

// HandleDelete godoc
//
//	@Summary		Delete a product (admin)
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string	true	"Product id"
//	@Success		200	{object}	map[string]string	"message"
//	@Failure		401	{object}	httpx.ErrorResponse
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Failure		500	{object}	httpx.ErrorResponse
//	@Router			/api/products/{id} [delete].
func (h *ProductsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.ProductService.Delete(ctx, r.PathValue("id")); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "product not found")
			return
		}
		slogx.FromContext(ctx).Error("product delete failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// HandleToggleFeatured godoc
//
//	@Summary		Toggle a product's featured flag (admin)
//	@Description	Persists the flip, then synchronously recomputes the featured cache.
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string	true	"Product id"
//	@Success		200	{object}	domain.Product
//	@Failure		401	{object}	httpx.ErrorResponse
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Failure		500	{object}	httpx.ErrorResponse
//	@Router			/api/products/toggle-featured/{id} [patch].
func (h *ProductsHandler) HandleToggleFeatured(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	product, err := h.ProductService.ToggleFeatured(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "product not found")
			return
		}
		slogx.FromContext(ctx).Error("toggle featured failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, product)
}
