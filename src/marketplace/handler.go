package marketplace

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gerryalvrz/psychat-solana/pkg/rest"
)

type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) Routes() []rest.Route {
	return []rest.Route{
		rest.NewRoute(rest.GET, "v1", "/marketplace/listings", h.GetListings),
		rest.NewRoute(rest.POST, "v1", "/marketplace/listings", h.ListData),
		rest.NewRoute(rest.POST, "v1", "/marketplace/bids", h.PlaceBid),
	}
}

// GetListings godoc
// @Summary Marketplace listings, optionally filtered by category
// @Produce json
// @Router /v1/marketplace/listings [get]
func (h *Handler) GetListings(c *gin.Context) {
	listings := h.Service.Listings(c.Query("category"))
	c.JSON(http.StatusOK, gin.H{"listings": listings, "count": len(listings)})
}

// ListData godoc
// @Summary List the caller's dataset for sale
// @Accept json
// @Produce json
// @Router /v1/marketplace/listings [post]
func (h *Handler) ListData(c *gin.Context) {
	var req struct {
		Title    string `json:"title"`
		Category string `json:"category"`
		Price    uint64 `json:"price"`
		Currency uint8  `json:"currency"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	listing, err := h.Service.ListData(c.Request.Context(), req.Title, req.Category, req.Price, req.Currency)
	if err != nil {
		rest.RespondError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

// PlaceBid godoc
// @Summary Place a bid on a listing
// @Accept json
// @Produce json
// @Router /v1/marketplace/bids [post]
func (h *Handler) PlaceBid(c *gin.Context) {
	var req struct {
		ListingId string `json:"listing_id"`
		Amount    uint64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ListingId == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	bid, err := h.Service.PlaceBid(c.Request.Context(), req.ListingId, req.Amount)
	if err != nil {
		rest.RespondError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, bid)
}

