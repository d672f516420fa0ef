package yieldfarm

import (
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	"github.com/gerryalvrz/psychat-solana/pkg/rest"
	"github.com/gerryalvrz/psychat-solana/src/external"
)

type Handler struct {
	Service *Service
	Network string
}

func NewHandler(service *Service, network string) *Handler {
	return &Handler{Service: service, Network: network}
}

func (h *Handler) Routes() []rest.Route {
	return []rest.Route{
		rest.NewRoute(rest.GET, "v1", "/yield/options", h.GetOptions),
		rest.NewRoute(rest.GET, "v1", "/yield/earnings", h.GetEarnings),
		rest.NewRoute(rest.POST, "v1", "/yield/stake", h.Stake),
		rest.NewRoute(rest.POST, "v1", "/yield/claim", h.ClaimUbi),
		rest.NewRoute(rest.POST, "v1", "/yield/compound", h.AutoCompound),
	}
}

// GetOptions godoc
// @Summary Available yield pools
// @Produce json
// @Router /v1/yield/options [get]
func (h *Handler) GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"options": h.Service.Options()})
}

// GetEarnings godoc
// @Summary Earnings dashboard aggregate
// @Produce json
// @Router /v1/yield/earnings [get]
func (h *Handler) GetEarnings(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Earnings())
}

// Stake godoc
// @Summary Stake earnings into a yield pool
// @Accept json
// @Produce json
// @Router /v1/yield/stake [post]
func (h *Handler) Stake(c *gin.Context) {
	var req struct {
		PoolId string `json:"pool_id"`
		Amount uint64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.PoolId == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	signature, err := h.Service.Stake(c.Request.Context(), req.PoolId, req.Amount)
	if err != nil {
		rest.RespondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, h.signatureBody(signature))
}

// ClaimUbi godoc
// @Summary Claim accrued UBI
// @Accept json
// @Produce json
// @Router /v1/yield/claim [post]
func (h *Handler) ClaimUbi(c *gin.Context) {
	var req struct {
		Category string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	signature, err := h.Service.ClaimUbi(c.Request.Context(), req.Category)
	if err != nil {
		rest.RespondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, h.signatureBody(signature))
}

// AutoCompound godoc
// @Summary Auto-compound earnings into a yield pool
// @Accept json
// @Produce json
// @Router /v1/yield/compound [post]
func (h *Handler) AutoCompound(c *gin.Context) {
	var req struct {
		PoolId string `json:"pool_id"`
		Amount uint64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.PoolId == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	signature, err := h.Service.AutoCompound(c.Request.Context(), req.PoolId, req.Amount)
	if err != nil {
		rest.RespondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, h.signatureBody(signature))
}

func (h *Handler) signatureBody(signature solana.Signature) gin.H {
	return gin.H{
		"signature":    signature.String(),
		"explorer_url": external.ExplorerTxURL(signature, h.Network),
	}
}
