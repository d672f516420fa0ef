package identity

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gerryalvrz/psychat-solana/pkg/rest"
	"github.com/gerryalvrz/psychat-solana/src/external"
)

type Handler struct {
	Service *Service
	// Transcript supplies the payload minted into the identity record,
	// typically the active chat session export.
	Transcript func() []byte
}

func NewHandler(service *Service, transcript func() []byte) *Handler {
	return &Handler{Service: service, Transcript: transcript}
}

func (h *Handler) Routes() []rest.Route {
	return []rest.Route{
		rest.NewRoute(rest.GET, "v1", "/identity", h.GetIdentity),
		rest.NewRoute(rest.POST, "v1", "/identity/mint", h.MintIdentity),
		rest.NewRoute(rest.POST, "v1", "/identity/reset", h.ResetIdentity),
		rest.NewRoute(rest.POST, "v1", "/session/end", h.EndSession),
		rest.NewRoute(rest.POST, "v1", "/dataset/mint", h.MintDataset),
	}
}

// GetIdentity godoc
// @Summary Current identity record state
// @Produce json
// @Success 200 {object} IdentityState
// @Router /v1/identity [get]
func (h *Handler) GetIdentity(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.State())
}

// MintIdentity godoc
// @Summary Mint the soulbound identity record for the connected wallet
// @Accept json
// @Produce json
// @Router /v1/identity/mint [post]
func (h *Handler) MintIdentity(c *gin.Context) {
	var req struct {
		Category uint8 `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	outcome, err := h.Service.MintIdentity(c.Request.Context(), h.payload(), req.Category)
	if err != nil {
		respondOutcomeError(c, outcome, err, h.Service.Network)
		return
	}
	c.JSON(http.StatusCreated, outcomeBody(outcome, h.Service.Network))
}

// EndSession godoc
// @Summary Encrypt the current session and append it to the identity record
// @Accept json
// @Produce json
// @Router /v1/session/end [post]
func (h *Handler) EndSession(c *gin.Context) {
	var req struct {
		Category string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	outcome, err := h.Service.AppendSession(c.Request.Context(), h.payload(), req.Category)
	if err != nil {
		respondOutcomeError(c, outcome, err, h.Service.Network)
		return
	}
	c.JSON(http.StatusOK, outcomeBody(outcome, h.Service.Network))
}

// MintDataset godoc
// @Summary Mint an anonymized dataset record from the identity record
// @Accept json
// @Produce json
// @Router /v1/dataset/mint [post]
func (h *Handler) MintDataset(c *gin.Context) {
	var req struct {
		Category string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	outcome, err := h.Service.MintDataset(c.Request.Context(), h.payload(), req.Category)
	if err != nil {
		respondOutcomeError(c, outcome, err, h.Service.Network)
		return
	}
	c.JSON(http.StatusCreated, outcomeBody(outcome, h.Service.Network))
}

// ResetIdentity godoc
// @Summary Clear the locally cached identity state
// @Produce json
// @Router /v1/identity/reset [post]
func (h *Handler) ResetIdentity(c *gin.Context) {
	if err := h.Service.Reset(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not reset identity: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

func (h *Handler) payload() []byte {
	if h.Transcript == nil {
		return nil
	}
	return h.Transcript()
}

func outcomeBody(outcome Outcome, network string) gin.H {
	body := gin.H{}
	if !outcome.Address.IsZero() {
		body["address"] = outcome.Address.String()
	}
	if !outcome.Signature.IsZero() {
		body["signature"] = outcome.Signature.String()
		body["explorer_url"] = external.ExplorerTxURL(outcome.Signature, network)
	}
	if outcome.Existing {
		body["existing"] = true
	}
	if outcome.Indeterminate {
		body["indeterminate"] = true
	}
	return body
}

func respondOutcomeError(c *gin.Context, outcome Outcome, err error, network string) {
	rest.RespondError(c, err, outcomeBody(outcome, network))
}
