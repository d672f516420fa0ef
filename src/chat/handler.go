package chat

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
		rest.NewRoute(rest.POST, "v1", "/chat/message", h.SendMessage),
		rest.NewRoute(rest.GET, "v1", "/chat/session", h.GetSession),
	}
}

// SendMessage godoc
// @Summary Send a chat message and get the assistant reply
// @Accept json
// @Produce json
// @Router /v1/chat/message [post]
func (h *Handler) SendMessage(c *gin.Context) {
	var req struct {
		Text     string `json:"text"`
		Provider string `json:"provider"`
		Model    string `json:"model"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	reply, completion, err := h.Service.SendMessage(c.Request.Context(), req.Text, req.Provider, req.Model)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Assistant unavailable: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   reply,
		"sentiment": completion.Sentiment,
		"provider":  completion.Provider,
		"model":     completion.Model,
	})
}

// GetSession godoc
// @Summary Current session transcript
// @Produce json
// @Router /v1/chat/session [get]
func (h *Handler) GetSession(c *gin.Context) {
	messages := h.Service.Session.Messages()
	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}
