package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/parley/pkg/chat"
	"github.com/killallgit/parley/pkg/logger"
	"github.com/killallgit/parley/pkg/provider"
)

// chatRequest is the wire shape both chat routes accept: the prior history
// plus the new user message, ordered, ending with the user's turn.
type chatRequest struct {
	Messages []chat.Message `json:"messages"`
	Model    string         `json:"model"`
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleChat builds the streaming handler for one provider kind. Any error
// found before the first relayed byte is answered with a status and a JSON
// body; after that the body is committed and errors travel in-band.
func (s *Server) handleChat(kind provider.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		conv := chat.Conversation{Messages: req.Messages, Model: req.Model}
		if err := chat.Validate(conv); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		p, err := s.resolve(c.Request.Context(), kind)
		if err != nil {
			logger.Error("provider %s unavailable: %v", kind, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		chunks, err := p.Stream(c.Request.Context(), conv)
		if err != nil {
			c.JSON(statusForRequestError(err), gin.H{"error": err.Error()})
			return
		}

		relay(c, chunks)
	}
}

// statusForRequestError maps a pre-stream failure onto its out-of-band
// status: 400 for input shape, 500 for configuration, 503 for transport.
func statusForRequestError(err error) int {
	switch {
	case errors.Is(err, chat.ErrEmptyConversation),
		errors.Is(err, chat.ErrUnknownRole),
		errors.Is(err, chat.ErrLastNotUser):
		return http.StatusBadRequest
	case errors.Is(err, provider.ErrMissingAPIKey):
		return http.StatusInternalServerError
	default:
		return statusForStreamError(err)
	}
}
