package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cennygrosz/internal/pagination"
	"cennygrosz/internal/services"
)

// AssistantHandler handles AI assistant requests.
type AssistantHandler struct {
	assistantService services.AssistantServicer
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(assistantService services.AssistantServicer) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

// ChatRequest represents a message to the assistant
type ChatRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
}

// HistoryEntry is one stored exchange.
type HistoryEntry struct {
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	Timestamp   time.Time `json:"timestamp"`
}

// Chat sends a message to the assistant
// @Summary     Chat with the assistant
// @Description Generation failures still return 200 with a fallback reply
// @Tags        ai
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ChatRequest true "Message"
// @Success     200 {object} services.ChatReply "Assistant reply"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /ai/chat [post]
func (h *AssistantHandler) Chat(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	reply, err := h.assistantService.Chat(c.Request.Context(), userID, req.Message)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

// History returns recent exchanges, oldest first
// @Summary     Chat history
// @Tags        ai
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Maximum results (default 20)"
// @Success     200 {array} HistoryEntry "Exchanges"
// @Router      /ai/history [get]
func (h *AssistantHandler) History(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q pagination.LimitRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	messages, err := h.assistantService.History(c.Request.Context(), userID, q.Limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries := make([]HistoryEntry, 0, len(messages))
	for _, m := range messages {
		entries = append(entries, HistoryEntry{
			UserMessage: m.UserMessage,
			AIResponse:  m.AIResponse,
			Timestamp:   m.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, entries)
}
