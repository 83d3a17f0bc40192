package handlers

import (
  "errors"
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/studyhall-org/studyhall-backend/internal/services"
  "github.com/studyhall-org/studyhall-backend/internal/types"
)

type AiChatHandler struct {
  aiChatService services.AiChatService
}

func NewAiChatHandler(aiChatService services.AiChatService) *AiChatHandler {
  return &AiChatHandler{aiChatService: aiChatService}
}

func (ah *AiChatHandler) Chat(c *gin.Context) {
  var req types.ChatRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  resp, err := ah.aiChatService.Chat(c.Request.Context(), req)
  if err != nil {
    switch {
    case errors.Is(err, services.ErrBadRequest):
      c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    case errors.Is(err, services.ErrServiceMisconfigured):
      c.JSON(http.StatusInternalServerError, gin.H{"error": "AI service is not configured"})
    default:
      c.JSON(http.StatusInternalServerError, gin.H{"error": "AI chat failed, please try again"})
    }
    return
  }
  c.JSON(http.StatusOK, resp)
}
