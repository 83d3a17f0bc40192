package services

import (
  "context"
  "os"

  "github.com/sashabaranov/go-openai"

  "github.com/studyhall-org/studyhall-backend/internal/logger"
)

// CompletionClient is the slice of the go-openai client the chat pipeline
// uses. *openai.Client satisfies it; tests substitute fakes.
type CompletionClient interface {
  CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewOpenAIClient builds the completion client plus the model identifier the
// chat pipeline should request. A missing OPENAI_API_KEY is not fatal here;
// the upstream rejects the first call and the chat pipeline reports the
// misconfiguration to the caller.
func NewOpenAIClient(log *logger.Logger) (CompletionClient, string) {
  serviceLog := log.With("service", "OpenAIClient")
  apiKey := os.Getenv("OPENAI_API_KEY")
  if apiKey == "" {
    serviceLog.Warn("OPENAI_API_KEY not set; AI chat requests will fail until it is configured")
  }
  clientConfig := openai.DefaultConfig(apiKey)
  if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
    clientConfig.BaseURL = baseURL
  }
  model := os.Getenv("AI_CHAT_MODEL")
  if model == "" {
    model = openai.GPT4oMini
  }
  serviceLog.Info("OpenAI client configured :)", "model", model)
  return openai.NewClientWithConfig(clientConfig), model
}
