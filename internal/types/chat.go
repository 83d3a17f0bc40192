package types

// Wire shapes for the AI chat endpoint. Conversation turns are supplied by
// the caller and never persisted.

type ConversationTurn struct {
  Role        string      `json:"role"`
  Content     string      `json:"content"`
}

type ChatRequest struct {
  Message                 string                `json:"message"`
  UserID                  string                `json:"userId"`
  CourseID                string                `json:"courseId,omitempty"`
  ConversationHistory     []ConversationTurn    `json:"conversationHistory"`
}

type ChatUsage struct {
  PromptTokens            int                   `json:"prompt_tokens"`
  CompletionTokens        int                   `json:"completion_tokens"`
  TotalTokens             int                   `json:"total_tokens"`
}

type ChatResponse struct {
  Response                string                `json:"response"`
  Usage                   ChatUsage             `json:"usage"`
}
