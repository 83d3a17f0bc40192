package services

import (
  "context"
  "errors"
  "fmt"
  "strings"

  "github.com/google/uuid"
  "github.com/sashabaranov/go-openai"

  "github.com/studyhall-org/studyhall-backend/internal/logger"
  "github.com/studyhall-org/studyhall-backend/internal/repos"
  "github.com/studyhall-org/studyhall-backend/internal/types"
)

const aiChatSystemPrompt = `You are an encouraging AI study assistant for StudyHall.

You can help students:
- Understand difficult concepts with clear explanations
- Create study plans and summaries
- Quiz themselves on course material
- Stay motivated and build good study habits

Guidelines for responses:
- Be encouraging and supportive
- Keep explanations clear and concise
- Use examples when they help understanding
- Suggest concrete next steps when appropriate`

const aiChatFallbackResponse = "I'm sorry, I couldn't generate a response. Please try again."

const (
  aiChatMaxTokens        = 1000
  aiChatTemperature      = 0.7
  aiChatPresencePenalty  = 0.1
  aiChatFrequencyPenalty = 0.1
)

type AiChatService interface {
  Chat(ctx context.Context, req types.ChatRequest) (*types.ChatResponse, error)
}

type aiChatService struct {
  log              *logger.Logger
  contextService   ChatContextService
  completionClient CompletionClient
  model            string
  usageStatRepo    repos.UsageStatRepo
}

func NewAiChatService(log *logger.Logger, contextService ChatContextService, completionClient CompletionClient, model string, usageStatRepo repos.UsageStatRepo) AiChatService {
  serviceLog := log.With("service", "AiChatService")
  return &aiChatService{
    log:              serviceLog,
    contextService:   contextService,
    completionClient: completionClient,
    model:            model,
    usageStatRepo:    usageStatRepo,
  }
}

func (acs *aiChatService) Chat(ctx context.Context, req types.ChatRequest) (*types.ChatResponse, error) {
  //1) Validation: message and userId are the only required fields. History
  //   is trusted verbatim, roles included.
  if req.Message == "" || req.UserID == "" {
    return nil, fmt.Errorf("%w: message and userId are required", ErrBadRequest)
  }

  //2) Assemble auxiliary context. A userId that is not a UUID simply
  //   matches no rows; the chat still runs without context.
  userID, err := uuid.Parse(req.UserID)
  if err != nil {
    acs.log.Debug("User id is not a valid UUID, chat will run without context", "userId", req.UserID)
    userID = uuid.Nil
  }
  contextString := acs.contextService.BuildContext(ctx, userID, req.CourseID)

  //3) Build the message sequence: system, history in order, new user
  //   message last.
  messages := make([]openai.ChatCompletionMessage, 0, len(req.ConversationHistory)+2)
  messages = append(messages, openai.ChatCompletionMessage{
    Role:    openai.ChatMessageRoleSystem,
    Content: aiChatSystemPrompt + contextString,
  })
  for _, turn := range req.ConversationHistory {
    messages = append(messages, openai.ChatCompletionMessage{
      Role:    turn.Role,
      Content: turn.Content,
    })
  }
  messages = append(messages, openai.ChatCompletionMessage{
    Role:    openai.ChatMessageRoleUser,
    Content: req.Message,
  })

  //4) One completion call, fixed model and sampling parameters.
  resp, err := acs.completionClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
    Model:            acs.model,
    Messages:         messages,
    MaxTokens:        aiChatMaxTokens,
    Temperature:      aiChatTemperature,
    PresencePenalty:  aiChatPresencePenalty,
    FrequencyPenalty: aiChatFrequencyPenalty,
  })
  if err != nil {
    acs.log.Error("Completion call failed", "error", err)
    return nil, acs.classifyCompletionError(err)
  }

  //5) Extract the first choice; substitute the fallback rather than failing
  //   on an empty completion.
  responseText := aiChatFallbackResponse
  if len(resp.Choices) > 0 && resp.Choices[0].Message.Content != "" {
    responseText = resp.Choices[0].Message.Content
  }

  //6) Best-effort usage bookkeeping. Awaited, but a failure never changes
  //   the response.
  if upErr := acs.usageStatRepo.UpsertAiQueryUsed(ctx, nil, userID); upErr != nil {
    acs.log.Warn("Usage stat upsert failed, returning chat response anyway", "error", upErr, "userID", userID)
  }

  return &types.ChatResponse{
    Response: responseText,
    Usage: types.ChatUsage{
      PromptTokens:     resp.Usage.PromptTokens,
      CompletionTokens: resp.Usage.CompletionTokens,
      TotalTokens:      resp.Usage.TotalTokens,
    },
  }, nil
}

// classifyCompletionError maps an upstream failure onto the error taxonomy
// the handler exposes. The go-openai structured error code is checked first;
// the message substring match is a known-fragile fallback.
func (acs *aiChatService) classifyCompletionError(err error) error {
  var apiErr *openai.APIError
  if errors.As(err, &apiErr) {
    if code, ok := apiErr.Code.(string); ok && code == "invalid_api_key" {
      return fmt.Errorf("%w: %v", ErrServiceMisconfigured, err)
    }
  }
  if strings.Contains(strings.ToLower(err.Error()), "api key") {
    return fmt.Errorf("%w: %v", ErrServiceMisconfigured, err)
  }
  return fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
}
