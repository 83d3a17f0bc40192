package services

import (
  "context"
  "errors"
  "strings"
  "testing"

  "github.com/google/uuid"
  "github.com/sashabaranov/go-openai"
  "gorm.io/gorm"

  "github.com/studyhall-org/studyhall-backend/internal/repos"
  "github.com/studyhall-org/studyhall-backend/internal/types"
)

type fakeCompletionClient struct {
  response openai.ChatCompletionResponse
  err      error
  called   bool
  lastReq  openai.ChatCompletionRequest
}

func (f *fakeCompletionClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
  f.called = true
  f.lastReq = req
  return f.response, f.err
}

type fakeChatContextService struct {
  contextString string
  called        bool
}

func (f *fakeChatContextService) BuildContext(ctx context.Context, userID uuid.UUID, courseID string) string {
  f.called = true
  return f.contextString
}

type fakeUsageStatRepo struct {
  err          error
  upsertCalled bool
  lastUserID   uuid.UUID
}

func (f *fakeUsageStatRepo) UpsertAiQueryUsed(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
  f.upsertCalled = true
  f.lastUserID = userID
  return f.err
}

func (f *fakeUsageStatRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UsageStat, error) {
  return nil, nil
}

var _ repos.UsageStatRepo = (*fakeUsageStatRepo)(nil)

func successResponse(content string) openai.ChatCompletionResponse {
  return openai.ChatCompletionResponse{
    Choices: []openai.ChatCompletionChoice{
      {Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
    },
    Usage: openai.Usage{PromptTokens: 12, CompletionTokens: 34, TotalTokens: 46},
  }
}

func newChatFixture(client *fakeCompletionClient, contextSvc *fakeChatContextService, usageRepo *fakeUsageStatRepo, t *testing.T) AiChatService {
  t.Helper()
  return NewAiChatService(testLogger(t), contextSvc, client, "gpt-4o-mini", usageRepo)
}

func TestChat_MissingFields_BadRequest(t *testing.T) {
  cases := []types.ChatRequest{
    {Message: "", UserID: uuid.New().String()},
    {Message: "hello", UserID: ""},
    {},
  }
  for _, req := range cases {
    client := &fakeCompletionClient{}
    contextSvc := &fakeChatContextService{}
    usageRepo := &fakeUsageStatRepo{}
    svc := newChatFixture(client, contextSvc, usageRepo, t)

    _, err := svc.Chat(context.Background(), req)

    if !errors.Is(err, ErrBadRequest) {
      t.Fatalf("Chat(%+v) error = %v, want ErrBadRequest", req, err)
    }
    if client.called || contextSvc.called || usageRepo.upsertCalled {
      t.Fatalf("Chat(%+v) made outbound calls despite failing validation", req)
    }
  }
}

func TestChat_MessageSequence(t *testing.T) {
  client := &fakeCompletionClient{response: successResponse("answer")}
  contextSvc := &fakeChatContextService{contextString: "\n\nCourse Context: You are helping with \"Biology\" (Science). "}
  svc := newChatFixture(client, contextSvc, &fakeUsageStatRepo{}, t)

  history := []types.ConversationTurn{
    {Role: "user", Content: "What is a cell?"},
    {Role: "assistant", Content: "A cell is the basic unit of life."},
    {Role: "weird-role", Content: "passed through untouched"},
  }
  _, err := svc.Chat(context.Background(), types.ChatRequest{
    Message:             "Explain mitosis",
    UserID:              uuid.New().String(),
    ConversationHistory: history,
  })
  if err != nil {
    t.Fatalf("Chat returned error: %v", err)
  }

  msgs := client.lastReq.Messages
  if len(msgs) != len(history)+2 {
    t.Fatalf("got %d messages, want %d", len(msgs), len(history)+2)
  }
  if msgs[0].Role != openai.ChatMessageRoleSystem {
    t.Fatalf("first message role = %q, want system", msgs[0].Role)
  }
  if !strings.HasSuffix(msgs[0].Content, contextSvc.contextString) {
    t.Fatalf("system message does not end with the context string: %q", msgs[0].Content)
  }
  for i, turn := range history {
    if msgs[i+1].Role != turn.Role || msgs[i+1].Content != turn.Content {
      t.Fatalf("history turn %d copied as {%q,%q}, want {%q,%q}", i, msgs[i+1].Role, msgs[i+1].Content, turn.Role, turn.Content)
    }
  }
  last := msgs[len(msgs)-1]
  if last.Role != openai.ChatMessageRoleUser || last.Content != "Explain mitosis" {
    t.Fatalf("last message = {%q,%q}, want the new user message", last.Role, last.Content)
  }
}

func TestChat_FixedSamplingParameters(t *testing.T) {
  client := &fakeCompletionClient{response: successResponse("ok")}
  svc := newChatFixture(client, &fakeChatContextService{}, &fakeUsageStatRepo{}, t)

  _, err := svc.Chat(context.Background(), types.ChatRequest{Message: "hi", UserID: uuid.New().String()})
  if err != nil {
    t.Fatalf("Chat returned error: %v", err)
  }

  req := client.lastReq
  if req.Model != "gpt-4o-mini" {
    t.Fatalf("model = %q, want gpt-4o-mini", req.Model)
  }
  if req.MaxTokens != aiChatMaxTokens {
    t.Fatalf("max tokens = %d, want %d", req.MaxTokens, aiChatMaxTokens)
  }
  if req.Temperature != aiChatTemperature {
    t.Fatalf("temperature = %v, want %v", req.Temperature, aiChatTemperature)
  }
  if req.PresencePenalty != aiChatPresencePenalty || req.FrequencyPenalty != aiChatFrequencyPenalty {
    t.Fatalf("penalties = %v/%v, want %v/%v", req.PresencePenalty, req.FrequencyPenalty, aiChatPresencePenalty, aiChatFrequencyPenalty)
  }
}

func TestChat_ResponseAndUsagePassthrough(t *testing.T) {
  client := &fakeCompletionClient{response: successResponse("Photosynthesis converts light into chemical energy.")}
  usageRepo := &fakeUsageStatRepo{}
  svc := newChatFixture(client, &fakeChatContextService{}, usageRepo, t)

  userID := uuid.New()
  resp, err := svc.Chat(context.Background(), types.ChatRequest{Message: "Explain photosynthesis", UserID: userID.String()})
  if err != nil {
    t.Fatalf("Chat returned error: %v", err)
  }
  if resp.Response != "Photosynthesis converts light into chemical energy." {
    t.Fatalf("response = %q", resp.Response)
  }
  if resp.Usage.PromptTokens != 12 || resp.Usage.CompletionTokens != 34 || resp.Usage.TotalTokens != 46 {
    t.Fatalf("usage = %+v, want 12/34/46", resp.Usage)
  }
  if !usageRepo.upsertCalled {
    t.Fatal("expected usage stat upsert after a successful completion")
  }
  if usageRepo.lastUserID != userID {
    t.Fatalf("usage upsert user = %v, want %v", usageRepo.lastUserID, userID)
  }
}

func TestChat_EmptyCompletion_Fallback(t *testing.T) {
  client := &fakeCompletionClient{response: openai.ChatCompletionResponse{}}
  svc := newChatFixture(client, &fakeChatContextService{}, &fakeUsageStatRepo{}, t)

  resp, err := svc.Chat(context.Background(), types.ChatRequest{Message: "hi", UserID: uuid.New().String()})
  if err != nil {
    t.Fatalf("Chat returned error: %v", err)
  }
  if resp.Response != aiChatFallbackResponse {
    t.Fatalf("response = %q, want the fallback string", resp.Response)
  }
  if resp.Usage.PromptTokens != 0 || resp.Usage.CompletionTokens != 0 || resp.Usage.TotalTokens != 0 {
    t.Fatalf("usage = %+v, want zeros when upstream omits usage", resp.Usage)
  }
}

func TestChat_ApiKeyError_Misconfigured(t *testing.T) {
  cases := []error{
    errors.New("Incorrect API key provided: sk-***"),
    &openai.APIError{Code: "invalid_api_key", Message: "invalid key", HTTPStatusCode: 401},
  }
  for _, upstreamErr := range cases {
    client := &fakeCompletionClient{err: upstreamErr}
    svc := newChatFixture(client, &fakeChatContextService{}, &fakeUsageStatRepo{}, t)

    _, err := svc.Chat(context.Background(), types.ChatRequest{Message: "hi", UserID: uuid.New().String()})

    if !errors.Is(err, ErrServiceMisconfigured) {
      t.Fatalf("Chat error = %v for upstream %v, want ErrServiceMisconfigured", err, upstreamErr)
    }
  }
}

func TestChat_OtherError_UpstreamFailure(t *testing.T) {
  client := &fakeCompletionClient{err: errors.New("rate limit exceeded")}
  usageRepo := &fakeUsageStatRepo{}
  svc := newChatFixture(client, &fakeChatContextService{}, usageRepo, t)

  _, err := svc.Chat(context.Background(), types.ChatRequest{Message: "hi", UserID: uuid.New().String()})

  if !errors.Is(err, ErrUpstreamFailure) {
    t.Fatalf("Chat error = %v, want ErrUpstreamFailure", err)
  }
  if usageRepo.upsertCalled {
    t.Fatal("usage must not be recorded when the completion fails")
  }
}

func TestChat_UsageUpsertFailure_Absorbed(t *testing.T) {
  client := &fakeCompletionClient{response: successResponse("still fine")}
  usageRepo := &fakeUsageStatRepo{err: errors.New("db down")}
  svc := newChatFixture(client, &fakeChatContextService{}, usageRepo, t)

  resp, err := svc.Chat(context.Background(), types.ChatRequest{Message: "hi", UserID: uuid.New().String()})

  if err != nil {
    t.Fatalf("Chat returned error despite usage failure being best-effort: %v", err)
  }
  if resp.Response != "still fine" {
    t.Fatalf("response = %q", resp.Response)
  }
}

func TestChat_NonUUIDUserID_StillChats(t *testing.T) {
  client := &fakeCompletionClient{response: successResponse("hello u1")}
  svc := newChatFixture(client, &fakeChatContextService{}, &fakeUsageStatRepo{}, t)

  resp, err := svc.Chat(context.Background(), types.ChatRequest{Message: "Explain photosynthesis", UserID: "u1"})

  if err != nil {
    t.Fatalf("Chat returned error for a non-UUID user id: %v", err)
  }
  if len(client.lastReq.Messages) != 2 {
    t.Fatalf("got %d messages, want 2 (system + user)", len(client.lastReq.Messages))
  }
  if resp.Response != "hello u1" {
    t.Fatalf("response = %q", resp.Response)
  }
}
