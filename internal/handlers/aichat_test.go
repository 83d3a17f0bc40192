package handlers

import (
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "net/http"
  "net/http/httptest"
  "strings"
  "testing"

  "github.com/gin-gonic/gin"

  "github.com/studyhall-org/studyhall-backend/internal/services"
  "github.com/studyhall-org/studyhall-backend/internal/types"
)

type fakeAiChatService struct {
  resp    *types.ChatResponse
  err     error
  lastReq types.ChatRequest
}

func (f *fakeAiChatService) Chat(ctx context.Context, req types.ChatRequest) (*types.ChatResponse, error) {
  f.lastReq = req
  return f.resp, f.err
}

var _ services.AiChatService = (*fakeAiChatService)(nil)

func postChat(t *testing.T, svc services.AiChatService, body string) *httptest.ResponseRecorder {
  t.Helper()
  gin.SetMode(gin.TestMode)
  router := gin.New()
  router.POST("/api/ai/chat", NewAiChatHandler(svc).Chat)

  req := httptest.NewRequest(http.MethodPost, "/api/ai/chat", strings.NewReader(body))
  req.Header.Set("Content-Type", "application/json")
  rec := httptest.NewRecorder()
  router.ServeHTTP(rec, req)
  return rec
}

func TestChatHandler_Success(t *testing.T) {
  svc := &fakeAiChatService{
    resp: &types.ChatResponse{
      Response: "Mitosis is cell division.",
      Usage:    types.ChatUsage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
    },
  }
  body := `{"message":"Explain mitosis","userId":"u1","courseId":"c1","conversationHistory":[{"role":"user","content":"hi"}]}`

  rec := postChat(t, svc, body)

  if rec.Code != http.StatusOK {
    t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
  }
  var got types.ChatResponse
  if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
    t.Fatalf("response is not valid JSON: %v", err)
  }
  if got.Response != "Mitosis is cell division." || got.Usage.TotalTokens != 30 {
    t.Fatalf("body = %+v", got)
  }
  if svc.lastReq.Message != "Explain mitosis" || svc.lastReq.UserID != "u1" || svc.lastReq.CourseID != "c1" {
    t.Fatalf("service received %+v", svc.lastReq)
  }
  if len(svc.lastReq.ConversationHistory) != 1 || svc.lastReq.ConversationHistory[0].Role != "user" {
    t.Fatalf("history not bound: %+v", svc.lastReq.ConversationHistory)
  }
}

func TestChatHandler_MalformedJSON(t *testing.T) {
  rec := postChat(t, &fakeAiChatService{}, `{"message":`)

  if rec.Code != http.StatusBadRequest {
    t.Fatalf("status = %d, want 400", rec.Code)
  }
}

func TestChatHandler_BadRequestFromService(t *testing.T) {
  svc := &fakeAiChatService{err: fmt.Errorf("%w: message and userId are required", services.ErrBadRequest)}

  rec := postChat(t, svc, `{"message":"","userId":""}`)

  if rec.Code != http.StatusBadRequest {
    t.Fatalf("status = %d, want 400", rec.Code)
  }
  if !strings.Contains(rec.Body.String(), "message and userId are required") {
    t.Fatalf("body = %s, want the validation message", rec.Body.String())
  }
}

func TestChatHandler_MisconfiguredService(t *testing.T) {
  svc := &fakeAiChatService{err: fmt.Errorf("%w: invalid api key", services.ErrServiceMisconfigured)}

  rec := postChat(t, svc, `{"message":"hi","userId":"u1"}`)

  if rec.Code != http.StatusInternalServerError {
    t.Fatalf("status = %d, want 500", rec.Code)
  }
  if !strings.Contains(rec.Body.String(), "AI service is not configured") {
    t.Fatalf("body = %s, want the misconfiguration message", rec.Body.String())
  }
  if strings.Contains(rec.Body.String(), "api key") {
    t.Fatalf("body = %s, must not leak upstream error detail", rec.Body.String())
  }
}

func TestChatHandler_UpstreamFailure(t *testing.T) {
  svc := &fakeAiChatService{err: errors.New("rate limited")}

  rec := postChat(t, svc, `{"message":"hi","userId":"u1"}`)

  if rec.Code != http.StatusInternalServerError {
    t.Fatalf("status = %d, want 500", rec.Code)
  }
  if !strings.Contains(rec.Body.String(), "AI chat failed, please try again") {
    t.Fatalf("body = %s, want the generic failure message", rec.Body.String())
  }
}
