package handlers

import (
  "net/http"
  "time"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/studyhall-org/studyhall-backend/internal/services"
)

type StudySessionHandler struct {
  studySessionService services.StudySessionService
}

func NewStudySessionHandler(studySessionService services.StudySessionService) *StudySessionHandler {
  return &StudySessionHandler{studySessionService: studySessionService}
}

func (ssh *StudySessionHandler) GetMySessions(c *gin.Context) {
  sessions, err := ssh.studySessionService.GetMySessions(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (ssh *StudySessionHandler) CreateSession(c *gin.Context) {
  var req struct {
    CourseID      string      `json:"course_id,omitempty"`
    ActivityType  string      `json:"activity_type"`
    Notes         string      `json:"notes,omitempty"`
    StartedAt     string      `json:"started_at,omitempty"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  var courseID *uuid.UUID
  if req.CourseID != "" {
    parsed, parseErr := uuid.Parse(req.CourseID)
    if parseErr != nil {
      c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id UUID"})
      return
    }
    courseID = &parsed
  }
  var startedAt time.Time
  if req.StartedAt != "" {
    parsed, parseErr := time.Parse(time.RFC3339, req.StartedAt)
    if parseErr != nil {
      c.JSON(http.StatusBadRequest, gin.H{"error": "invalid started_at timestamp (want RFC3339)"})
      return
    }
    startedAt = parsed
  }
  session, err := ssh.studySessionService.CreateSession(c.Request.Context(), courseID, req.ActivityType, req.Notes, startedAt)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "success": true,
    "session": session,
  })
}
