package services

import (
  "context"
  "fmt"
  "strings"

  "github.com/google/uuid"

  "github.com/studyhall-org/studyhall-backend/internal/logger"
  "github.com/studyhall-org/studyhall-backend/internal/repos"
  "github.com/studyhall-org/studyhall-backend/internal/types"
)

const recentSessionLimit = 5

// ChatContextService builds the auxiliary context string prepended to the AI
// chat system prompt: the active course (when one is given) and the user's
// recent study activity. Both lookups are best-effort; chat degrades to a
// context-free prompt rather than failing on them.
type ChatContextService interface {
  BuildContext(ctx context.Context, userID uuid.UUID, courseID string) string
}

type chatContextService struct {
  log              *logger.Logger
  courseRepo       repos.CourseRepo
  studySessionRepo repos.StudySessionRepo
}

func NewChatContextService(log *logger.Logger, courseRepo repos.CourseRepo, studySessionRepo repos.StudySessionRepo) ChatContextService {
  serviceLog := log.With("service", "ChatContextService")
  return &chatContextService{
    log:              serviceLog,
    courseRepo:       courseRepo,
    studySessionRepo: studySessionRepo,
  }
}

type lookupState int

const (
  lookupFound lookupState = iota
  lookupNotFound
  lookupFailed
)

type courseLookup struct {
  state  lookupState
  course *types.Course
}

type sessionLookup struct {
  state    lookupState
  sessions []*types.StudySession
}

func (ccs *chatContextService) BuildContext(ctx context.Context, userID uuid.UUID, courseID string) string {
  var builder strings.Builder

  //1) Course context (only when a course id was supplied)
  if courseID != "" {
    lookup := ccs.lookupCourse(ctx, userID, courseID)
    switch lookup.state {
    case lookupFound:
      builder.WriteString("\n\n")
      builder.WriteString(fmt.Sprintf("Course Context: You are helping with \"%s\" (%s). %s",
        lookup.course.Name, lookup.course.Subject, lookup.course.Description))
    case lookupNotFound, lookupFailed:
      // A missing or unreadable course must never block the chat itself.
    }
  }

  //2) Recent study activity
  recent := ccs.lookupRecentSessions(ctx, userID)
  if recent.state == lookupFound && len(recent.sessions) > 0 {
    entries := make([]string, 0, len(recent.sessions))
    for _, session := range recent.sessions {
      courseName := "Unknown Course"
      if session.Course != nil {
        courseName = session.Course.Name
      }
      entries = append(entries, fmt.Sprintf("%s in %s", session.ActivityType, courseName))
    }
    builder.WriteString("\n\n")
    builder.WriteString("Recent Study Activities: ")
    builder.WriteString(strings.Join(entries, ", "))
  }

  return builder.String()
}

func (ccs *chatContextService) lookupCourse(ctx context.Context, userID uuid.UUID, courseID string) courseLookup {
  parsedID, err := uuid.Parse(courseID)
  if err != nil {
    ccs.log.Debug("Course id is not a valid UUID, skipping course context", "courseID", courseID)
    return courseLookup{state: lookupNotFound}
  }
  course, err := ccs.courseRepo.GetByIDAndUserID(ctx, nil, parsedID, userID)
  if err != nil {
    ccs.log.Warn("Course lookup failed, continuing without course context", "error", err)
    return courseLookup{state: lookupFailed}
  }
  if course == nil {
    return courseLookup{state: lookupNotFound}
  }
  return courseLookup{state: lookupFound, course: course}
}

func (ccs *chatContextService) lookupRecentSessions(ctx context.Context, userID uuid.UUID) sessionLookup {
  sessions, err := ccs.studySessionRepo.GetRecentByUserID(ctx, nil, userID, recentSessionLimit)
  if err != nil {
    ccs.log.Warn("Study session lookup failed, continuing without study context", "error", err)
    return sessionLookup{state: lookupFailed}
  }
  if len(sessions) == 0 {
    return sessionLookup{state: lookupNotFound}
  }
  return sessionLookup{state: lookupFound, sessions: sessions}
}
