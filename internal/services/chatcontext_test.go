package services

import (
  "context"
  "errors"
  "fmt"
  "strings"
  "testing"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/studyhall-org/studyhall-backend/internal/logger"
  "github.com/studyhall-org/studyhall-backend/internal/repos"
  "github.com/studyhall-org/studyhall-backend/internal/types"
)

// fakeCourseRepo returns a canned course for GetByIDAndUserID and records
// whether it was called.
type fakeCourseRepo struct {
  course    *types.Course
  err       error
  getCalled bool
}

func (f *fakeCourseRepo) Create(ctx context.Context, tx *gorm.DB, courses []*types.Course) ([]*types.Course, error) {
  return courses, nil
}

func (f *fakeCourseRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Course, error) {
  return nil, nil
}

func (f *fakeCourseRepo) GetByIDAndUserID(ctx context.Context, tx *gorm.DB, courseID, userID uuid.UUID) (*types.Course, error) {
  f.getCalled = true
  if f.err != nil {
    return nil, f.err
  }
  return f.course, nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, tx *gorm.DB, course *types.Course) (*types.Course, error) {
  return course, nil
}

func (f *fakeCourseRepo) FullDeleteByIDAndUserID(ctx context.Context, tx *gorm.DB, courseID, userID uuid.UUID) error {
  return nil
}

type fakeStudySessionRepo struct {
  sessions []*types.StudySession
  err      error
}

func (f *fakeStudySessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.StudySession) ([]*types.StudySession, error) {
  return sessions, nil
}

func (f *fakeStudySessionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StudySession, error) {
  return f.sessions, f.err
}

func (f *fakeStudySessionRepo) GetRecentByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.StudySession, error) {
  if f.err != nil {
    return nil, f.err
  }
  if len(f.sessions) > limit {
    return f.sessions[:limit], nil
  }
  return f.sessions, nil
}

var _ repos.CourseRepo = (*fakeCourseRepo)(nil)
var _ repos.StudySessionRepo = (*fakeStudySessionRepo)(nil)

func testLogger(t *testing.T) *logger.Logger {
  t.Helper()
  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("failed to build logger: %v", err)
  }
  return log
}

func TestBuildContext_CourseFound(t *testing.T) {
  userID := uuid.New()
  courseID := uuid.New()
  courseRepo := &fakeCourseRepo{course: &types.Course{
    ID:          courseID,
    UserID:      userID,
    Name:        "Biology 101",
    Subject:     "Science",
    Description: "Intro to cell biology",
  }}
  svc := NewChatContextService(testLogger(t), courseRepo, &fakeStudySessionRepo{})

  got := svc.BuildContext(context.Background(), userID, courseID.String())

  want := "\n\nCourse Context: You are helping with \"Biology 101\" (Science). Intro to cell biology"
  if got != want {
    t.Fatalf("BuildContext = %q, want %q", got, want)
  }
}

func TestBuildContext_CourseNotFound(t *testing.T) {
  svc := NewChatContextService(testLogger(t), &fakeCourseRepo{course: nil}, &fakeStudySessionRepo{})

  got := svc.BuildContext(context.Background(), uuid.New(), uuid.New().String())

  if got != "" {
    t.Fatalf("BuildContext = %q, want empty string for missing course", got)
  }
}

func TestBuildContext_CourseLookupFailure_Absorbed(t *testing.T) {
  courseRepo := &fakeCourseRepo{err: errors.New("connection refused")}
  svc := NewChatContextService(testLogger(t), courseRepo, &fakeStudySessionRepo{})

  got := svc.BuildContext(context.Background(), uuid.New(), uuid.New().String())

  if got != "" {
    t.Fatalf("BuildContext = %q, want empty string when course lookup fails", got)
  }
}

func TestBuildContext_InvalidCourseID_SkipsLookup(t *testing.T) {
  courseRepo := &fakeCourseRepo{course: &types.Course{Name: "x"}}
  svc := NewChatContextService(testLogger(t), courseRepo, &fakeStudySessionRepo{})

  got := svc.BuildContext(context.Background(), uuid.New(), "not-a-uuid")

  if got != "" {
    t.Fatalf("BuildContext = %q, want empty string for malformed course id", got)
  }
  if courseRepo.getCalled {
    t.Fatal("expected no course lookup for a malformed course id")
  }
}

func TestBuildContext_NoCourseID_SkipsLookup(t *testing.T) {
  courseRepo := &fakeCourseRepo{}
  svc := NewChatContextService(testLogger(t), courseRepo, &fakeStudySessionRepo{})

  svc.BuildContext(context.Background(), uuid.New(), "")

  if courseRepo.getCalled {
    t.Fatal("expected no course lookup when course id is absent")
  }
}

func TestBuildContext_RecentSessions(t *testing.T) {
  course := &types.Course{Name: "Linear Algebra"}
  sessions := []*types.StudySession{
    {ActivityType: "flashcards", Course: course},
    {ActivityType: "reading"},
    {ActivityType: "practice test", Course: course},
  }
  svc := NewChatContextService(testLogger(t), &fakeCourseRepo{}, &fakeStudySessionRepo{sessions: sessions})

  got := svc.BuildContext(context.Background(), uuid.New(), "")

  want := "\n\nRecent Study Activities: flashcards in Linear Algebra, reading in Unknown Course, practice test in Linear Algebra"
  if got != want {
    t.Fatalf("BuildContext = %q, want %q", got, want)
  }
}

func TestBuildContext_SessionCountCapped(t *testing.T) {
  var sessions []*types.StudySession
  for i := 0; i < 9; i++ {
    sessions = append(sessions, &types.StudySession{ActivityType: fmt.Sprintf("activity%d", i)})
  }
  svc := NewChatContextService(testLogger(t), &fakeCourseRepo{}, &fakeStudySessionRepo{sessions: sessions})

  got := svc.BuildContext(context.Background(), uuid.New(), "")

  if n := strings.Count(got, "activity"); n != recentSessionLimit {
    t.Fatalf("got %d session entries, want %d", n, recentSessionLimit)
  }
}

func TestBuildContext_NoSessions_NoSegment(t *testing.T) {
  svc := NewChatContextService(testLogger(t), &fakeCourseRepo{}, &fakeStudySessionRepo{})

  got := svc.BuildContext(context.Background(), uuid.New(), "")

  if strings.Contains(got, "Recent Study Activities") {
    t.Fatalf("BuildContext = %q, want no study segment for zero sessions", got)
  }
}

func TestBuildContext_SessionLookupFailure_Absorbed(t *testing.T) {
  sessionRepo := &fakeStudySessionRepo{err: errors.New("timeout")}
  svc := NewChatContextService(testLogger(t), &fakeCourseRepo{}, sessionRepo)

  got := svc.BuildContext(context.Background(), uuid.New(), "")

  if got != "" {
    t.Fatalf("BuildContext = %q, want empty string when session lookup fails", got)
  }
}

func TestBuildContext_CourseThenSessions_Order(t *testing.T) {
  userID := uuid.New()
  courseID := uuid.New()
  courseRepo := &fakeCourseRepo{course: &types.Course{
    ID:      courseID,
    UserID:  userID,
    Name:    "Chemistry",
    Subject: "Science",
  }}
  sessionRepo := &fakeStudySessionRepo{sessions: []*types.StudySession{
    {ActivityType: "notes review"},
  }}
  svc := NewChatContextService(testLogger(t), courseRepo, sessionRepo)

  got := svc.BuildContext(context.Background(), userID, courseID.String())

  courseIdx := strings.Index(got, "Course Context")
  studyIdx := strings.Index(got, "Recent Study Activities")
  if courseIdx == -1 || studyIdx == -1 {
    t.Fatalf("BuildContext = %q, want both segments present", got)
  }
  if courseIdx > studyIdx {
    t.Fatalf("BuildContext = %q, want course context before study activities", got)
  }
}
