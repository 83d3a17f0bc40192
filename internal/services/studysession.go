package services

import (
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/studyhall-org/studyhall-backend/internal/logger"
  "github.com/studyhall-org/studyhall-backend/internal/normalization"
  "github.com/studyhall-org/studyhall-backend/internal/repos"
  "github.com/studyhall-org/studyhall-backend/internal/requestdata"
  "github.com/studyhall-org/studyhall-backend/internal/types"
)

type StudySessionService interface {
  CreateSession(ctx context.Context, courseID *uuid.UUID, activityType, notes string, startedAt time.Time) (*types.StudySession, error)
  GetMySessions(ctx context.Context) ([]*types.StudySession, error)
}

type studySessionService struct {
  db               *gorm.DB
  log              *logger.Logger
  studySessionRepo repos.StudySessionRepo
  courseRepo       repos.CourseRepo
}

func NewStudySessionService(db *gorm.DB, log *logger.Logger, studySessionRepo repos.StudySessionRepo, courseRepo repos.CourseRepo) StudySessionService {
  serviceLog := log.With("service", "StudySessionService")
  return &studySessionService{db: db, log: serviceLog, studySessionRepo: studySessionRepo, courseRepo: courseRepo}
}

func (sss *studySessionService) CreateSession(ctx context.Context, courseID *uuid.UUID, activityType, notes string, startedAt time.Time) (*types.StudySession, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("No user in request context, cannot create study session.")
  }
  activityType = normalization.ParseInputString(activityType)
  if activityType == "" {
    return nil, fmt.Errorf("an activity type is required.")
  }
  if courseID != nil {
    course, err := sss.courseRepo.GetByIDAndUserID(ctx, nil, *courseID, rd.UserID)
    if err != nil {
      return nil, err
    }
    if course == nil {
      return nil, fmt.Errorf("course not found.")
    }
  }
  if startedAt.IsZero() {
    startedAt = time.Now()
  }
  session := &types.StudySession{
    ID:           uuid.New(),
    UserID:       rd.UserID,
    CourseID:     courseID,
    ActivityType: activityType,
    Notes:        normalization.ParseInputString(notes),
    StartedAt:    startedAt,
  }
  created, err := sss.studySessionRepo.Create(ctx, nil, []*types.StudySession{session})
  if err != nil {
    sss.log.Warn("Failed to create study session", "error", err)
    return nil, err
  }
  if len(created) == 0 {
    return nil, fmt.Errorf("Failure to create study session in DB")
  }
  return created[0], nil
}

func (sss *studySessionService) GetMySessions(ctx context.Context) ([]*types.StudySession, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("No user in request context, cannot list study sessions.")
  }
  return sss.studySessionRepo.GetByUserID(ctx, nil, rd.UserID)
}
