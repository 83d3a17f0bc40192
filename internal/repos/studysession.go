package repos

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/studyhall-org/studyhall-backend/internal/logger"
  "github.com/studyhall-org/studyhall-backend/internal/types"
)

type StudySessionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, sessions []*types.StudySession) ([]*types.StudySession, error)
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StudySession, error)
  // GetRecentByUserID returns the newest sessions by start time, course preloaded.
  GetRecentByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.StudySession, error)
}

type studySessionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewStudySessionRepo(db *gorm.DB, baseLog *logger.Logger) StudySessionRepo {
  repoLog := baseLog.With("repo", "StudySessionRepo")
  return &studySessionRepo{db: db, log: repoLog}
}

func (ssr *studySessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.StudySession) ([]*types.StudySession, error) {
  transaction := tx
  if transaction == nil {
    transaction = ssr.db
  }
  if len(sessions) == 0 {
    return []*types.StudySession{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&sessions).Error; err != nil {
    ssr.log.Error("Failed to create study sessions", "error", err)
    return nil, fmt.Errorf("Failed creating study sessions: %w", err)
  }
  ssr.log.Info("Successfully created study sessions", "count", len(sessions))
  return sessions, nil
}

func (ssr *studySessionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StudySession, error) {
  transaction := tx
  if transaction == nil {
    transaction = ssr.db
  }
  var results []*types.StudySession
  if err := transaction.WithContext(ctx).
    Preload("Course").
    Where("user_id = ?", userID).
    Order("started_at DESC").
    Find(&results).Error; err != nil {
    ssr.log.Error("Failed to fetch study sessions for user", "error", err)
    return nil, fmt.Errorf("Failed fetching study sessions for user: %w", err)
  }
  return results, nil
}

func (ssr *studySessionRepo) GetRecentByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.StudySession, error) {
  transaction := tx
  if transaction == nil {
    transaction = ssr.db
  }
  var results []*types.StudySession
  if err := transaction.WithContext(ctx).
    Preload("Course").
    Where("user_id = ?", userID).
    Order("started_at DESC").
    Limit(limit).
    Find(&results).Error; err != nil {
    ssr.log.Error("Failed to fetch recent study sessions for user", "error", err)
    return nil, fmt.Errorf("Failed fetching recent study sessions for user: %w", err)
  }
  return results, nil
}
