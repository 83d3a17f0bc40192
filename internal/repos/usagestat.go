package repos

import (
  "context"
  "errors"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/studyhall-org/studyhall-backend/internal/logger"
  "github.com/studyhall-org/studyhall-backend/internal/types"
)

type UsageStatRepo interface {
  // UpsertAiQueryUsed records that the user issued an AI query. The upsert
  // writes the literal value 1 on conflict rather than incrementing the
  // stored counter, so it behaves as a "used AI this period" flag when
  // requests race. Matches the frontend's historical semantics.
  UpsertAiQueryUsed(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UsageStat, error)
}

type usageStatRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUsageStatRepo(db *gorm.DB, baseLog *logger.Logger) UsageStatRepo {
  repoLog := baseLog.With("repo", "UsageStatRepo")
  return &usageStatRepo{db: db, log: repoLog}
}

func (usr *usageStatRepo) UpsertAiQueryUsed(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = usr.db
  }
  stat := types.UsageStat{
    ID:            uuid.New(),
    UserID:        userID,
    AiQueriesUsed: 1,
  }
  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns: []clause.Column{{Name: "user_id"}},
      DoUpdates: clause.Assignments(map[string]interface{}{
        "ai_queries_used": 1,
        "updated_at":      time.Now(),
      }),
    }).
    Create(&stat).Error; err != nil {
    usr.log.Error("Failed to upsert usage stat", "error", err, "userID", userID)
    return fmt.Errorf("Failed upserting usage stat: %w", err)
  }
  return nil
}

func (usr *usageStatRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UsageStat, error) {
  transaction := tx
  if transaction == nil {
    transaction = usr.db
  }
  var stat types.UsageStat
  err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    First(&stat).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    usr.log.Error("Failed to fetch usage stat", "error", err)
    return nil, fmt.Errorf("Failed fetching usage stat: %w", err)
  }
  return &stat, nil
}
