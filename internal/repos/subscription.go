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

type SubscriptionRepo interface {
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Subscription, error)
  GetByStripeSubscriptionID(ctx context.Context, tx *gorm.DB, stripeSubscriptionID string) (*types.Subscription, error)
  // UpsertActive marks the user's subscription active, keyed on user id.
  UpsertActive(ctx context.Context, tx *gorm.DB, userID uuid.UUID, stripeCustomerID, stripeSubscriptionID string, currentPeriodEnd *time.Time) error
  MarkCanceled(ctx context.Context, tx *gorm.DB, stripeSubscriptionID string) error
}

type subscriptionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
  repoLog := baseLog.With("repo", "SubscriptionRepo")
  return &subscriptionRepo{db: db, log: repoLog}
}

func (sr *subscriptionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Subscription, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  var sub types.Subscription
  err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    First(&sub).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    sr.log.Error("Failed to fetch subscription by user id", "error", err)
    return nil, fmt.Errorf("Failed fetching subscription by user id: %w", err)
  }
  return &sub, nil
}

func (sr *subscriptionRepo) GetByStripeSubscriptionID(ctx context.Context, tx *gorm.DB, stripeSubscriptionID string) (*types.Subscription, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  var sub types.Subscription
  err := transaction.WithContext(ctx).
    Where("stripe_subscription_id = ?", stripeSubscriptionID).
    First(&sub).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    sr.log.Error("Failed to fetch subscription by stripe subscription id", "error", err)
    return nil, fmt.Errorf("Failed fetching subscription by stripe subscription id: %w", err)
  }
  return &sub, nil
}

func (sr *subscriptionRepo) UpsertActive(ctx context.Context, tx *gorm.DB, userID uuid.UUID, stripeCustomerID, stripeSubscriptionID string, currentPeriodEnd *time.Time) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  sub := types.Subscription{
    ID:                   uuid.New(),
    UserID:               userID,
    Status:               types.SubscriptionStatusActive,
    StripeCustomerID:     stripeCustomerID,
    StripeSubscriptionID: stripeSubscriptionID,
    CurrentPeriodEnd:     currentPeriodEnd,
  }
  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns: []clause.Column{{Name: "user_id"}},
      DoUpdates: clause.AssignmentColumns([]string{
        "status", "stripe_customer_id", "stripe_subscription_id", "current_period_end", "updated_at",
      }),
    }).
    Create(&sub).Error; err != nil {
    sr.log.Error("Failed to upsert active subscription", "error", err, "userID", userID)
    return fmt.Errorf("Failed upserting active subscription: %w", err)
  }
  return nil
}

func (sr *subscriptionRepo) MarkCanceled(ctx context.Context, tx *gorm.DB, stripeSubscriptionID string) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  if err := transaction.WithContext(ctx).
    Model(&types.Subscription{}).
    Where("stripe_subscription_id = ?", stripeSubscriptionID).
    Update("status", types.SubscriptionStatusCanceled).Error; err != nil {
    sr.log.Error("Failed to mark subscription canceled", "error", err, "stripeSubscriptionID", stripeSubscriptionID)
    return fmt.Errorf("Failed marking subscription canceled: %w", err)
  }
  return nil
}
