package types

import (
  "time"

  "gorm.io/gorm"
  "github.com/google/uuid"
)

const (
  SubscriptionStatusFree        = "free"
  SubscriptionStatusActive      = "active"
  SubscriptionStatusCanceled    = "canceled"
)

type Subscription struct {
  gorm.Model
  ID                      uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID                  uuid.UUID         `gorm:"uniqueIndex;not null" json:"userID"`
  Status                  string            `gorm:"not null;default:'free';column:status" json:"status"`
  StripeCustomerID        string            `gorm:"column:stripe_customer_id" json:"-"`
  StripeSubscriptionID    string            `gorm:"column:stripe_subscription_id" json:"-"`
  CurrentPeriodEnd        *time.Time        `gorm:"column:current_period_end" json:"currentPeriodEnd,omitempty"`

  CreatedAt               time.Time         `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt               time.Time         `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Subscription) TableName() string {
  return "subscription"
}
