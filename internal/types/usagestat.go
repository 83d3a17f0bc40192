package types

import (
  "time"

  "gorm.io/gorm"
  "github.com/google/uuid"
)

type UsageStat struct {
  gorm.Model
  ID              uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID          uuid.UUID         `gorm:"uniqueIndex;not null" json:"userID"`
  AiQueriesUsed   int               `gorm:"column:ai_queries_used;not null;default:0" json:"aiQueriesUsed"`

  CreatedAt       time.Time         `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt       time.Time         `gorm:"not null;default:now()" json:"updatedAt"`
}

func (UsageStat) TableName() string {
  return "usage_stat"
}
