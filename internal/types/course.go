package types

import (
  "time"

  "gorm.io/gorm"
  "github.com/google/uuid"
)

type Course struct {
  gorm.Model
  ID              uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID          uuid.UUID         `gorm:"index;not null" json:"userID"`
  User            *User             `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  Name            string            `gorm:"not null;column:name" json:"name"`
  Subject         string            `gorm:"column:subject" json:"subject"`
  Description     string            `gorm:"column:description;type:text" json:"description"`

  CreatedAt       time.Time         `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt       time.Time         `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Course) TableName() string {
  return "course"
}
