package types

import (
  "time"

  "gorm.io/gorm"
  "github.com/google/uuid"
)

type StudySession struct {
  gorm.Model
  ID              uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID          uuid.UUID         `gorm:"index;not null" json:"userID"`
  User            *User             `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  CourseID        *uuid.UUID        `gorm:"index" json:"courseID,omitempty"`
  Course          *Course           `gorm:"constraint:OnDelete:SET NULL;foreignKey:CourseID;references:ID" json:"course,omitempty"`
  ActivityType    string            `gorm:"column:activity_type" json:"activityType"`
  Notes           string            `gorm:"column:notes;type:text" json:"notes"`
  StartedAt       time.Time         `gorm:"index;not null;column:started_at" json:"startedAt"`

  CreatedAt       time.Time         `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt       time.Time         `gorm:"not null;default:now()" json:"updatedAt"`
}

func (StudySession) TableName() string {
  return "study_session"
}
