package types

import (
  "time"

  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/google/uuid"
)

type CourseResource struct {
  gorm.Model
  ID              uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  CourseID        uuid.UUID         `gorm:"index;not null" json:"courseID"`
  Course          *Course           `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
  UserID          uuid.UUID         `gorm:"index;not null" json:"userID"`
  Name            string            `gorm:"not null;column:name" json:"name"`
  ContentType     string            `gorm:"column:content_type" json:"contentType"`
  SizeBytes       int64             `gorm:"column:size_bytes" json:"sizeBytes"`
  BucketKey       string            `gorm:"column:bucket_key" json:"bucketKey"`
  URL             string            `gorm:"column:url" json:"url"`
  Metadata        datatypes.JSON    `gorm:"column:metadata" json:"metadata,omitempty"`

  CreatedAt       time.Time         `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt       time.Time         `gorm:"not null;default:now()" json:"updatedAt"`
}

func (CourseResource) TableName() string {
  return "course_resource"
}
