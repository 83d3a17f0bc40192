package repos

import (
  "context"
  "errors"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/studyhall-org/studyhall-backend/internal/logger"
  "github.com/studyhall-org/studyhall-backend/internal/types"
)

type CourseResourceRepo interface {
  Create(ctx context.Context, tx *gorm.DB, resources []*types.CourseResource) ([]*types.CourseResource, error)
  GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.CourseResource, error)
  GetByIDAndUserID(ctx context.Context, tx *gorm.DB, resourceID, userID uuid.UUID) (*types.CourseResource, error)
  FullDeleteByID(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) error
}

type courseResourceRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCourseResourceRepo(db *gorm.DB, baseLog *logger.Logger) CourseResourceRepo {
  repoLog := baseLog.With("repo", "CourseResourceRepo")
  return &courseResourceRepo{db: db, log: repoLog}
}

func (crr *courseResourceRepo) Create(ctx context.Context, tx *gorm.DB, resources []*types.CourseResource) ([]*types.CourseResource, error) {
  transaction := tx
  if transaction == nil {
    transaction = crr.db
  }
  if len(resources) == 0 {
    return []*types.CourseResource{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&resources).Error; err != nil {
    crr.log.Error("Failed to create course resources", "error", err)
    return nil, fmt.Errorf("Failed creating course resources: %w", err)
  }
  return resources, nil
}

func (crr *courseResourceRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.CourseResource, error) {
  transaction := tx
  if transaction == nil {
    transaction = crr.db
  }
  var results []*types.CourseResource
  if err := transaction.WithContext(ctx).
    Where("course_id = ?", courseID).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    crr.log.Error("Failed to fetch course resources", "error", err)
    return nil, fmt.Errorf("Failed fetching course resources: %w", err)
  }
  return results, nil
}

func (crr *courseResourceRepo) GetByIDAndUserID(ctx context.Context, tx *gorm.DB, resourceID, userID uuid.UUID) (*types.CourseResource, error) {
  transaction := tx
  if transaction == nil {
    transaction = crr.db
  }
  var resource types.CourseResource
  err := transaction.WithContext(ctx).
    Where("id = ? AND user_id = ?", resourceID, userID).
    First(&resource).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    crr.log.Error("Failed to fetch course resource by id and user id", "error", err)
    return nil, fmt.Errorf("Failed fetching course resource by id and user id: %w", err)
  }
  return &resource, nil
}

func (crr *courseResourceRepo) FullDeleteByID(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = crr.db
  }
  if err := transaction.WithContext(ctx).
    Unscoped().
    Where("id = ?", resourceID).
    Delete(&types.CourseResource{}).Error; err != nil {
    crr.log.Error("Failed to delete course resource", "error", err, "resourceID", resourceID)
    return fmt.Errorf("Failed deleting course resource: %w", err)
  }
  return nil
}
