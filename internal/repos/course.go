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

type CourseRepo interface {
  Create(ctx context.Context, tx *gorm.DB, courses []*types.Course) ([]*types.Course, error)
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Course, error)
  // GetByIDAndUserID returns (nil, nil) when no row matches both filters.
  GetByIDAndUserID(ctx context.Context, tx *gorm.DB, courseID, userID uuid.UUID) (*types.Course, error)
  Update(ctx context.Context, tx *gorm.DB, course *types.Course) (*types.Course, error)
  FullDeleteByIDAndUserID(ctx context.Context, tx *gorm.DB, courseID, userID uuid.UUID) error
}

type courseRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
  repoLog := baseLog.With("repo", "CourseRepo")
  return &courseRepo{db: db, log: repoLog}
}

func (cr *courseRepo) Create(ctx context.Context, tx *gorm.DB, courses []*types.Course) ([]*types.Course, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  if len(courses) == 0 {
    return []*types.Course{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&courses).Error; err != nil {
    cr.log.Error("Failed to create courses", "error", err)
    return nil, fmt.Errorf("Failed creating courses: %w", err)
  }
  cr.log.Info("Successfully created courses", "count", len(courses))
  return courses, nil
}

func (cr *courseRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Course, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var results []*types.Course
  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    cr.log.Error("Failed to fetch courses for user", "error", err)
    return nil, fmt.Errorf("Failed fetching courses for user: %w", err)
  }
  return results, nil
}

func (cr *courseRepo) GetByIDAndUserID(ctx context.Context, tx *gorm.DB, courseID, userID uuid.UUID) (*types.Course, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  var course types.Course
  err := transaction.WithContext(ctx).
    Where("id = ? AND user_id = ?", courseID, userID).
    First(&course).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    cr.log.Error("Failed to fetch course by id and user id", "error", err)
    return nil, fmt.Errorf("Failed fetching course by id and user id: %w", err)
  }
  return &course, nil
}

func (cr *courseRepo) Update(ctx context.Context, tx *gorm.DB, course *types.Course) (*types.Course, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  if err := transaction.WithContext(ctx).Save(course).Error; err != nil {
    cr.log.Error("Failed to update course", "error", err, "courseID", course.ID)
    return nil, fmt.Errorf("Failed updating course: %w", err)
  }
  return course, nil
}

func (cr *courseRepo) FullDeleteByIDAndUserID(ctx context.Context, tx *gorm.DB, courseID, userID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }
  if err := transaction.WithContext(ctx).
    Unscoped().
    Where("id = ? AND user_id = ?", courseID, userID).
    Delete(&types.Course{}).Error; err != nil {
    cr.log.Error("Failed to delete course", "error", err, "courseID", courseID)
    return fmt.Errorf("Failed deleting course: %w", err)
  }
  return nil
}
