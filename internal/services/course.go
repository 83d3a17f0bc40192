package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/studyhall-org/studyhall-backend/internal/logger"
  "github.com/studyhall-org/studyhall-backend/internal/normalization"
  "github.com/studyhall-org/studyhall-backend/internal/repos"
  "github.com/studyhall-org/studyhall-backend/internal/requestdata"
  "github.com/studyhall-org/studyhall-backend/internal/types"
)

type CourseService interface {
  CreateCourse(ctx context.Context, name, subject, description string) (*types.Course, error)
  GetMyCourses(ctx context.Context) ([]*types.Course, error)
  UpdateCourse(ctx context.Context, courseID uuid.UUID, name, subject, description string) (*types.Course, error)
  DeleteCourse(ctx context.Context, courseID uuid.UUID) error
}

type courseService struct {
  db         *gorm.DB
  log        *logger.Logger
  courseRepo repos.CourseRepo
}

func NewCourseService(db *gorm.DB, log *logger.Logger, courseRepo repos.CourseRepo) CourseService {
  serviceLog := log.With("service", "CourseService")
  return &courseService{db: db, log: serviceLog, courseRepo: courseRepo}
}

func (cs *courseService) CreateCourse(ctx context.Context, name, subject, description string) (*types.Course, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("No user in request context, cannot create course.")
  }
  name = normalization.ParseInputString(name)
  if name == "" {
    return nil, fmt.Errorf("a course name is required.")
  }
  course := &types.Course{
    ID:          uuid.New(),
    UserID:      rd.UserID,
    Name:        name,
    Subject:     normalization.ParseInputString(subject),
    Description: normalization.ParseInputString(description),
  }
  created, err := cs.courseRepo.Create(ctx, nil, []*types.Course{course})
  if err != nil {
    cs.log.Warn("Failed to create course", "error", err)
    return nil, err
  }
  if len(created) == 0 {
    return nil, fmt.Errorf("Failure to create course in DB")
  }
  return created[0], nil
}

func (cs *courseService) GetMyCourses(ctx context.Context) ([]*types.Course, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("No user in request context, cannot list courses.")
  }
  return cs.courseRepo.GetByUserID(ctx, nil, rd.UserID)
}

func (cs *courseService) UpdateCourse(ctx context.Context, courseID uuid.UUID, name, subject, description string) (*types.Course, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("No user in request context, cannot update course.")
  }
  course, err := cs.courseRepo.GetByIDAndUserID(ctx, nil, courseID, rd.UserID)
  if err != nil {
    return nil, err
  }
  if course == nil {
    return nil, fmt.Errorf("course not found.")
  }
  if name = normalization.ParseInputString(name); name != "" {
    course.Name = name
  }
  course.Subject = normalization.ParseInputString(subject)
  course.Description = normalization.ParseInputString(description)
  return cs.courseRepo.Update(ctx, nil, course)
}

func (cs *courseService) DeleteCourse(ctx context.Context, courseID uuid.UUID) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return fmt.Errorf("No user in request context, cannot delete course.")
  }
  course, err := cs.courseRepo.GetByIDAndUserID(ctx, nil, courseID, rd.UserID)
  if err != nil {
    return err
  }
  if course == nil {
    return fmt.Errorf("course not found.")
  }
  return cs.courseRepo.FullDeleteByIDAndUserID(ctx, nil, courseID, rd.UserID)
}
