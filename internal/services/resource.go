package services

import (
  "context"
  "encoding/json"
  "fmt"
  "io"
  "path/filepath"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/studyhall-org/studyhall-backend/internal/logger"
  "github.com/studyhall-org/studyhall-backend/internal/repos"
  "github.com/studyhall-org/studyhall-backend/internal/requestdata"
  "github.com/studyhall-org/studyhall-backend/internal/types"
)

type ResourceService interface {
  UploadResource(ctx context.Context, courseID uuid.UUID, fileName, contentType string, size int64, body io.Reader) (*types.CourseResource, error)
  GetCourseResources(ctx context.Context, courseID uuid.UUID) ([]*types.CourseResource, error)
  DeleteResource(ctx context.Context, resourceID uuid.UUID) error
}

type resourceService struct {
  db            *gorm.DB
  log           *logger.Logger
  courseRepo    repos.CourseRepo
  resourceRepo  repos.CourseResourceRepo
  bucketService BucketService
}

func NewResourceService(db *gorm.DB, log *logger.Logger, courseRepo repos.CourseRepo, resourceRepo repos.CourseResourceRepo, bucketService BucketService) ResourceService {
  serviceLog := log.With("service", "ResourceService")
  return &resourceService{
    db:            db,
    log:           serviceLog,
    courseRepo:    courseRepo,
    resourceRepo:  resourceRepo,
    bucketService: bucketService,
  }
}

func (rs *resourceService) UploadResource(ctx context.Context, courseID uuid.UUID, fileName, contentType string, size int64, body io.Reader) (*types.CourseResource, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("No user in request context, cannot upload resource.")
  }

  //1) Resource uploads are only allowed into the caller's own courses.
  course, err := rs.courseRepo.GetByIDAndUserID(ctx, nil, courseID, rd.UserID)
  if err != nil {
    return nil, err
  }
  if course == nil {
    return nil, fmt.Errorf("course not found.")
  }

  //2) Upload the bytes under a fresh key, then persist the row.
  bucketKey := fmt.Sprintf("course_resources/%s/%s%s", courseID.String(), uuid.New().String(), filepath.Ext(fileName))
  if err := rs.bucketService.UploadFile(ctx, bucketKey, body, contentType); err != nil {
    rs.log.Warn("Failed to upload resource to bucket", "error", err)
    return nil, fmt.Errorf("Failed uploading resource: %w", err)
  }

  metadata, _ := json.Marshal(map[string]interface{}{
    "originalName": fileName,
  })
  resource := &types.CourseResource{
    ID:          uuid.New(),
    CourseID:    courseID,
    UserID:      rd.UserID,
    Name:        fileName,
    ContentType: contentType,
    SizeBytes:   size,
    BucketKey:   bucketKey,
    URL:         rs.bucketService.GetPublicURL(bucketKey),
    Metadata:    datatypes.JSON(metadata),
  }
  created, err := rs.resourceRepo.Create(ctx, nil, []*types.CourseResource{resource})
  if err != nil {
    // The row failed but the blob is already up; remove it so the bucket
    // does not accumulate orphans.
    if delErr := rs.bucketService.DeleteFile(ctx, bucketKey); delErr != nil {
      rs.log.Warn("Failed to clean up orphaned bucket object", "key", bucketKey, "error", delErr)
    }
    return nil, err
  }
  if len(created) == 0 {
    return nil, fmt.Errorf("Failure to create course resource in DB")
  }
  return created[0], nil
}

func (rs *resourceService) GetCourseResources(ctx context.Context, courseID uuid.UUID) ([]*types.CourseResource, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("No user in request context, cannot list resources.")
  }
  course, err := rs.courseRepo.GetByIDAndUserID(ctx, nil, courseID, rd.UserID)
  if err != nil {
    return nil, err
  }
  if course == nil {
    return nil, fmt.Errorf("course not found.")
  }
  return rs.resourceRepo.GetByCourseID(ctx, nil, courseID)
}

func (rs *resourceService) DeleteResource(ctx context.Context, resourceID uuid.UUID) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return fmt.Errorf("No user in request context, cannot delete resource.")
  }
  resource, err := rs.resourceRepo.GetByIDAndUserID(ctx, nil, resourceID, rd.UserID)
  if err != nil {
    return err
  }
  if resource == nil {
    return fmt.Errorf("resource not found.")
  }
  if err := rs.resourceRepo.FullDeleteByID(ctx, nil, resourceID); err != nil {
    return err
  }
  // Blob removal is best-effort; the row is already gone.
  if err := rs.bucketService.DeleteFile(ctx, resource.BucketKey); err != nil {
    rs.log.Warn("Failed to delete resource blob from bucket", "key", resource.BucketKey, "error", err)
  }
  return nil
}
