package services

import (
  "context"
  "fmt"
  "io"
  "os"
  "time"

  "cloud.google.com/go/storage"
  "google.golang.org/api/option"

  "github.com/studyhall-org/studyhall-backend/internal/logger"
)

type BucketService interface {
  UploadFile(ctx context.Context, key string, body io.Reader, contentType string) error
  DeleteFile(ctx context.Context, key string) error
  GetPublicURL(key string) string
}

type bucketService struct {
  log        *logger.Logger
  client     *storage.Client
  bucketName string
}

func NewBucketService(log *logger.Logger) (BucketService, error) {
  serviceLog := log.With("service", "BucketService")
  bucketName := os.Getenv("STUDYHALL_BUCKET_NAME")
  if bucketName == "" {
    return nil, fmt.Errorf("Missing STUDYHALL_BUCKET_NAME environment variable")
  }
  ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
  defer cancel()
  var opts []option.ClientOption
  if credsPath := os.Getenv("GCS_CREDENTIALS_FILE"); credsPath != "" {
    opts = append(opts, option.WithCredentialsFile(credsPath))
  }
  client, err := storage.NewClient(ctx, opts...)
  if err != nil {
    serviceLog.Error("Failed to create GCS client", "error", err)
    return nil, fmt.Errorf("Failed to create GCS client: %w", err)
  }
  serviceLog.Info("Bucket Service initialized :)", "bucket", bucketName)
  return &bucketService{
    log:        serviceLog,
    client:     client,
    bucketName: bucketName,
  }, nil
}

func (bs *bucketService) UploadFile(ctx context.Context, key string, body io.Reader, contentType string) error {
  writer := bs.client.Bucket(bs.bucketName).Object(key).NewWriter(ctx)
  if contentType != "" {
    writer.ContentType = contentType
  }
  if _, err := io.Copy(writer, body); err != nil {
    bs.log.Warn("Failed writing object to bucket", "key", key, "error", err)
    writer.Close()
    return fmt.Errorf("Failed writing object '%s' to bucket: %w", key, err)
  }
  if err := writer.Close(); err != nil {
    bs.log.Warn("Failed closing bucket writer", "key", key, "error", err)
    return fmt.Errorf("Failed closing bucket writer for '%s': %w", key, err)
  }
  bs.log.Info("Uploaded object to bucket", "key", key)
  return nil
}

func (bs *bucketService) DeleteFile(ctx context.Context, key string) error {
  if err := bs.client.Bucket(bs.bucketName).Object(key).Delete(ctx); err != nil {
    bs.log.Warn("Failed deleting object from bucket", "key", key, "error", err)
    return fmt.Errorf("Failed deleting object '%s' from bucket: %w", key, err)
  }
  return nil
}

func (bs *bucketService) GetPublicURL(key string) string {
  return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucketName, key)
}
