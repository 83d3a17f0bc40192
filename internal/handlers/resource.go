package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/studyhall-org/studyhall-backend/internal/services"
)

// Uploads above this size are rejected before touching the bucket.
const maxResourceSizeBytes = 25 << 20

type ResourceHandler struct {
  resourceService services.ResourceService
}

func NewResourceHandler(resourceService services.ResourceService) *ResourceHandler {
  return &ResourceHandler{resourceService: resourceService}
}

func (rh *ResourceHandler) UploadResource(c *gin.Context) {
  courseID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id UUID"})
    return
  }
  fileHeader, err := c.FormFile("file")
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "missing file in multipart form"})
    return
  }
  if fileHeader.Size > maxResourceSizeBytes {
    c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
    return
  }
  file, err := fileHeader.Open()
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "could not open uploaded file"})
    return
  }
  defer file.Close()

  resource, err := rh.resourceService.UploadResource(
    c.Request.Context(),
    courseID,
    fileHeader.Filename,
    fileHeader.Header.Get("Content-Type"),
    fileHeader.Size,
    file,
  )
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "success": true,
    "resource": resource,
  })
}

func (rh *ResourceHandler) GetCourseResources(c *gin.Context) {
  courseID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id UUID"})
    return
  }
  resources, err := rh.resourceService.GetCourseResources(c.Request.Context(), courseID)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"resources": resources})
}

func (rh *ResourceHandler) DeleteResource(c *gin.Context) {
  resourceID, err := uuid.Parse(c.Param("resourceID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid resource id UUID"})
    return
  }
  if err := rh.resourceService.DeleteResource(c.Request.Context(), resourceID); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true})
}
