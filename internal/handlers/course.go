package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/studyhall-org/studyhall-backend/internal/services"
)

type CourseHandler struct {
  courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService) *CourseHandler {
  return &CourseHandler{courseService: courseService}
}

func (ch *CourseHandler) GetMyCourses(c *gin.Context) {
  courses, err := ch.courseService.GetMyCourses(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"courses": courses})
}

func (ch *CourseHandler) CreateCourse(c *gin.Context) {
  var req struct {
    Name          string      `json:"name"`
    Subject       string      `json:"subject,omitempty"`
    Description   string      `json:"description,omitempty"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  course, err := ch.courseService.CreateCourse(c.Request.Context(), req.Name, req.Subject, req.Description)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "success": true,
    "course": course,
  })
}

func (ch *CourseHandler) UpdateCourse(c *gin.Context) {
  courseID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id UUID"})
    return
  }
  var req struct {
    Name          string      `json:"name,omitempty"`
    Subject       string      `json:"subject,omitempty"`
    Description   string      `json:"description,omitempty"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  course, err := ch.courseService.UpdateCourse(c.Request.Context(), courseID, req.Name, req.Subject, req.Description)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "success": true,
    "course": course,
  })
}

func (ch *CourseHandler) DeleteCourse(c *gin.Context) {
  courseID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id UUID"})
    return
  }
  if err := ch.courseService.DeleteCourse(c.Request.Context(), courseID); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": true})
}
