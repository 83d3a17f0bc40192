package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/studyhall-org/studyhall-backend/internal/handlers"
  "github.com/studyhall-org/studyhall-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler         *handlers.AuthHandler
  AuthMiddleware      *middleware.AuthMiddleware
  CourseHandler       *handlers.CourseHandler
  StudySessionHandler *handlers.StudySessionHandler
  ResourceHandler     *handlers.ResourceHandler
  AiChatHandler       *handlers.AiChatHandler
  BillingHandler      *handlers.BillingHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  //-----------------------------------------
  // Cors Setup
  //-----------------------------------------
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:3000",
      "https://studyhall.app",
      "https://www.studyhall.app",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "Stripe-Signature"},
    AllowCredentials: true,
  }))

  //-----------------------------------------
  // Health Routes
  //-----------------------------------------
  router.GET("/healthz", handlers.Healthz)

  //-----------------------------------------
  // Public Routes
  //-----------------------------------------
  api := router.Group("/api")
  {
    api.POST("/register", cfg.AuthHandler.Register)
    api.POST("/login", cfg.AuthHandler.Login)
    api.GET("/envcheck", handlers.EnvCheck)

    // The chat endpoint identifies the user from the request body; the
    // billing webhook is authenticated by its Stripe signature.
    api.POST("/ai/chat", cfg.AiChatHandler.Chat)
    api.POST("/billing/webhook", cfg.BillingHandler.Webhook)
  }

  //------------------------------------------
  // Protected Routes
  //------------------------------------------
  protected := api.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  protected.POST("/refresh", cfg.AuthHandler.Refresh)
  protected.POST("/logout", cfg.AuthHandler.Logout)

  //Courses
  protected.GET("/courses", cfg.CourseHandler.GetMyCourses)
  protected.POST("/courses", cfg.CourseHandler.CreateCourse)
  protected.PUT("/courses/:id", cfg.CourseHandler.UpdateCourse)
  protected.DELETE("/courses/:id", cfg.CourseHandler.DeleteCourse)

  //Course Resources
  protected.GET("/courses/:id/resources", cfg.ResourceHandler.GetCourseResources)
  protected.POST("/courses/:id/resources", cfg.ResourceHandler.UploadResource)
  protected.DELETE("/resources/:resourceID", cfg.ResourceHandler.DeleteResource)

  //Study Sessions
  protected.GET("/sessions", cfg.StudySessionHandler.GetMySessions)
  protected.POST("/sessions", cfg.StudySessionHandler.CreateSession)

  //Billing
  protected.POST("/billing/checkout", cfg.BillingHandler.CreateCheckoutSession)
  protected.GET("/billing/status", cfg.BillingHandler.GetSubscriptionStatus)

  return router
}
