package main

import (
  "fmt"
  "os"
  "time"

  "github.com/studyhall-org/studyhall-backend/internal/logger"
  "github.com/studyhall-org/studyhall-backend/internal/utils"
  "github.com/studyhall-org/studyhall-backend/internal/db"
  "github.com/studyhall-org/studyhall-backend/internal/repos"
  "github.com/studyhall-org/studyhall-backend/internal/services"
  "github.com/studyhall-org/studyhall-backend/internal/handlers"
  "github.com/studyhall-org/studyhall-backend/internal/middleware"
  "github.com/studyhall-org/studyhall-backend/internal/server"
)

func main() {
  // Logger Setup
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Environment Variables
  log.Info("Attempting to load environment variables for Main now...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
  log.Debug("Environment variables loaded for Main :)",
    "accessTokenTTL", accessTokenTTL,
    "refreshTokenTTL", refreshTokenTTL,
  )

  // Postgres Setup
  log.Info("Setting Up Postgres from Main now...")
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Fatal error: DB init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()
  log.Info("Postgres Setup From Main Successful :)")

  // Repositories Setup
  log.Info("Setting Up Repositories from Main now...")
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  courseRepo := repos.NewCourseRepo(thePG, log)
  studySessionRepo := repos.NewStudySessionRepo(thePG, log)
  courseResourceRepo := repos.NewCourseResourceRepo(thePG, log)
  usageStatRepo := repos.NewUsageStatRepo(thePG, log)
  subscriptionRepo := repos.NewSubscriptionRepo(thePG, log)
  log.Info("Repositories Set Up From Main Successful :)")

  // Services Setup
  log.Info("Setting up Services from Main now...")
  emailService, err := services.NewEmailService(log)
  if err != nil {
    log.Warn("Could not init EmailService", "error", err)
  }
  bucketService, err := services.NewBucketService(log)
  if err != nil {
    log.Error("Fatal error: Cannot init BucketService", "error", err)
    os.Exit(1)
  }
  avatarService, err := services.NewAvatarService(thePG, log, userRepo, bucketService)
  if err != nil {
    log.Warn("Could not init AvatarService; users get no default avatar", "error", err)
  }
  authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, avatarService, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  courseService := services.NewCourseService(thePG, log, courseRepo)
  studySessionService := services.NewStudySessionService(thePG, log, studySessionRepo, courseRepo)
  resourceService := services.NewResourceService(thePG, log, courseRepo, courseResourceRepo, bucketService)
  completionClient, chatModel := services.NewOpenAIClient(log)
  chatContextService := services.NewChatContextService(log, courseRepo, studySessionRepo)
  aiChatService := services.NewAiChatService(log, chatContextService, completionClient, chatModel, usageStatRepo)
  billingService, err := services.NewBillingService(thePG, log, subscriptionRepo, userRepo, emailService)
  if err != nil {
    log.Error("Fatal error: Cannot init BillingService", "error", err)
    os.Exit(1)
  }
  log.Info("Services Set Up From Main Successful :)")

  //  Handler Setup
  log.Info("Setting Up Handlers from Main now...")
  authHandler := handlers.NewAuthHandler(authService)
  courseHandler := handlers.NewCourseHandler(courseService)
  studySessionHandler := handlers.NewStudySessionHandler(studySessionService)
  resourceHandler := handlers.NewResourceHandler(resourceService)
  aiChatHandler := handlers.NewAiChatHandler(aiChatService)
  billingHandler := handlers.NewBillingHandler(billingService, log)
  log.Info("Handlers Set Up From Main Successful :)")

  // MiddleWare Setup
  log.Info("Setting Up Middleware from Main now...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)
  log.Info("Middleware Set Up From Main Successful :)")

  // Router Setup
  log.Info("Setting Up Router from Main now...")
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:         authHandler,
    AuthMiddleware:      authMiddleware,
    CourseHandler:       courseHandler,
    StudySessionHandler: studySessionHandler,
    ResourceHandler:     resourceHandler,
    AiChatHandler:       aiChatHandler,
    BillingHandler:      billingHandler,
  })
  log.Info("Router Set Up From Main Successful :)")

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
