package handlers

import (
  "net/http"
  "os"

  "github.com/gin-gonic/gin"
)

func Healthz(c *gin.Context) {
  c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// EnvCheck reports which upstream credentials are configured. Booleans only;
// values are never echoed back.
func EnvCheck(c *gin.Context) {
  c.JSON(http.StatusOK, gin.H{
    "postgres": os.Getenv("POSTGRES_HOST") != "",
    "openai":   os.Getenv("OPENAI_API_KEY") != "",
    "stripe":   os.Getenv("STRIPE_SECRET_KEY") != "",
    "bucket":   os.Getenv("STUDYHALL_BUCKET_NAME") != "",
    "sendgrid": os.Getenv("SENDGRID_API_KEY") != "",
  })
}
