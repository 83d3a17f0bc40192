package handlers

import (
  "encoding/json"
  "io"
  "net/http"
  "time"

  "github.com/gin-gonic/gin"
  "github.com/stripe/stripe-go/v78"

  "github.com/studyhall-org/studyhall-backend/internal/logger"
  "github.com/studyhall-org/studyhall-backend/internal/services"
)

type BillingHandler struct {
  billingService services.BillingService
  log            *logger.Logger
}

func NewBillingHandler(billingService services.BillingService, log *logger.Logger) *BillingHandler {
  return &BillingHandler{billingService: billingService, log: log.With("handler", "BillingHandler")}
}

func (bh *BillingHandler) CreateCheckoutSession(c *gin.Context) {
  url, err := bh.billingService.CreateCheckoutSession(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"url": url})
}

func (bh *BillingHandler) GetSubscriptionStatus(c *gin.Context) {
  sub, err := bh.billingService.GetMySubscription(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// Webhook receives Stripe events. Unrecognized event types are acknowledged
// so Stripe stops retrying them.
func (bh *BillingHandler) Webhook(c *gin.Context) {
  payload, err := io.ReadAll(c.Request.Body)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "could not read webhook payload"})
    return
  }
  event, err := bh.billingService.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
  if err != nil {
    bh.log.Warn("Stripe webhook signature verification failed", "error", err)
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook signature"})
    return
  }

  switch event.Type {
  case "checkout.session.completed":
    var session stripe.CheckoutSession
    if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
      bh.log.Warn("Failed to parse checkout session from webhook", "error", err)
      c.JSON(http.StatusBadRequest, gin.H{"error": "malformed checkout session payload"})
      return
    }
    var customerID string
    if session.Customer != nil {
      customerID = session.Customer.ID
    }
    var subscriptionID string
    if session.Subscription != nil {
      subscriptionID = session.Subscription.ID
    }
    var periodEnd *time.Time
    if session.Subscription != nil && session.Subscription.CurrentPeriodEnd > 0 {
      t := time.Unix(session.Subscription.CurrentPeriodEnd, 0)
      periodEnd = &t
    }
    if err := bh.billingService.HandleCheckoutCompleted(c.Request.Context(), session.ClientReferenceID, customerID, subscriptionID, periodEnd); err != nil {
      bh.log.Warn("Failed to handle checkout.session.completed", "error", err)
      c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process event"})
      return
    }
  case "customer.subscription.deleted":
    var subscription stripe.Subscription
    if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
      bh.log.Warn("Failed to parse subscription from webhook", "error", err)
      c.JSON(http.StatusBadRequest, gin.H{"error": "malformed subscription payload"})
      return
    }
    if err := bh.billingService.HandleSubscriptionDeleted(c.Request.Context(), subscription.ID); err != nil {
      bh.log.Warn("Failed to handle customer.subscription.deleted", "error", err)
      c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process event"})
      return
    }
  default:
    bh.log.Debug("Ignoring unhandled Stripe event type", "type", event.Type)
  }
  c.JSON(http.StatusOK, gin.H{"received": true})
}
