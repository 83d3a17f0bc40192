package services

import (
  "context"
  "fmt"
  "os"
  "time"

  "github.com/google/uuid"
  "github.com/stripe/stripe-go/v78"
  checkoutsession "github.com/stripe/stripe-go/v78/checkout/session"
  "github.com/stripe/stripe-go/v78/webhook"
  "gorm.io/gorm"

  "github.com/studyhall-org/studyhall-backend/internal/logger"
  "github.com/studyhall-org/studyhall-backend/internal/repos"
  "github.com/studyhall-org/studyhall-backend/internal/requestdata"
  "github.com/studyhall-org/studyhall-backend/internal/types"
)

type BillingService interface {
  // CreateCheckoutSession starts a Stripe checkout for the premium plan and
  // returns the hosted payment page URL.
  CreateCheckoutSession(ctx context.Context) (string, error)
  // VerifyWebhook checks the Stripe signature over the raw payload.
  VerifyWebhook(payload []byte, signatureHeader string) (stripe.Event, error)
  HandleCheckoutCompleted(ctx context.Context, clientReferenceID, stripeCustomerID, stripeSubscriptionID string, currentPeriodEnd *time.Time) error
  HandleSubscriptionDeleted(ctx context.Context, stripeSubscriptionID string) error
  GetMySubscription(ctx context.Context) (*types.Subscription, error)
}

type billingService struct {
  db               *gorm.DB
  log              *logger.Logger
  subscriptionRepo repos.SubscriptionRepo
  userRepo         repos.UserRepo
  emailService     EmailService
  priceID          string
  successURL       string
  cancelURL        string
  webhookSecret    string
}

func NewBillingService(db *gorm.DB, log *logger.Logger, subscriptionRepo repos.SubscriptionRepo, userRepo repos.UserRepo, emailService EmailService) (BillingService, error) {
  serviceLog := log.With("service", "BillingService")
  apiKey := os.Getenv("STRIPE_SECRET_KEY")
  if apiKey == "" {
    return nil, fmt.Errorf("Missing STRIPE_SECRET_KEY environment variable")
  }
  stripe.Key = apiKey
  priceID := os.Getenv("STRIPE_PREMIUM_PRICE_ID")
  if priceID == "" {
    return nil, fmt.Errorf("Missing STRIPE_PREMIUM_PRICE_ID environment variable")
  }
  webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
  if webhookSecret == "" {
    serviceLog.Warn("STRIPE_WEBHOOK_SECRET not set; webhook verification will reject all events")
  }
  successURL := os.Getenv("BILLING_SUCCESS_URL")
  if successURL == "" {
    successURL = "https://studyhall.app/billing/success"
  }
  cancelURL := os.Getenv("BILLING_CANCEL_URL")
  if cancelURL == "" {
    cancelURL = "https://studyhall.app/billing"
  }
  return &billingService{
    db:               db,
    log:              serviceLog,
    subscriptionRepo: subscriptionRepo,
    userRepo:         userRepo,
    emailService:     emailService,
    priceID:          priceID,
    successURL:       successURL,
    cancelURL:        cancelURL,
    webhookSecret:    webhookSecret,
  }, nil
}

func (bs *billingService) CreateCheckoutSession(ctx context.Context) (string, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return "", fmt.Errorf("No user in request context, cannot start checkout.")
  }
  users, err := bs.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
  if err != nil {
    return "", err
  }
  if len(users) == 0 {
    return "", fmt.Errorf("user not found.")
  }
  params := &stripe.CheckoutSessionParams{
    Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
    LineItems: []*stripe.CheckoutSessionLineItemParams{
      {
        Price:    stripe.String(bs.priceID),
        Quantity: stripe.Int64(1),
      },
    },
    SuccessURL:        stripe.String(bs.successURL),
    CancelURL:         stripe.String(bs.cancelURL),
    ClientReferenceID: stripe.String(rd.UserID.String()),
    CustomerEmail:     stripe.String(users[0].Email),
  }
  sess, err := checkoutsession.New(params)
  if err != nil {
    bs.log.Warn("Failed to create Stripe checkout session", "error", err)
    return "", fmt.Errorf("Failed creating checkout session: %w", err)
  }
  bs.log.Info("Stripe checkout session created", "sessionID", sess.ID, "userID", rd.UserID)
  return sess.URL, nil
}

func (bs *billingService) VerifyWebhook(payload []byte, signatureHeader string) (stripe.Event, error) {
  return webhook.ConstructEvent(payload, signatureHeader, bs.webhookSecret)
}

func (bs *billingService) HandleCheckoutCompleted(ctx context.Context, clientReferenceID, stripeCustomerID, stripeSubscriptionID string, currentPeriodEnd *time.Time) error {
  userID, err := uuid.Parse(clientReferenceID)
  if err != nil {
    return fmt.Errorf("invalid client reference id on checkout session: %w", err)
  }
  if err := bs.subscriptionRepo.UpsertActive(ctx, nil, userID, stripeCustomerID, stripeSubscriptionID, currentPeriodEnd); err != nil {
    return err
  }
  bs.log.Info("Subscription activated", "userID", userID, "stripeSubscriptionID", stripeSubscriptionID)

  // Confirmation email is best-effort; the subscription row is the source
  // of truth.
  if bs.emailService != nil {
    users, uErr := bs.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
    if uErr != nil || len(users) == 0 {
      bs.log.Warn("Could not load user for confirmation email", "error", uErr, "userID", userID)
      return nil
    }
    subject := "Your StudyHall Premium subscription is active"
    plain := fmt.Sprintf("Hi %s, your StudyHall Premium subscription is now active. Happy studying!", users[0].FirstName)
    html := fmt.Sprintf("<p>Hi %s,</p><p>Your StudyHall Premium subscription is now active. Happy studying!</p>", users[0].FirstName)
    if mErr := bs.emailService.SendEmail(ctx, users[0].Email, subject, plain, html, "billing"); mErr != nil {
      bs.log.Warn("Failed to send subscription confirmation email", "error", mErr)
    }
  }
  return nil
}

func (bs *billingService) HandleSubscriptionDeleted(ctx context.Context, stripeSubscriptionID string) error {
  sub, err := bs.subscriptionRepo.GetByStripeSubscriptionID(ctx, nil, stripeSubscriptionID)
  if err != nil {
    return err
  }
  if sub == nil {
    bs.log.Warn("Received deletion for unknown stripe subscription", "stripeSubscriptionID", stripeSubscriptionID)
    return nil
  }
  if err := bs.subscriptionRepo.MarkCanceled(ctx, nil, stripeSubscriptionID); err != nil {
    return err
  }
  bs.log.Info("Subscription canceled", "userID", sub.UserID, "stripeSubscriptionID", stripeSubscriptionID)
  return nil
}

func (bs *billingService) GetMySubscription(ctx context.Context) (*types.Subscription, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("No user in request context, cannot fetch subscription.")
  }
  sub, err := bs.subscriptionRepo.GetByUserID(ctx, nil, rd.UserID)
  if err != nil {
    return nil, err
  }
  if sub == nil {
    // Users without a row are on the free tier.
    return &types.Subscription{
      UserID: rd.UserID,
      Status: types.SubscriptionStatusFree,
    }, nil
  }
  return sub, nil
}
