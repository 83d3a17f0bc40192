package services

import (
  "context"
  "errors"
  "testing"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/studyhall-org/studyhall-backend/internal/repos"
  "github.com/studyhall-org/studyhall-backend/internal/requestdata"
  "github.com/studyhall-org/studyhall-backend/internal/types"
)

type fakeSubscriptionRepo struct {
  byUserID      *types.Subscription
  byUserIDErr   error
  byStripeID    *types.Subscription
  byStripeIDErr error
  upsertErr     error
  markErr       error
  upsertCalled  bool
  markCalled    bool
  lastUserID    uuid.UUID
  lastCustomer  string
  lastStripeSub string
  lastPeriodEnd *time.Time
}

func (f *fakeSubscriptionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Subscription, error) {
  return f.byUserID, f.byUserIDErr
}

func (f *fakeSubscriptionRepo) GetByStripeSubscriptionID(ctx context.Context, tx *gorm.DB, stripeSubscriptionID string) (*types.Subscription, error) {
  return f.byStripeID, f.byStripeIDErr
}

func (f *fakeSubscriptionRepo) UpsertActive(ctx context.Context, tx *gorm.DB, userID uuid.UUID, stripeCustomerID, stripeSubscriptionID string, currentPeriodEnd *time.Time) error {
  f.upsertCalled = true
  f.lastUserID = userID
  f.lastCustomer = stripeCustomerID
  f.lastStripeSub = stripeSubscriptionID
  f.lastPeriodEnd = currentPeriodEnd
  return f.upsertErr
}

func (f *fakeSubscriptionRepo) MarkCanceled(ctx context.Context, tx *gorm.DB, stripeSubscriptionID string) error {
  f.markCalled = true
  f.lastStripeSub = stripeSubscriptionID
  return f.markErr
}

var _ repos.SubscriptionRepo = (*fakeSubscriptionRepo)(nil)

type fakeUserRepo struct {
  users []*types.User
  err   error
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
  return users, f.err
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
  return f.users, f.err
}

func (f *fakeUserRepo) GetByEmails(ctx context.Context, tx *gorm.DB, userEmails []string) ([]*types.User, error) {
  return f.users, f.err
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, userEmail string) (bool, error) {
  return len(f.users) > 0, f.err
}

func (f *fakeUserRepo) Update(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
  return users, f.err
}

var _ repos.UserRepo = (*fakeUserRepo)(nil)

type fakeEmailService struct {
  err       error
  sendCount int
  lastTo    string
  lastType  string
}

func (f *fakeEmailService) SendEmail(ctx context.Context, toEmail, subject, plainText, htmlContent, emailType string) error {
  f.sendCount++
  f.lastTo = toEmail
  f.lastType = emailType
  return f.err
}

var _ EmailService = (*fakeEmailService)(nil)

// Constructed directly rather than through NewBillingService so the tests do
// not depend on Stripe environment variables.
func newBillingFixture(t *testing.T, subRepo *fakeSubscriptionRepo, userRepo *fakeUserRepo, email EmailService) *billingService {
  t.Helper()
  return &billingService{
    log:              testLogger(t),
    subscriptionRepo: subRepo,
    userRepo:         userRepo,
    emailService:     email,
    priceID:          "price_test",
    successURL:       "https://studyhall.app/billing/success",
    cancelURL:        "https://studyhall.app/billing",
  }
}

func TestHandleCheckoutCompleted_ActivatesAndEmails(t *testing.T) {
  userID := uuid.New()
  subRepo := &fakeSubscriptionRepo{}
  userRepo := &fakeUserRepo{users: []*types.User{{ID: userID, Email: "ada@studyhall.app", FirstName: "Ada"}}}
  email := &fakeEmailService{}
  svc := newBillingFixture(t, subRepo, userRepo, email)

  periodEnd := time.Now().Add(30 * 24 * time.Hour)
  err := svc.HandleCheckoutCompleted(context.Background(), userID.String(), "cus_123", "sub_456", &periodEnd)

  if err != nil {
    t.Fatalf("HandleCheckoutCompleted returned error: %v", err)
  }
  if !subRepo.upsertCalled {
    t.Fatal("expected subscription upsert")
  }
  if subRepo.lastUserID != userID || subRepo.lastCustomer != "cus_123" || subRepo.lastStripeSub != "sub_456" {
    t.Fatalf("upsert got user=%v customer=%q sub=%q", subRepo.lastUserID, subRepo.lastCustomer, subRepo.lastStripeSub)
  }
  if subRepo.lastPeriodEnd == nil || !subRepo.lastPeriodEnd.Equal(periodEnd) {
    t.Fatalf("period end = %v, want %v", subRepo.lastPeriodEnd, periodEnd)
  }
  if email.sendCount != 1 || email.lastTo != "ada@studyhall.app" || email.lastType != "billing" {
    t.Fatalf("email send = %d to %q type %q, want one billing email to the user", email.sendCount, email.lastTo, email.lastType)
  }
}

func TestHandleCheckoutCompleted_BadClientReferenceID(t *testing.T) {
  subRepo := &fakeSubscriptionRepo{}
  svc := newBillingFixture(t, subRepo, &fakeUserRepo{}, nil)

  err := svc.HandleCheckoutCompleted(context.Background(), "not-a-uuid", "cus_123", "sub_456", nil)

  if err == nil {
    t.Fatal("expected error for a non-UUID client reference id")
  }
  if subRepo.upsertCalled {
    t.Fatal("must not upsert a subscription for an unparseable user id")
  }
}

func TestHandleCheckoutCompleted_EmailFailureAbsorbed(t *testing.T) {
  userID := uuid.New()
  subRepo := &fakeSubscriptionRepo{}
  userRepo := &fakeUserRepo{users: []*types.User{{ID: userID, Email: "ada@studyhall.app", FirstName: "Ada"}}}
  email := &fakeEmailService{err: errors.New("sendgrid down")}
  svc := newBillingFixture(t, subRepo, userRepo, email)

  err := svc.HandleCheckoutCompleted(context.Background(), userID.String(), "cus_123", "sub_456", nil)

  if err != nil {
    t.Fatalf("email failure must not fail the webhook, got: %v", err)
  }
  if !subRepo.upsertCalled {
    t.Fatal("expected subscription upsert")
  }
}

func TestHandleSubscriptionDeleted_MarksCanceled(t *testing.T) {
  subRepo := &fakeSubscriptionRepo{
    byStripeID: &types.Subscription{UserID: uuid.New(), StripeSubscriptionID: "sub_456", Status: types.SubscriptionStatusActive},
  }
  svc := newBillingFixture(t, subRepo, &fakeUserRepo{}, nil)

  if err := svc.HandleSubscriptionDeleted(context.Background(), "sub_456"); err != nil {
    t.Fatalf("HandleSubscriptionDeleted returned error: %v", err)
  }
  if !subRepo.markCalled {
    t.Fatal("expected subscription to be marked canceled")
  }
}

func TestHandleSubscriptionDeleted_UnknownSubscriptionIgnored(t *testing.T) {
  subRepo := &fakeSubscriptionRepo{}
  svc := newBillingFixture(t, subRepo, &fakeUserRepo{}, nil)

  if err := svc.HandleSubscriptionDeleted(context.Background(), "sub_unknown"); err != nil {
    t.Fatalf("deletion of an unknown subscription must be acknowledged, got: %v", err)
  }
  if subRepo.markCalled {
    t.Fatal("must not mark anything canceled when the subscription is unknown")
  }
}

func TestGetMySubscription_NoRowIsFreeTier(t *testing.T) {
  userID := uuid.New()
  svc := newBillingFixture(t, &fakeSubscriptionRepo{}, &fakeUserRepo{}, nil)
  ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})

  sub, err := svc.GetMySubscription(ctx)

  if err != nil {
    t.Fatalf("GetMySubscription returned error: %v", err)
  }
  if sub.Status != types.SubscriptionStatusFree || sub.UserID != userID {
    t.Fatalf("got %+v, want a synthetic free-tier subscription for the user", sub)
  }
}

func TestGetMySubscription_ExistingRow(t *testing.T) {
  userID := uuid.New()
  existing := &types.Subscription{UserID: userID, Status: types.SubscriptionStatusActive, StripeSubscriptionID: "sub_456"}
  svc := newBillingFixture(t, &fakeSubscriptionRepo{byUserID: existing}, &fakeUserRepo{}, nil)
  ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})

  sub, err := svc.GetMySubscription(ctx)

  if err != nil {
    t.Fatalf("GetMySubscription returned error: %v", err)
  }
  if sub != existing {
    t.Fatalf("got %+v, want the stored subscription", sub)
  }
}

func TestGetMySubscription_NoRequestData(t *testing.T) {
  svc := newBillingFixture(t, &fakeSubscriptionRepo{}, &fakeUserRepo{}, nil)

  if _, err := svc.GetMySubscription(context.Background()); err == nil {
    t.Fatal("expected error without an authenticated user in context")
  }
}
