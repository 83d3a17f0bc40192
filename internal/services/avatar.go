package services

import (
  "bytes"
  "context"
  "fmt"
  "image/color"
  "math/rand"
  "os"
  "strings"

  "github.com/disintegration/imaging"
  "github.com/fogleman/gg"
  "github.com/golang/freetype/truetype"
  "golang.org/x/image/font"
  "gorm.io/gorm"

  "github.com/studyhall-org/studyhall-backend/internal/logger"
  "github.com/studyhall-org/studyhall-backend/internal/repos"
  "github.com/studyhall-org/studyhall-backend/internal/types"
)

const avatarCanvasSize = 512
const avatarFinalSize = 256

type AvatarService interface {
  CreateAndUploadUserAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error
  GenerateUserAvatar(ctx context.Context, user *types.User) (bytes.Buffer, error)
}

type avatarService struct {
  db            *gorm.DB
  log           *logger.Logger
  userRepo      repos.UserRepo
  bucketService BucketService
  bgColors      []color.NRGBA
  fontFace      font.Face
}

func NewAvatarService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, bucketService BucketService) (AvatarService, error) {
  serviceLog := log.With("service", "AvatarService")

  fontPath := os.Getenv("AVATAR_FONT_PATH")
  if fontPath == "" {
    fontPath = "./assets/fonts/Inter-Bold.ttf"
  }
  fontBytes, err := os.ReadFile(fontPath)
  if err != nil {
    return nil, fmt.Errorf("Failed reading avatar font: %w", err)
  }
  parsedFont, err := truetype.Parse(fontBytes)
  if err != nil {
    return nil, fmt.Errorf("Failed parsing avatar font: %w", err)
  }
  face := truetype.NewFace(parsedFont, &truetype.Options{Size: 220})

  return &avatarService{
    db:            db,
    log:           serviceLog,
    userRepo:      userRepo,
    bucketService: bucketService,
    bgColors: []color.NRGBA{
      {R: 0x4e, G: 0x79, B: 0xa7, A: 0xff},
      {R: 0xf2, G: 0x8e, B: 0x2b, A: 0xff},
      {R: 0xe1, G: 0x57, B: 0x59, A: 0xff},
      {R: 0x76, G: 0xb7, B: 0xb2, A: 0xff},
      {R: 0x59, G: 0xa1, B: 0x4f, A: 0xff},
      {R: 0xaf, G: 0x7a, B: 0xa1, A: 0xff},
    },
    fontFace: face,
  }, nil
}

func (as *avatarService) CreateAndUploadUserAvatar(ctx context.Context, tx *gorm.DB, user *types.User) error {
  buf, err := as.GenerateUserAvatar(ctx, user)
  if err != nil {
    return err
  }
  bucketKey := fmt.Sprintf("user_avatars/%s.png", user.ID.String())
  if err := as.bucketService.UploadFile(ctx, bucketKey, bytes.NewReader(buf.Bytes()), "image/png"); err != nil {
    return err
  }
  if user.AvatarBucketKey != bucketKey {
    user.AvatarBucketKey = bucketKey
  }
  finalURL := as.bucketService.GetPublicURL(bucketKey)
  if user.AvatarURL != finalURL {
    user.AvatarURL = finalURL
  }
  return nil
}

func (as *avatarService) GenerateUserAvatar(ctx context.Context, user *types.User) (bytes.Buffer, error) {
  var buf bytes.Buffer

  initials := userInitials(user)
  bg := as.bgColors[rand.Intn(len(as.bgColors))]

  dc := gg.NewContext(avatarCanvasSize, avatarCanvasSize)
  dc.SetColor(bg)
  dc.Clear()
  dc.SetFontFace(as.fontFace)
  dc.SetRGB(1, 1, 1)
  dc.DrawStringAnchored(initials, float64(avatarCanvasSize)/2, float64(avatarCanvasSize)/2, 0.5, 0.5)

  resized := imaging.Resize(dc.Image(), avatarFinalSize, avatarFinalSize, imaging.Lanczos)
  if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
    as.log.Warn("Failed to encode avatar PNG", "error", err)
    return buf, fmt.Errorf("Failed encoding avatar PNG: %w", err)
  }
  return buf, nil
}

func userInitials(user *types.User) string {
  var initials strings.Builder
  if user.FirstName != "" {
    initials.WriteString(strings.ToUpper(user.FirstName[:1]))
  }
  if user.LastName != "" {
    initials.WriteString(strings.ToUpper(user.LastName[:1]))
  }
  if initials.Len() == 0 {
    initials.WriteString("S")
  }
  return initials.String()
}
