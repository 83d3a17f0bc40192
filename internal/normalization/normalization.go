package normalization

import (
  "strings"
)

func ParseInputString(s string) string {
  return strings.TrimSpace(s)
}

func ParseInputStringPtr(s *string) *string {
  if s == nil {
    return nil
  }
  trimmed := strings.TrimSpace(*s)
  return &trimmed
}

func ParseEmail(s string) string {
  return strings.ToLower(strings.TrimSpace(s))
}
