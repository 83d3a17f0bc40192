package normalization

import "testing"

func TestParseInputString(t *testing.T) {
  if got := ParseInputString("  Biology 101  "); got != "Biology 101" {
    t.Fatalf("ParseInputString = %q", got)
  }
}

func TestParseInputStringPtr(t *testing.T) {
  if got := ParseInputStringPtr(nil); got != nil {
    t.Fatalf("ParseInputStringPtr(nil) = %v, want nil", got)
  }
  in := "  notes  "
  got := ParseInputStringPtr(&in)
  if got == nil || *got != "notes" {
    t.Fatalf("ParseInputStringPtr = %v", got)
  }
}

func TestParseEmail(t *testing.T) {
  if got := ParseEmail("  Ada@StudyHall.App "); got != "ada@studyhall.app" {
    t.Fatalf("ParseEmail = %q", got)
  }
}
