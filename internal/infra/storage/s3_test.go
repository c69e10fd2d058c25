package storage

import (
	"strings"
	"testing"
)

func TestNewS3Store_DisabledWithoutBucket(t *testing.T) {
	s := NewS3Store(Options{})
	if s != nil {
		t.Fatalf("expected nil store")
	}
	if _, err := s.Put(t.Context(), "k", "image/png", strings.NewReader("x")); err != ErrDisabled {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if err := s.Delete(t.Context(), "k"); err != ErrDisabled {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestS3Store_URL(t *testing.T) {
	s := NewS3Store(Options{Bucket: "courts", Region: "auto", PublicBaseURL: "https://cdn.example.com/"})
	if got := s.URL("complexes/1/a.png"); got != "https://cdn.example.com/complexes/1/a.png" {
		t.Fatalf("url = %s", got)
	}

	s = NewS3Store(Options{Bucket: "courts", Region: "ap-southeast-1"})
	if got := s.URL("x.jpg"); got != "https://courts.s3.ap-southeast-1.amazonaws.com/x.jpg" {
		t.Fatalf("url = %s", got)
	}
}

func TestImageKey(t *testing.T) {
	a := ImageKey(7, "Front View.JPG")
	b := ImageKey(7, "Front View.JPG")

	if a == b {
		t.Fatalf("keys must be unique")
	}
	if !strings.HasPrefix(a, "complexes/7/") || !strings.HasSuffix(a, ".jpg") {
		t.Fatalf("key = %s", a)
	}
}
