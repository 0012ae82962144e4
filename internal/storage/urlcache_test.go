package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type countingSigner struct {
	calls int
	err   error
}

func (s *countingSigner) SignedReadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return fmt.Sprintf("https://signed.example.com/%s?n=%d", key, s.calls), nil
}

func TestCachingSignerReusesFreshURL(t *testing.T) {
	base := &countingSigner{}
	signer := NewCachingSigner(base)

	first, err := signer.SignedReadURL(context.Background(), "videos/1-a.mp4", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := signer.SignedReadURL(context.Background(), "videos/1-a.mp4", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if base.calls != 1 {
		t.Fatalf("expected one upstream call, got %d", base.calls)
	}
	if first != second {
		t.Fatalf("expected cached URL, got %q then %q", first, second)
	}
}

func TestCachingSignerKeysAreIndependent(t *testing.T) {
	base := &countingSigner{}
	signer := NewCachingSigner(base)

	if _, err := signer.SignedReadURL(context.Background(), "videos/1-a.mp4", time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := signer.SignedReadURL(context.Background(), "videos/2-b.mp4", time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if base.calls != 2 {
		t.Fatalf("expected one upstream call per key, got %d", base.calls)
	}
}

func TestCachingSignerRefreshesExpiredEntry(t *testing.T) {
	base := &countingSigner{}
	signer := NewCachingSigner(base)

	// A zero ttl expires immediately, so the second call must re-sign.
	if _, err := signer.SignedReadURL(context.Background(), "videos/1-a.mp4", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := signer.SignedReadURL(context.Background(), "videos/1-a.mp4", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if base.calls != 2 {
		t.Fatalf("expected expired entry to re-sign, got %d calls", base.calls)
	}
}

func TestCachingSignerDoesNotCacheErrors(t *testing.T) {
	base := &countingSigner{err: errors.New("sign failed")}
	signer := NewCachingSigner(base)

	if _, err := signer.SignedReadURL(context.Background(), "videos/1-a.mp4", time.Hour); err == nil {
		t.Fatal("expected error")
	}

	base.err = nil
	url, err := signer.SignedReadURL(context.Background(), "videos/1-a.mp4", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url == "" {
		t.Fatal("expected URL after upstream recovery")
	}
}
