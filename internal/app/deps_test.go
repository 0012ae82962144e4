package app

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/golfcloud/backend/internal/config"
)

type fakePool struct{}

func (fakePool) Acquire(context.Context) (*pgxpool.Conn, error) {
	return nil, errors.New("not implemented")
}

func (fakePool) Close() {}

func TestBuildDependencies(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.ObjectStore.Bucket = "test-bucket"
	cfg.ObjectStore.Endpoint = "http://localhost:9000"
	cfg.ObjectStore.Region = "us-east-1"

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	deps, err := buildDependencies(context.Background(), fakePool{}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if deps.Uploads == nil {
		t.Fatal("expected upload credential issuer to be configured")
	}
	if deps.Objects == nil {
		t.Fatal("expected object store to be configured")
	}
	if deps.Signer == nil {
		t.Fatal("expected read url signer to be configured")
	}
	if deps.Videos == nil {
		t.Fatal("expected video repository to be configured")
	}
	if deps.Grants == nil {
		t.Fatal("expected grant repository to be configured")
	}
	if deps.Sessions == nil {
		t.Fatal("expected session reader to be configured")
	}
	if deps.Limiter == nil {
		t.Fatal("expected rate limiter to be configured")
	}
}

func TestBuildDependenciesRequiresBucket(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.ObjectStore.Bucket = ""

	if _, err := buildDependencies(context.Background(), fakePool{}, cfg); err == nil {
		t.Fatal("expected error when bucket is missing")
	}
}
