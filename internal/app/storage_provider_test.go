package app

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/petlabel-backend/internal/platform/gcp"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

func bootstrapCode(t *testing.T, err error) StorageProviderBootstrapErrorCode {
	t.Helper()
	var got *StorageProviderBootstrapError
	if !errors.As(err, &got) {
		t.Fatalf("expected StorageProviderBootstrapError, got=%T (%v)", err, err)
	}
	return got.Code
}

func TestResolveURLSignerModes(t *testing.T) {
	log := logger.Nop()
	ctx := context.Background()

	signer, err := resolveURLSigner(ctx, log, Config{ObjectStorageMode: "disabled"})
	if err != nil || signer != nil {
		t.Fatalf("disabled: signer=%v err=%v", signer, err)
	}

	_, err = resolveURLSigner(ctx, log, Config{ObjectStorageMode: "s3"})
	if code := bootstrapCode(t, err); code != StorageProviderBootstrapErrorInvalidMode {
		t.Fatalf("invalid mode: want=%q got=%q", StorageProviderBootstrapErrorInvalidMode, code)
	}

	_, err = resolveURLSigner(ctx, log, Config{ObjectStorageMode: "public", RawBucket: "raw", ProcessedBucket: "proc"})
	if code := bootstrapCode(t, err); code != StorageProviderBootstrapErrorMissingPublicBase {
		t.Fatalf("public without base: got=%q", code)
	}

	_, err = resolveURLSigner(ctx, log, Config{ObjectStorageMode: "gcs", RawBucket: "raw"})
	if code := bootstrapCode(t, err); code != StorageProviderBootstrapErrorMissingBucket {
		t.Fatalf("missing bucket: got=%q", code)
	}

	signer, err = resolveURLSigner(ctx, log, Config{
		ObjectStorageMode:    "public",
		RawBucket:            "raw",
		ProcessedBucket:      "proc",
		StoragePublicBaseURL: "http://localhost:4443",
	})
	if err != nil || signer == nil || signer.BucketName(gcp.BucketRaw) != "raw" {
		t.Fatalf("public mode: signer=%v err=%v", signer, err)
	}
}

func TestResolveURLSignerConnectFailure(t *testing.T) {
	prev := newURLSigner
	t.Cleanup(func() { newURLSigner = prev })
	newURLSigner = func(context.Context, *logger.Logger, gcp.BucketConfig) (gcp.URLSigner, error) {
		return nil, errors.New("dial failed")
	}

	_, err := resolveURLSigner(context.Background(), logger.Nop(), Config{ObjectStorageMode: "gcs", RawBucket: "raw", ProcessedBucket: "proc"})
	if code := bootstrapCode(t, err); code != StorageProviderBootstrapErrorConnectFailed {
		t.Fatalf("connect failure: got=%q", code)
	}
}

func TestDefaultStorageMode(t *testing.T) {
	if got := defaultStorageMode(Config{}); got != "disabled" {
		t.Fatalf("no buckets: want=disabled got=%s", got)
	}
	if got := defaultStorageMode(Config{RawBucket: "r", ProcessedBucket: "p"}); got != "gcs" {
		t.Fatalf("buckets: want=gcs got=%s", got)
	}
	if got := defaultStorageMode(Config{RawBucket: "r", StoragePublicBaseURL: "http://x"}); got != "public" {
		t.Fatalf("public base: want=public got=%s", got)
	}
}
