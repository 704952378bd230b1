package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/petlabel-backend/internal/platform/gcp"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

var newURLSigner = gcp.NewURLSigner

type StorageMode string

const (
	StorageModeGCS      StorageMode = "gcs"
	StorageModePublic   StorageMode = "public"
	StorageModeDisabled StorageMode = "disabled"
)

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode       StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingBucket     StorageProviderBootstrapErrorCode = "missing_bucket"
	StorageProviderBootstrapErrorMissingPublicBase StorageProviderBootstrapErrorCode = "missing_public_base_url"
	StorageProviderBootstrapErrorConnectFailed     StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code  StorageProviderBootstrapErrorCode
	Mode  string
	Cause error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf("object storage bootstrap failed (code=%s mode=%q): %v", e.Code, e.Mode, e.Cause)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveURLSigner returns a nil signer in disabled mode; image listing then
// fails with a dependency error instead of the process refusing to start.
func resolveURLSigner(ctx context.Context, log *logger.Logger, cfg Config) (gcp.URLSigner, error) {
	mode := StorageMode(strings.ToLower(strings.TrimSpace(cfg.ObjectStorageMode)))
	bucketCfg := gcp.BucketConfig{
		RawBucket:       cfg.RawBucket,
		ProcessedBucket: cfg.ProcessedBucket,
		Credentials:     cfg.GCSCredentialsFile,
	}

	fail := func(code StorageProviderBootstrapErrorCode, cause error) error {
		err := &StorageProviderBootstrapError{Code: code, Mode: string(mode), Cause: cause}
		log.Error("Object storage provider bootstrap failed", "mode", mode, "error_code", code, "error", cause)
		return err
	}

	switch mode {
	case StorageModeDisabled:
		log.Warn("Object storage disabled; image URLs are unavailable")
		return nil, nil
	case StorageModeGCS:
	case StorageModePublic:
		bucketCfg.PublicBaseURL = strings.TrimSpace(cfg.StoragePublicBaseURL)
		if bucketCfg.PublicBaseURL == "" {
			return nil, fail(StorageProviderBootstrapErrorMissingPublicBase, errors.New("STORAGE_PUBLIC_BASE_URL is required in public mode"))
		}
	default:
		return nil, fail(StorageProviderBootstrapErrorInvalidMode, fmt.Errorf("unsupported object storage mode %q", mode))
	}
	if strings.TrimSpace(bucketCfg.RawBucket) == "" || strings.TrimSpace(bucketCfg.ProcessedBucket) == "" {
		return nil, fail(StorageProviderBootstrapErrorMissingBucket, errors.New("RAW_GCS_BUCKET_NAME and PROCESSED_GCS_BUCKET_NAME are required"))
	}

	log.Info("Selecting object storage provider", "mode", mode)
	signer, err := newURLSigner(ctx, log, bucketCfg)
	if err != nil {
		return nil, fail(StorageProviderBootstrapErrorConnectFailed, err)
	}
	return signer, nil
}
