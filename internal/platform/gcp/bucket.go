package gcp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

type BucketCategory string

const (
	// BucketRaw receives browser uploads.
	BucketRaw BucketCategory = "raw"
	// BucketProcessed holds originals and thumbnails written by the resize function.
	BucketProcessed BucketCategory = "processed"
)

// URLSigner issues time-limited object URLs for the image buckets.
type URLSigner interface {
	SignedGetURL(ctx context.Context, category BucketCategory, key string, ttl time.Duration) (string, error)
	// SignedPutURL signs an upload. The caller must send contentType and
	// every meta entry as x-goog-meta-<name> headers.
	SignedPutURL(ctx context.Context, category BucketCategory, key, contentType string, meta map[string]string, ttl time.Duration) (string, error)
	BucketName(category BucketCategory) string
}

type BucketConfig struct {
	RawBucket       string
	ProcessedBucket string
	Credentials     string
	// PublicBaseURL switches to unsigned URLs under this base, for the
	// storage emulator and local runs.
	PublicBaseURL string
}

type bucketService struct {
	log           *logger.Logger
	client        *storage.Client
	raw           string
	processed     string
	publicBaseURL string
}

func NewURLSigner(ctx context.Context, log *logger.Logger, cfg BucketConfig) (URLSigner, error) {
	serviceLog := log.With("service", "BucketService")
	if strings.TrimSpace(cfg.RawBucket) == "" {
		return nil, fmt.Errorf("missing env var RAW_GCS_BUCKET_NAME")
	}
	if strings.TrimSpace(cfg.ProcessedBucket) == "" {
		return nil, fmt.Errorf("missing env var PROCESSED_GCS_BUCKET_NAME")
	}
	bs := &bucketService{
		log:           serviceLog,
		raw:           strings.TrimSpace(cfg.RawBucket),
		processed:     strings.TrimSpace(cfg.ProcessedBucket),
		publicBaseURL: strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/"),
	}
	if bs.publicBaseURL == "" {
		opts := append(ClientOptions(cfg.Credentials), option.WithScopes(storage.ScopeReadWrite))
		client, err := storage.NewClient(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		bs.client = client
	}
	serviceLog.Info(
		"Object storage initialized",
		"raw_bucket", bs.raw,
		"processed_bucket", bs.processed,
		"public_base_url", bs.publicBaseURL,
	)
	return bs, nil
}

func (bs *bucketService) BucketName(category BucketCategory) string {
	switch category {
	case BucketRaw:
		return bs.raw
	case BucketProcessed:
		return bs.processed
	default:
		return ""
	}
}

func (bs *bucketService) bucket(category BucketCategory) (string, error) {
	name := bs.BucketName(category)
	if name == "" {
		return "", fmt.Errorf("unknown bucket category %q", category)
	}
	return name, nil
}

func (bs *bucketService) SignedGetURL(ctx context.Context, category BucketCategory, key string, ttl time.Duration) (string, error) {
	name, err := bs.bucket(category)
	if err != nil {
		return "", err
	}
	key = cleanKey(key)
	if key == "" {
		return "", fmt.Errorf("object key required")
	}
	if bs.client == nil {
		return bs.publicURL(name, key), nil
	}
	return bs.client.Bucket(name).SignedURL(key, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
	})
}

func (bs *bucketService) SignedPutURL(ctx context.Context, category BucketCategory, key, contentType string, meta map[string]string, ttl time.Duration) (string, error) {
	name, err := bs.bucket(category)
	if err != nil {
		return "", err
	}
	key = cleanKey(key)
	if key == "" {
		return "", fmt.Errorf("object key required")
	}
	if bs.client == nil {
		return bs.publicURL(name, key), nil
	}
	return bs.client.Bucket(name).SignedURL(key, &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      http.MethodPut,
		ContentType: contentType,
		Headers:     MetadataHeaders(meta),
		Expires:     time.Now().Add(ttl),
	})
}

func (bs *bucketService) publicURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", bs.publicBaseURL, bucket, escapeKey(key))
}

// MetadataHeaders renders custom object metadata as signed header lines,
// sorted for a stable signature.
func MetadataHeaders(meta map[string]string) []string {
	if len(meta) == 0 {
		return nil
	}
	out := make([]string, 0, len(meta))
	for k, v := range meta {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		out = append(out, "x-goog-meta-"+k+":"+strings.TrimSpace(v))
	}
	sort.Strings(out)
	return out
}

func cleanKey(key string) string {
	return strings.TrimLeft(strings.TrimSpace(key), "/")
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
