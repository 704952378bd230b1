package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func TestNewWiresSQLiteApp(t *testing.T) {
	t.Setenv("LOG_MODE", "development")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "petlabel.db"))
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("RAW_GCS_BUCKET_NAME", "")
	t.Setenv("PROCESSED_GCS_BUCKET_NAME", "")
	t.Setenv("OBJECT_STORAGE_MODE", "")
	t.Setenv("OTEL_ENABLED", "false")

	a, err := New(context.Background())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)
	a.Start()

	if a.Clients.Signer != nil {
		t.Fatalf("signer should be disabled without buckets")
	}

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthcheck: want=200 got=%d", rec.Code)
	}

	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ACTIVITY_FEED_LIMIT", "")
	t.Setenv("RAW_GCS_BUCKET_NAME", "raw")
	t.Setenv("PROCESSED_GCS_BUCKET_NAME", "proc")
	t.Setenv("OBJECT_STORAGE_MODE", "")
	t.Setenv("STORAGE_PUBLIC_BASE_URL", "")

	cfg := LoadConfig(nil)
	if cfg.ActivityFeedLimit != 10 || cfg.ActivityLabelLimit != 50 || cfg.ActivityUploadLimit != 10 {
		t.Fatalf("activity limits: got=%d/%d/%d", cfg.ActivityUploadLimit, cfg.ActivityLabelLimit, cfg.ActivityFeedLimit)
	}
	if cfg.ObjectStorageMode != string(StorageModeGCS) {
		t.Fatalf("storage mode: want=gcs got=%s", cfg.ObjectStorageMode)
	}
}
