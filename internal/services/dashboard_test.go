package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	types "github.com/yungbote/petlabel-backend/internal/domain"
	"github.com/yungbote/petlabel-backend/internal/platform/apierr"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

func TestDashboardMetrics(t *testing.T) {
	ir := newFakeImageRepo()
	ir.total, ir.labeled = 3, 1
	ir.uploads = []*types.Image{upload("img1", "alice", t0.Add(-time.Hour))}
	lr := &fakeLabelRepo{counts: []types.TypeValueCount{
		{LabelType: "breed", LabelValue: "Beagle", Count: 2},
		{LabelType: "breed", LabelValue: "Poodle", Count: 1},
		{LabelType: "age", LabelValue: "Adult", Count: 4},
	}}
	activity := newActivity(ir, lr)

	out, err := NewDashboardService(logger.Nop(), ir, lr, activity).Metrics(context.Background())
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if out.TotalImages != 3 || out.LabeledImages != 1 || out.UnlabeledImages != 2 {
		t.Fatalf("counts: got=%+v", out)
	}
	if out.CompletionPercentage != "33.33" {
		t.Fatalf("completion: want=33.33 got=%s", out.CompletionPercentage)
	}
	breed := out.LabelTypeDistribution["breed"]
	if breed == nil || breed.Total != 3 || breed.Values["Beagle"] != 2 || breed.Values["Poodle"] != 1 {
		t.Fatalf("breed bucket: got=%+v", breed)
	}
	if out.LabelTypeDistribution["age"].Total != 4 {
		t.Fatalf("age bucket: got=%+v", out.LabelTypeDistribution["age"])
	}
	if len(out.RecentActivity) != 1 {
		t.Fatalf("recent activity: got=%d", len(out.RecentActivity))
	}
}

func TestDashboardEmptyAndFailures(t *testing.T) {
	ir := newFakeImageRepo()
	ir.uploadsErr = errBoom
	lr := &fakeLabelRepo{}
	s := NewDashboardService(logger.Nop(), ir, lr, newActivity(ir, lr))

	out, err := s.Metrics(context.Background())
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if out.CompletionPercentage != "0.00" || out.RecentActivity == nil || len(out.RecentActivity) != 0 {
		t.Fatalf("empty dashboard: got=%+v", out)
	}

	ir.countErr = errBoom
	_, err = s.Metrics(context.Background())
	if ae, ok := apierr.As(err); !ok || ae.Status != http.StatusInternalServerError || ae.Message != MsgMetricsFailed {
		t.Fatalf("count failure: got=%v", err)
	}
}
