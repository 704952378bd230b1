package services

import (
	"context"
	"fmt"

	"github.com/yungbote/petlabel-backend/internal/data/repos"
	types "github.com/yungbote/petlabel-backend/internal/domain"
	"github.com/yungbote/petlabel-backend/internal/platform/apierr"
	"github.com/yungbote/petlabel-backend/internal/platform/ctxutil"
	"github.com/yungbote/petlabel-backend/internal/platform/dbctx"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

const MsgMetricsFailed = "Error generating metrics"

type LabelTypeBucket struct {
	Total  int64            `json:"total"`
	Values map[string]int64 `json:"values"`
}

type DashboardMetrics struct {
	TotalImages           int64                       `json:"totalImages"`
	LabeledImages         int64                       `json:"labeledImages"`
	UnlabeledImages       int64                       `json:"unlabeledImages"`
	CompletionPercentage  string                      `json:"completionPercentage"`
	LabelTypeDistribution map[string]*LabelTypeBucket `json:"labelTypeDistribution"`
	RecentActivity        []ActivityEntry             `json:"recentActivity"`
}

type DashboardService interface {
	Metrics(ctx context.Context) (*DashboardMetrics, error)
}

type dashboardService struct {
	log       *logger.Logger
	imageRepo repos.ImageRepo
	labelRepo repos.LabelRepo
	activity  ActivityService
}

func NewDashboardService(log *logger.Logger, imageRepo repos.ImageRepo, labelRepo repos.LabelRepo, activity ActivityService) DashboardService {
	return &dashboardService{
		log:       log.With("service", "DashboardService"),
		imageRepo: imageRepo,
		labelRepo: labelRepo,
		activity:  activity,
	}
}

func (s *dashboardService) Metrics(ctx context.Context) (*DashboardMetrics, error) {
	dbc := dbctx.Context{Ctx: ctx}
	fail := func(what string, err error) (*DashboardMetrics, error) {
		s.log.Error("dashboard "+what+" failed", append(ctxutil.LogFields(ctx), "error", err)...)
		return nil, apierr.Dependency(MsgMetricsFailed, err)
	}

	total, err := s.imageRepo.CountAll(dbc)
	if err != nil {
		return fail("image count", err)
	}
	labeled, err := s.imageRepo.CountByStatus(dbc, types.StatusLabeled)
	if err != nil {
		return fail("labeled count", err)
	}
	counts, err := s.labelRepo.TypeValueCounts(dbc)
	if err != nil {
		return fail("label distribution", err)
	}

	out := &DashboardMetrics{
		TotalImages:           total,
		LabeledImages:         labeled,
		UnlabeledImages:       total - labeled,
		CompletionPercentage:  completion(labeled, total),
		LabelTypeDistribution: distribution(counts),
		RecentActivity:        []ActivityEntry{},
	}

	if s.activity != nil {
		feed, ferr := s.activity.SystemFeed(ctx)
		if ferr != nil {
			s.log.Warn("dashboard recent activity unavailable", append(ctxutil.LogFields(ctx), "error", ferr)...)
		} else if feed != nil {
			out.RecentActivity = feed
		}
	}
	return out, nil
}

func completion(labeled, total int64) string {
	if total <= 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(labeled)/float64(total)*100)
}

func distribution(rows []types.TypeValueCount) map[string]*LabelTypeBucket {
	out := make(map[string]*LabelTypeBucket)
	for _, r := range rows {
		b, ok := out[r.LabelType]
		if !ok {
			b = &LabelTypeBucket{Values: make(map[string]int64)}
			out[r.LabelType] = b
		}
		b.Total += r.Count
		b.Values[r.LabelValue] += r.Count
	}
	return out
}
