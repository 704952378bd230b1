package services

import (
	"context"
	"strings"

	"github.com/yungbote/petlabel-backend/internal/data/repos"
	"github.com/yungbote/petlabel-backend/internal/observability"
	"github.com/yungbote/petlabel-backend/internal/platform/apierr"
	"github.com/yungbote/petlabel-backend/internal/platform/ctxutil"
	"github.com/yungbote/petlabel-backend/internal/platform/dbctx"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

type UserStatistics struct {
	ImagesUploaded int64 `json:"imagesUploaded"`
	ImagesLabeled  int64 `json:"imagesLabeled"`
}

type StatisticsService interface {
	// ForUser never fails on a datastore error; the broken dimension reads 0.
	ForUser(ctx context.Context, userID string) (*UserStatistics, error)
}

type statisticsService struct {
	log       *logger.Logger
	imageRepo repos.ImageRepo
	labelRepo repos.LabelRepo
	metrics   *observability.Metrics
}

func NewStatisticsService(log *logger.Logger, imageRepo repos.ImageRepo, labelRepo repos.LabelRepo, metrics *observability.Metrics) StatisticsService {
	return &statisticsService{
		log:       log.With("service", "StatisticsService"),
		imageRepo: imageRepo,
		labelRepo: labelRepo,
		metrics:   metrics,
	}
}

func (s *statisticsService) ForUser(ctx context.Context, userID string) (*UserStatistics, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apierr.Validation("Missing required parameter: userId")
	}
	dbc := dbctx.Context{Ctx: ctx}

	uploaded := fromQuery(s.imageRepo.CountByUploader(dbc, userID))
	if uploaded.Outcome == sourceEmpty {
		s.metrics.IncAggregationFallback("statistics_uploads")
		s.log.Warn("upload count failed", append(ctxutil.LogFields(ctx), "user_id", userID, "error", uploaded.Err)...)
	}

	labeled := fromQuery(s.labelRepo.ImageIDsByLabeler(dbc, userID))
	if labeled.Outcome == sourceEmpty {
		s.metrics.IncAggregationFallback("statistics_labels")
		s.log.Warn("labeled image query failed", append(ctxutil.LogFields(ctx), "user_id", userID, "error", labeled.Err)...)
	}

	return &UserStatistics{
		ImagesUploaded: uploaded.Value,
		ImagesLabeled:  int64(countDistinct(labeled.Value)),
	}, nil
}

func countDistinct(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
