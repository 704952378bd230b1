package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yungbote/petlabel-backend/internal/data/repos"
	types "github.com/yungbote/petlabel-backend/internal/domain"
	"github.com/yungbote/petlabel-backend/internal/observability"
	"github.com/yungbote/petlabel-backend/internal/platform/apierr"
	"github.com/yungbote/petlabel-backend/internal/platform/ctxutil"
	"github.com/yungbote/petlabel-backend/internal/platform/dbctx"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
	"github.com/yungbote/petlabel-backend/internal/platform/timeago"
)

const (
	ActivityUpload = "upload"
	ActivityLabel  = "label"

	MsgActivityFailed = "Failed to fetch activity"

	unknownUserName = "Unknown User"
	unknownUserID   = "unknown"
	displayIDMax    = 20
	displayIDKeep   = 17
)

// GroupingMode selects how raw label rows fold into feed entries.
type GroupingMode int

const (
	// GroupByImageAndUser gives one entry per (image, labeler) pair.
	GroupByImageAndUser GroupingMode = iota
	// GroupByImage gives one entry per image.
	GroupByImage
)

type ActivityEntry struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	ImageID     string `json:"imageId"`
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	Timestamp   int64  `json:"timestamp"`
	TimeAgo     string `json:"timeAgo"`
	LabelCount  int    `json:"labelCount,omitempty"`
}

type ActivityConfig struct {
	UploadLimit int
	LabelLimit  int
	FeedLimit   int
}

func (c ActivityConfig) withDefaults() ActivityConfig {
	if c.UploadLimit <= 0 {
		c.UploadLimit = 10
	}
	if c.LabelLimit <= 0 {
		c.LabelLimit = 50
	}
	if c.FeedLimit <= 0 {
		c.FeedLimit = 10
	}
	return c
}

type ActivityService interface {
	SystemFeed(ctx context.Context) ([]ActivityEntry, error)
	UserFeed(ctx context.Context, userID string) ([]ActivityEntry, error)
}

type activityService struct {
	log       *logger.Logger
	imageRepo repos.ImageRepo
	labelRepo repos.LabelRepo
	metrics   *observability.Metrics
	cfg       ActivityConfig
	now       func() time.Time
}

func NewActivityService(log *logger.Logger, imageRepo repos.ImageRepo, labelRepo repos.LabelRepo, metrics *observability.Metrics, cfg ActivityConfig) ActivityService {
	return &activityService{
		log:       log.With("service", "ActivityService"),
		imageRepo: imageRepo,
		labelRepo: labelRepo,
		metrics:   metrics,
		cfg:       cfg.withDefaults(),
		now:       time.Now,
	}
}

func (s *activityService) SystemFeed(ctx context.Context) ([]ActivityEntry, error) {
	dbc := dbctx.Context{Ctx: ctx}
	uploads, err := s.imageRepo.ListRecentUploads(dbc, s.cfg.UploadLimit)
	if err != nil {
		s.log.Error("list recent uploads failed", append(ctxutil.LogFields(ctx), "error", err)...)
		return nil, apierr.Dependency(MsgActivityFailed, err)
	}
	labels := s.labelSource(ctx, "system", func() ([]*types.Label, error) {
		return s.labelRepo.ListRecent(dbc, s.cfg.LabelLimit)
	})
	return buildFeed(s.now(), uploads, labels.Value, GroupByImageAndUser, s.cfg.FeedLimit), nil
}

func (s *activityService) UserFeed(ctx context.Context, userID string) ([]ActivityEntry, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apierr.Validation("Missing required parameter: userId")
	}
	dbc := dbctx.Context{Ctx: ctx}
	uploads, err := s.imageRepo.ListRecentUploadsByUser(dbc, userID, s.cfg.UploadLimit)
	if err != nil {
		s.log.Error("list user uploads failed", append(ctxutil.LogFields(ctx), "user_id", userID, "error", err)...)
		return nil, apierr.Dependency(MsgActivityFailed, err)
	}
	labels := s.labelSource(ctx, "user", func() ([]*types.Label, error) {
		return s.labelRepo.ListByLabeler(dbc, userID, s.cfg.LabelLimit)
	})
	return buildFeed(s.now(), uploads, labels.Value, GroupByImage, s.cfg.FeedLimit), nil
}

// labelSource never fails the feed: a broken label query yields no label entries.
func (s *activityService) labelSource(ctx context.Context, feed string, q func() ([]*types.Label, error)) sourceResult[[]*types.Label] {
	res := fromQuery(q())
	if res.Outcome == sourceEmpty {
		s.metrics.IncAggregationFallback("activity_labels")
		s.log.Warn("label query failed, continuing with uploads only",
			append(ctxutil.LogFields(ctx), "feed", feed, "error", res.Err)...)
	}
	return res
}

type labelGroup struct {
	imageID  string
	userID   string
	userName string
	count    int
	latest   time.Time
}

// buildFeed merges uploads and grouped label rows, newest first, capped at limit.
// Uploads precede label groups before sorting so equal timestamps keep that order.
func buildFeed(now time.Time, uploads []*types.Image, labels []*types.Label, mode GroupingMode, limit int) []ActivityEntry {
	entries := make([]ActivityEntry, 0, len(uploads)+len(labels))
	for _, img := range uploads {
		if img == nil {
			continue
		}
		ts := img.UploadedAt
		if ts.IsZero() {
			ts = now
		}
		entries = append(entries, ActivityEntry{
			Type:        ActivityUpload,
			Description: "Uploaded an image",
			ImageID:     img.ImageID,
			UserID:      orDefault(img.UploadedBy, unknownUserID),
			UserName:    orDefault(img.UploadedByName, unknownUserName),
			Timestamp:   ts.UnixMilli(),
		})
	}

	for _, g := range groupLabels(labels, mode) {
		entries = append(entries, ActivityEntry{
			Type:        ActivityLabel,
			Description: fmt.Sprintf("Added %d %s to %s", g.count, pluralLabel(g.count), DisplayImageID(g.imageID)),
			ImageID:     g.imageID,
			UserID:      orDefault(g.userID, unknownUserID),
			UserName:    orDefault(g.userName, unknownUserName),
			Timestamp:   g.latest.UnixMilli(),
			LabelCount:  g.count,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	nowMs := now.UnixMilli()
	for i := range entries {
		entries[i].TimeAgo = timeago.FormatMillis(nowMs, entries[i].Timestamp)
	}
	return entries
}

// groupLabels folds rows in first-seen order. Each group's time is its newest row.
func groupLabels(labels []*types.Label, mode GroupingMode) []*labelGroup {
	index := make(map[string]*labelGroup)
	var order []*labelGroup
	for _, l := range labels {
		if l == nil {
			continue
		}
		key := l.ImageID
		if mode == GroupByImageAndUser {
			key = l.ImageID + "\x00" + l.LabeledBy
		}
		g, ok := index[key]
		if !ok {
			g = &labelGroup{
				imageID:  l.ImageID,
				userID:   l.LabeledBy,
				userName: l.LabeledByName,
				latest:   l.LabeledAt,
			}
			index[key] = g
			order = append(order, g)
		}
		g.count++
		if l.LabeledAt.After(g.latest) {
			g.latest = l.LabeledAt
		}
	}
	return order
}

// DisplayImageID shortens an image id for feed text.
func DisplayImageID(imageID string) string {
	id := imageID
	if i := strings.IndexByte(id, '.'); i >= 0 {
		id = id[:i]
	}
	if len(id) > displayIDMax {
		id = id[:displayIDKeep] + "..."
	}
	return id
}

func pluralLabel(n int) string {
	if n == 1 {
		return "label"
	}
	return "labels"
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
