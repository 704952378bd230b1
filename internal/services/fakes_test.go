package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	types "github.com/yungbote/petlabel-backend/internal/domain"
	"github.com/yungbote/petlabel-backend/internal/platform/dbctx"
	"github.com/yungbote/petlabel-backend/internal/platform/gcp"
	"github.com/yungbote/petlabel-backend/internal/platform/identity"
	"github.com/yungbote/petlabel-backend/internal/platform/redis"
)

var errBoom = errors.New("boom")

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func labeler() *identity.Identity {
	return &identity.Identity{Sub: "u-lab", Name: "Lena", Email: "lena@example.com", Groups: []string{identity.GroupLabelers}}
}

func admin() *identity.Identity {
	return &identity.Identity{Sub: "u-admin", Name: "Ada", Groups: []string{identity.GroupAdmins}}
}

func viewer() *identity.Identity {
	return &identity.Identity{Sub: "u-view", Name: "Vic", Groups: []string{identity.GroupViewers}}
}

type fakeLabelRepo struct {
	mu        sync.Mutex
	created   []*types.Label
	createErr error
	failOn    int // 1-based Create call that fails; 0 disables
	calls     int

	recent    []*types.Label
	recentErr error
	byLabeler map[string][]*types.Label
	byErr     error
	imageIDs  []string
	idsErr    error
	counts    []types.TypeValueCount
	countsErr error
}

func (f *fakeLabelRepo) Create(_ dbctx.Context, l *types.Label) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.createErr != nil {
		return f.createErr
	}
	if f.failOn > 0 && f.calls == f.failOn {
		return errBoom
	}
	f.created = append(f.created, l)
	return nil
}

func (f *fakeLabelRepo) CreateBatch(dbc dbctx.Context, ls []*types.Label) error {
	for _, l := range ls {
		if err := f.Create(dbc, l); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeLabelRepo) ListByImage(_ dbctx.Context, imageID string) ([]*types.Label, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Label
	for _, l := range f.created {
		if l.ImageID == imageID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLabelRepo) ListRecent(_ dbctx.Context, limit int) ([]*types.Label, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	return capLabels(f.recent, limit), nil
}

func (f *fakeLabelRepo) ListByLabeler(_ dbctx.Context, by string, limit int) ([]*types.Label, error) {
	if f.byErr != nil {
		return nil, f.byErr
	}
	return capLabels(f.byLabeler[by], limit), nil
}

func (f *fakeLabelRepo) ImageIDsByLabeler(dbctx.Context, string) ([]string, error) {
	return f.imageIDs, f.idsErr
}

func (f *fakeLabelRepo) TypeValueCounts(dbctx.Context) ([]types.TypeValueCount, error) {
	return f.counts, f.countsErr
}

func (f *fakeLabelRepo) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func capLabels(in []*types.Label, limit int) []*types.Label {
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}

type fakeImageRepo struct {
	mu          sync.Mutex
	images      map[string]*types.Image
	marks       []types.StatusMark
	markErr     error
	registerErr error

	uploads    []*types.Image
	uploadsErr error
	byUser     map[string][]*types.Image
	countUp    int64
	countUpErr error
	total      int64
	labeled    int64
	countErr   error
	listed     struct {
		status types.LabelStatus
		by     string
		limit  int
	}
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: map[string]*types.Image{}}
}

func (f *fakeImageRepo) Get(_ dbctx.Context, id string) (*types.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.images[id], nil
}

func (f *fakeImageRepo) Register(_ dbctx.Context, img *types.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registerErr != nil {
		return f.registerErr
	}
	if prev, ok := f.images[img.ImageID]; ok {
		img.LabelStatus = prev.LabelStatus
	} else if img.LabelStatus == "" {
		img.LabelStatus = types.StatusUnlabeled
	}
	f.images[img.ImageID] = img
	return nil
}

func (f *fakeImageRepo) MarkLabeled(_ dbctx.Context, m types.StatusMark) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	f.marks = append(f.marks, m)
	img, ok := f.images[m.ImageID]
	if !ok {
		img = &types.Image{ImageID: m.ImageID}
		f.images[m.ImageID] = img
	}
	at := m.LastLabeledAt
	img.LabelStatus = types.StatusLabeled
	img.LastLabeledAt = &at
	img.LastLabeledBy = m.LastLabeledBy
	img.LastLabeledByName = m.LastLabeledByName
	return nil
}

func (f *fakeImageRepo) ListRecentUploads(_ dbctx.Context, limit int) ([]*types.Image, error) {
	if f.uploadsErr != nil {
		return nil, f.uploadsErr
	}
	return capImages(f.uploads, limit), nil
}

func (f *fakeImageRepo) ListRecentUploadsByUser(_ dbctx.Context, by string, limit int) ([]*types.Image, error) {
	if f.uploadsErr != nil {
		return nil, f.uploadsErr
	}
	return capImages(f.byUser[by], limit), nil
}

func (f *fakeImageRepo) ListByStatus(_ dbctx.Context, status types.LabelStatus, by string, limit int) ([]*types.Image, error) {
	f.listed.status, f.listed.by, f.listed.limit = status, by, limit
	if f.uploadsErr != nil {
		return nil, f.uploadsErr
	}
	var out []*types.Image
	for _, img := range f.uploads {
		if img.LabelStatus == status && (by == "" || img.UploadedBy == by) {
			out = append(out, img)
		}
	}
	return capImages(out, limit), nil
}

func (f *fakeImageRepo) CountByUploader(dbctx.Context, string) (int64, error) {
	return f.countUp, f.countUpErr
}

func (f *fakeImageRepo) CountAll(dbctx.Context) (int64, error) {
	return f.total, f.countErr
}

func (f *fakeImageRepo) CountByStatus(dbctx.Context, types.LabelStatus) (int64, error) {
	return f.labeled, f.countErr
}

func capImages(in []*types.Image, limit int) []*types.Image {
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}

type recordingObserver struct {
	mu        sync.Mutex
	submitted []SubmissionEvent
	failed    []string
}

func (o *recordingObserver) LabelsSubmitted(_ context.Context, ev SubmissionEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.submitted = append(o.submitted, ev)
}

func (o *recordingObserver) SubmissionFailed(_ context.Context, imageID string, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed = append(o.failed, imageID)
}

type fakeBus struct {
	mu   sync.Mutex
	sent []redis.Notification
	err  error
}

func (b *fakeBus) Publish(_ context.Context, n redis.Notification) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.sent = append(b.sent, n)
	return nil
}

func (b *fakeBus) Close() error { return nil }

func (b *fakeBus) topics() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.sent))
	for _, n := range b.sent {
		out = append(out, n.Topic)
	}
	sort.Strings(out)
	return out
}

type signedCall struct {
	category gcp.BucketCategory
	key      string
	ttl      time.Duration
	meta     map[string]string
}

type fakeSigner struct {
	gets []signedCall
	puts []signedCall
	err  error
}

func (s *fakeSigner) SignedGetURL(_ context.Context, cat gcp.BucketCategory, key string, ttl time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.gets = append(s.gets, signedCall{category: cat, key: key, ttl: ttl})
	return "https://signed/" + string(cat) + "/" + key, nil
}

func (s *fakeSigner) SignedPutURL(_ context.Context, cat gcp.BucketCategory, key, _ string, meta map[string]string, ttl time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.puts = append(s.puts, signedCall{category: cat, key: key, ttl: ttl, meta: meta})
	return "https://upload/" + key, nil
}

func (s *fakeSigner) BucketName(cat gcp.BucketCategory) string { return string(cat) + "-bucket" }
