package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/petlabel-backend/internal/data/repos"
	types "github.com/yungbote/petlabel-backend/internal/domain"
	"github.com/yungbote/petlabel-backend/internal/observability"
	"github.com/yungbote/petlabel-backend/internal/platform/apierr"
	"github.com/yungbote/petlabel-backend/internal/platform/ctxutil"
	"github.com/yungbote/petlabel-backend/internal/platform/dbctx"
	"github.com/yungbote/petlabel-backend/internal/platform/identity"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

const (
	MsgLabelsSubmitted   = "Labels submitted successfully"
	MsgNotLabeler        = "You are not authorized to label images"
	MsgInvalidParameters = "Invalid request parameters"
	MsgLabelFields       = "Each label requires a type and value"
	MsgSubmitFailed      = "Error submitting labels"

	defaultWriteFanout = 8
)

// SubmitLabelsInput is a decoded submission. A nil Labels slice means the
// field was absent; an empty one is an accepted no-op.
type SubmitLabelsInput struct {
	ImageID string
	Labels  []types.LabelInput
}

type SubmitResult struct {
	Message  string   `json:"message"`
	LabelIDs []string `json:"-"`
}

type LabelSubmissionConfig struct {
	// Atomic writes label rows and the status stamp in one transaction.
	Atomic       bool
	WriteTimeout time.Duration
	Fanout       int
}

type LabelSubmissionService interface {
	Submit(ctx context.Context, caller *identity.Identity, in SubmitLabelsInput) (*SubmitResult, error)
}

type labelSubmissionService struct {
	db        *gorm.DB
	log       *logger.Logger
	labelRepo repos.LabelRepo
	imageRepo repos.ImageRepo
	observer  SubmissionObserver
	ids       *LabelIDGenerator
	cfg       LabelSubmissionConfig
	now       func() time.Time
}

func NewLabelSubmissionService(
	db *gorm.DB,
	log *logger.Logger,
	labelRepo repos.LabelRepo,
	imageRepo repos.ImageRepo,
	observer SubmissionObserver,
	ids *LabelIDGenerator,
	cfg LabelSubmissionConfig,
) LabelSubmissionService {
	if observer == nil {
		observer = NoopObserver{}
	}
	if ids == nil {
		ids = NewLabelIDGenerator()
	}
	if cfg.Fanout <= 0 {
		cfg.Fanout = defaultWriteFanout
	}
	return &labelSubmissionService{
		db:        db,
		log:       log.With("service", "LabelSubmissionService"),
		labelRepo: labelRepo,
		imageRepo: imageRepo,
		observer:  observer,
		ids:       ids,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *labelSubmissionService) Submit(ctx context.Context, caller *identity.Identity, in SubmitLabelsInput) (*SubmitResult, error) {
	// Non-labelers are refused before the payload is looked at.
	if !identity.IsLabeler(caller) {
		return nil, apierr.Forbidden(MsgNotLabeler)
	}

	imageID := strings.TrimSpace(in.ImageID)
	if imageID == "" || in.Labels == nil {
		return nil, apierr.Validation(MsgInvalidParameters)
	}
	for _, l := range in.Labels {
		if strings.TrimSpace(l.Type) == "" || strings.TrimSpace(l.Value) == "" {
			return nil, apierr.Validation(MsgLabelFields)
		}
	}
	if len(in.Labels) == 0 {
		return &SubmitResult{Message: MsgLabelsSubmitted}, nil
	}

	ctx, span := observability.Tracer().Start(ctx, "labels.submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("image.id", imageID),
		attribute.Int("labels.count", len(in.Labels)),
		attribute.Bool("labels.atomic", s.cfg.Atomic),
	)

	if s.cfg.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.WriteTimeout)
		defer cancel()
	}

	at := s.now().UTC()
	labels := s.buildLabels(caller, imageID, in.Labels, at)
	mark := types.StatusMark{
		ImageID:           imageID,
		LastLabeledAt:     at,
		LastLabeledBy:     caller.Sub,
		LastLabeledByName: caller.Name,
	}

	var err error
	if s.cfg.Atomic && s.db != nil {
		err = s.writeAtomic(ctx, labels, mark)
	} else {
		err = s.writeTwoPhase(ctx, labels, mark)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "label submission failed")
		s.log.Error("label submission failed",
			append(ctxutil.LogFields(ctx), "image_id", imageID, "labeled_by", caller.Sub, "error", err)...)
		s.observer.SubmissionFailed(ctx, imageID, err)
		return nil, apierr.Dependency(MsgSubmitFailed, err)
	}

	s.observer.LabelsSubmitted(ctx, SubmissionEvent{
		ImageID:       imageID,
		Labels:        labels,
		LabeledBy:     caller.Sub,
		LabeledByName: caller.Name,
		At:            at,
	})

	ids := make([]string, 0, len(labels))
	for _, l := range labels {
		ids = append(ids, l.LabelID)
	}
	return &SubmitResult{Message: MsgLabelsSubmitted, LabelIDs: ids}, nil
}

func (s *labelSubmissionService) buildLabels(caller *identity.Identity, imageID string, in []types.LabelInput, at time.Time) []*types.Label {
	ids := s.ids.Batch(len(in), at)
	out := make([]*types.Label, 0, len(in))
	for i, l := range in {
		conf := types.DefaultConfidence
		if l.Confidence != nil && *l.Confidence != 0 {
			conf = *l.Confidence
		}
		out = append(out, &types.Label{
			LabelID:       ids[i],
			ImageID:       imageID,
			LabelType:     strings.TrimSpace(l.Type),
			LabelValue:    strings.TrimSpace(l.Value),
			Confidence:    conf,
			LabeledBy:     caller.Sub,
			LabeledByName: caller.Name,
			LabeledAt:     at,
		})
	}
	return out
}

// writeTwoPhase persists every label concurrently, then stamps the image.
// A failure after some label writes leaves those rows behind with the image
// still unlabeled.
func (s *labelSubmissionService) writeTwoPhase(ctx context.Context, labels []*types.Label, mark types.StatusMark) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Fanout)
	for _, l := range labels {
		l := l
		g.Go(func() error {
			if err := s.labelRepo.Create(dbctx.Context{Ctx: gctx}, l); err != nil {
				return fmt.Errorf("write label %s: %w", l.LabelID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := s.imageRepo.MarkLabeled(dbctx.Context{Ctx: ctx}, mark); err != nil {
		return fmt.Errorf("mark image labeled: %w", err)
	}
	return nil
}

func (s *labelSubmissionService) writeAtomic(ctx context.Context, labels []*types.Label, mark types.StatusMark) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.labelRepo.CreateBatch(dbc, labels); err != nil {
			return fmt.Errorf("write labels: %w", err)
		}
		if err := s.imageRepo.MarkLabeled(dbc, mark); err != nil {
			return fmt.Errorf("mark image labeled: %w", err)
		}
		return nil
	})
}
