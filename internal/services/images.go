package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/petlabel-backend/internal/data/repos"
	types "github.com/yungbote/petlabel-backend/internal/domain"
	"github.com/yungbote/petlabel-backend/internal/observability"
	"github.com/yungbote/petlabel-backend/internal/platform/apierr"
	"github.com/yungbote/petlabel-backend/internal/platform/ctxutil"
	"github.com/yungbote/petlabel-backend/internal/platform/dbctx"
	"github.com/yungbote/petlabel-backend/internal/platform/gcp"
	"github.com/yungbote/petlabel-backend/internal/platform/identity"
	"github.com/yungbote/petlabel-backend/internal/platform/logger"
)

const (
	MsgImagesFailed    = "Error retrieving images"
	MsgUploadURLFailed = "Error generating upload URL"
	MsgImageProcessing = "Error processing image"

	defaultImageLimit = 10
	maxImageLimit     = 100
	uploadPrefix      = "uploads/"
	systemUploader    = "system"
	anonymousUserID   = "anonymous"
	anonymousUserName = "Anonymous"
)

var errStorageDisabled = errors.New("object storage not configured")

type ImageQuery struct {
	Status     string
	Limit      int
	UploadedBy string
}

// ImageView is a catalog entry with time-limited object URLs.
type ImageView struct {
	types.Image
	ThumbnailURL string `json:"thumbnailUrl"`
	OriginalURL  string `json:"originalUrl"`
}

type UploadTicket struct {
	UploadURL string `json:"uploadUrl"`
	ImageID   string `json:"imageId"`
	Key       string `json:"key"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
}

// StorageEvent is what the upload pipeline reports after processing an object.
type StorageEvent struct {
	Bucket      string            `json:"bucket"`
	Key         string            `json:"key"`
	ContentType string            `json:"contentType"`
	Size        int64             `json:"size"`
	Format      string            `json:"format"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Metadata    map[string]string `json:"metadata"`
}

type RegisteredImage struct {
	Message      string `json:"message"`
	ImageID      string `json:"imageId"`
	ThumbnailKey string `json:"thumbnailKey"`
	OriginalSize string `json:"originalSize,omitempty"`
}

type ImageConfig struct {
	ViewURLTTL   time.Duration
	UploadURLTTL time.Duration
}

type ImageService interface {
	List(ctx context.Context, q ImageQuery) ([]ImageView, error)
	UploadURL(ctx context.Context, caller *identity.Identity, filename string) (*UploadTicket, error)
	RegisterUpload(ctx context.Context, ev StorageEvent) (*RegisteredImage, error)
}

type imageService struct {
	log       *logger.Logger
	imageRepo repos.ImageRepo
	signer    gcp.URLSigner
	notifier  Notifier
	metrics   *observability.Metrics
	cfg       ImageConfig
	now       func() time.Time
	intN      func(int) int
}

func NewImageService(log *logger.Logger, imageRepo repos.ImageRepo, signer gcp.URLSigner, notifier Notifier, metrics *observability.Metrics, cfg ImageConfig) ImageService {
	if cfg.ViewURLTTL <= 0 {
		cfg.ViewURLTTL = time.Hour
	}
	if cfg.UploadURLTTL <= 0 {
		cfg.UploadURLTTL = 5 * time.Minute
	}
	return &imageService{
		log:       log.With("service", "ImageService"),
		imageRepo: imageRepo,
		signer:    signer,
		notifier:  notifier,
		metrics:   metrics,
		cfg:       cfg,
		now:       time.Now,
		intN:      rand.IntN,
	}
}

func (s *imageService) List(ctx context.Context, q ImageQuery) ([]ImageView, error) {
	status := types.StatusUnlabeled
	if raw := strings.TrimSpace(q.Status); raw != "" {
		status = types.LabelStatus(raw)
		if !status.Valid() {
			return nil, apierr.Validation("Invalid status. Must be labeled or unlabeled.")
		}
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultImageLimit
	}
	if limit > maxImageLimit {
		limit = maxImageLimit
	}

	rows, err := s.imageRepo.ListByStatus(dbctx.Context{Ctx: ctx}, status, strings.TrimSpace(q.UploadedBy), limit)
	if err != nil {
		s.log.Error("list images failed", append(ctxutil.LogFields(ctx), "status", status, "error", err)...)
		return nil, apierr.Dependency(MsgImagesFailed, err)
	}

	out := make([]ImageView, 0, len(rows))
	for _, img := range rows {
		if img == nil {
			continue
		}
		v := ImageView{Image: *img}
		v.UploadedBy = orDefault(v.UploadedBy, unknownUserID)
		v.UploadedByName = orDefault(v.UploadedByName, unknownUserName)
		if s.signer != nil {
			if v.ThumbnailKey != "" {
				if v.ThumbnailURL, err = s.signer.SignedGetURL(ctx, gcp.BucketProcessed, v.ThumbnailKey, s.cfg.ViewURLTTL); err != nil {
					return nil, apierr.Dependency(MsgImagesFailed, fmt.Errorf("sign thumbnail %s: %w", v.ImageID, err))
				}
			}
			if v.OriginalKey != "" {
				if v.OriginalURL, err = s.signer.SignedGetURL(ctx, gcp.BucketRaw, v.OriginalKey, s.cfg.ViewURLTTL); err != nil {
					return nil, apierr.Dependency(MsgImagesFailed, fmt.Errorf("sign original %s: %w", v.ImageID, err))
				}
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *imageService) UploadURL(ctx context.Context, caller *identity.Identity, filename string) (*UploadTicket, error) {
	if s.signer == nil {
		return nil, apierr.Dependency(MsgUploadURLFailed, errStorageDisabled)
	}
	nowMs := s.now().UnixMilli()
	filename = path.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == "/" {
		filename = "upload-" + strconv.FormatInt(nowMs, 10) + ".jpg"
	}

	userID, userName := anonymousUserID, anonymousUserName
	if caller != nil {
		userID = orDefault(caller.Sub, anonymousUserID)
		userName = orDefault(caller.DisplayName(), anonymousUserName)
	}

	imageID := "img-" + strconv.FormatInt(nowMs, 10) + "-" + strconv.Itoa(s.intN(1000000))
	key := uploadPrefix + imageID + "/" + filename
	url, err := s.signer.SignedPutURL(ctx, gcp.BucketRaw, key, "image/*", map[string]string{
		"user-id":   userID,
		"user-name": userName,
	}, s.cfg.UploadURLTTL)
	if err != nil {
		s.log.Error("sign upload url failed", append(ctxutil.LogFields(ctx), "key", key, "error", err)...)
		return nil, apierr.Dependency(MsgUploadURLFailed, err)
	}
	return &UploadTicket{UploadURL: url, ImageID: imageID, Key: key, UserID: userID, UserName: userName}, nil
}

func (s *imageService) RegisterUpload(ctx context.Context, ev StorageEvent) (*RegisteredImage, error) {
	key := strings.TrimLeft(strings.TrimSpace(ev.Key), "/")
	if key == "" || strings.HasSuffix(key, "/") {
		return nil, apierr.Validation("Missing required field: key")
	}

	imageID, thumbKey := ImageKeys(key)
	meta := datatypes.JSONMap{}
	if ev.Format != "" {
		meta["format"] = ev.Format
	}
	if ev.Width > 0 {
		meta["width"] = ev.Width
	}
	if ev.Height > 0 {
		meta["height"] = ev.Height
	}
	if ev.Size > 0 {
		meta["size"] = ev.Size
	}
	contentType := orDefault(ev.ContentType, "image/jpeg")

	img := &types.Image{
		ImageID:        imageID,
		OriginalKey:    key,
		ThumbnailKey:   thumbKey,
		ContentType:    contentType,
		UploadedBy:     orDefault(ev.Metadata["user-id"], systemUploader),
		UploadedByName: strings.TrimSpace(ev.Metadata["user-name"]),
		UploadedAt:     s.now().UTC(),
		Metadata:       meta,
	}
	if err := s.imageRepo.Register(dbctx.Context{Ctx: ctx}, img); err != nil {
		s.log.Error("register image failed", append(ctxutil.LogFields(ctx), "image_id", imageID, "error", err)...)
		s.alert(ctx, "ImageProcessingError", err.Error())
		return nil, apierr.Dependency(MsgImageProcessing, err)
	}

	s.metrics.IncImagesRegistered()
	s.metrics.ObserveImageSize(ev.Size)
	if s.notifier != nil {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
		defer cancel()
		if err := s.notifier.ImageProcessed(pctx, imageID, map[string]any(meta)); err != nil {
			s.metrics.IncNotificationFailure("image-uploads")
			s.log.Warn("image processed notification failed", "image_id", imageID, "error", err)
		}
	}

	out := &RegisteredImage{Message: "Image processed successfully", ImageID: imageID, ThumbnailKey: thumbKey}
	if ev.Width > 0 && ev.Height > 0 {
		out.OriginalSize = fmt.Sprintf("%dx%d", ev.Width, ev.Height)
	}
	return out, nil
}

func (s *imageService) alert(ctx context.Context, errorType, details string) {
	if s.notifier == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.notifier.SystemAlert(pctx, errorType, details, SeverityHigh); err != nil {
		s.metrics.IncNotificationFailure("system-alerts")
		s.log.Warn("system alert publish failed", "error", err)
	}
}

// ImageKeys derives the image id and thumbnail key from an uploaded object key.
// Keys under uploads/<id>/ take the folder id; anything else uses the base
// name up to its first dot.
func ImageKeys(key string) (imageID, thumbnailKey string) {
	folder, base := "", key
	if i := strings.LastIndexByte(key, '/'); i >= 0 {
		folder, base = key[:i+1], key[i+1:]
	}
	thumbnailKey = folder + "thumbnails/" + base

	if strings.HasPrefix(folder, uploadPrefix) {
		rest := strings.TrimSuffix(strings.TrimPrefix(folder, uploadPrefix), "/")
		if rest != "" && !strings.Contains(rest, "/") {
			return rest, thumbnailKey
		}
	}
	imageID = base
	if i := strings.IndexByte(base, '.'); i >= 0 {
		imageID = base[:i]
	}
	if imageID == "" {
		imageID = base
	}
	return imageID, thumbnailKey
}
