package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/internal/repository"
	"github.com/theline-social/theline/pkg/apperr"
	"github.com/theline-social/theline/pkg/logger"
)

// Pusher delivers realtime events to a user's live sessions. Implemented by
// the websocket hub; a no-op implementation is fine in tests.
type Pusher interface {
	Push(userID uint, event string, payload any)
	IsOnline(userID uint) bool
}

type NotificationService interface {
	// Notify persists the notification and pushes it to the recipient's live
	// sessions. Push failures never propagate; unresolved sender/recipient do.
	Notify(ctx context.Context, senderID, recipientID uint, typ model.NotificationType, meta map[string]any) error
	// Enqueue is the fire-and-forget variant used for side effects of other
	// operations: never blocks, drops with a warning when the queue is full.
	Enqueue(senderID, recipientID uint, typ model.NotificationType, meta map[string]any)

	Page(ctx context.Context, recipientID uint, page, limit int) ([]model.Notification, error)
	UnseenCount(ctx context.Context, recipientID uint) (int64, error)
	MarkAllSeen(ctx context.Context, recipientID uint) error

	// Start launches the dispatch workers and the retention sweeper and
	// returns a stop function.
	Start(workers int) func(context.Context) error
}

type notificationJob struct {
	senderID    uint
	recipientID uint
	typ         model.NotificationType
	meta        map[string]any
}

type notificationService struct {
	repo          repository.NotificationRepository
	users         repository.UserRepository
	pusher        Pusher
	ch            chan notificationJob
	retentionDays int
	sweepEvery    time.Duration
}

func NewNotificationService(
	repo repository.NotificationRepository,
	users repository.UserRepository,
	pusher Pusher,
	queueSize, retentionDays int,
) NotificationService {
	if queueSize <= 0 {
		queueSize = 10000
	}
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &notificationService{
		repo:          repo,
		users:         users,
		pusher:        pusher,
		ch:            make(chan notificationJob, queueSize),
		retentionDays: retentionDays,
		sweepEvery:    time.Hour,
	}
}

func (s *notificationService) Notify(ctx context.Context, senderID, recipientID uint, typ model.NotificationType, meta map[string]any) error {
	if senderID == recipientID {
		return nil
	}
	for _, id := range []uint{senderID, recipientID} {
		ok, err := s.users.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.New(apperr.NotFound, "user not found")
		}
	}
	n := &model.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        typ,
		Meta:        encodeMeta(meta),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	if s.pusher != nil && s.pusher.IsOnline(recipientID) {
		s.pusher.Push(recipientID, "notification", n)
	}
	return nil
}

func (s *notificationService) Enqueue(senderID, recipientID uint, typ model.NotificationType, meta map[string]any) {
	if senderID == recipientID {
		return
	}
	select {
	case s.ch <- notificationJob{senderID: senderID, recipientID: recipientID, typ: typ, meta: meta}:
	default:
		logger.Warn("notification queue full, drop",
			zap.Uint("sender", senderID),
			zap.Uint("recipient", recipientID),
			zap.String("type", string(typ)))
	}
}

func (s *notificationService) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case job := <-s.ch:
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					if err := s.Notify(ctx, job.senderID, job.recipientID, job.typ, job.meta); err != nil {
						logger.Warn("notification dispatch failed",
							zap.Uint("recipient", job.recipientID),
							zap.Error(err))
					}
					cancel()
				case <-stopCh:
					return
				}
			}
		}()
	}
	go s.sweepLoop(stopCh)
	return func(ctx context.Context) error {
		close(stopCh)
		timeout := time.After(2 * time.Second)
		for {
			select {
			case <-timeout:
				return nil
			default:
				if len(s.ch) == 0 {
					return nil
				}
				time.Sleep(50 * time.Millisecond)
			}
		}
	}
}

// sweepLoop enforces retention: seen notifications older than the window are
// deleted on a fixed cadence.
func (s *notificationService) sweepLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(s.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			deleted, err := s.repo.DeleteSeenBefore(ctx, cutoff)
			cancel()
			if err != nil {
				logger.Warn("notification sweep failed", zap.Error(err))
				continue
			}
			if deleted > 0 {
				logger.Info("notification sweep", zap.Int64("deleted", deleted))
			}
		}
	}
}

func (s *notificationService) Page(ctx context.Context, recipientID uint, page, limit int) ([]model.Notification, error) {
	page, limit = clampPage(page, limit)
	return s.repo.Page(ctx, recipientID, (page-1)*limit, limit)
}

func (s *notificationService) UnseenCount(ctx context.Context, recipientID uint) (int64, error) {
	return s.repo.UnseenCount(ctx, recipientID)
}

func (s *notificationService) MarkAllSeen(ctx context.Context, recipientID uint) error {
	return s.repo.MarkAllSeen(ctx, recipientID)
}

func encodeMeta(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	return string(b)
}

// clampPage normalizes pagination input: page >= 1, limit in [1, 100].
func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
