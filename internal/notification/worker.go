package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/sirupsen/logrus"

	"campus-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Source is the storage the pool reads notifications and subscriptions from.
type Source interface {
	GetNotification(ctx context.Context, id int64) (*model.Notification, error)
	ListSubscriptionsForUser(ctx context.Context, userID int64) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, userID int64, endpoint string) error
}

// Payload is the JSON body delivered to the browser.
type Payload struct {
	NotificationID int64     `json:"notificationId"`
	Type           string    `json:"type"`
	Message        string    `json:"message"`
	SentAt         time.Time `json:"sentAt"`
}

// WorkerPool delivers stored notifications to the target user's push
// subscriptions in the background.
type WorkerPool struct {
	size    int
	jobs    chan int64
	source  Source
	webpush *webpush.Options
	sender  NotificationSender
	log     *logrus.Logger
	wg      sync.WaitGroup
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, source Source, webpushOptions *webpush.Options, log *logrus.Logger) *WorkerPool {
	if size < 1 {
		size = 1
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int64, size*16),
		source:  source,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		log:     log,
	}
}

// Start launches the worker goroutines. They stop when ctx is cancelled.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Wait blocks until every worker has returned.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	log := wp.log.WithField("worker", id)
	log.Debug("push worker started")
	for {
		select {
		case notificationID := <-wp.jobs:
			wp.deliver(ctx, notificationID)
		case <-ctx.Done():
			log.Debug("push worker shutting down")
			return
		}
	}
}

// Dispatch queues a notification for delivery. It never blocks the caller:
// when the queue is full the job is dropped and false is returned.
func (wp *WorkerPool) Dispatch(notificationID int64) bool {
	select {
	case wp.jobs <- notificationID:
		return true
	default:
		wp.log.WithField("notification_id", notificationID).Warn("push queue full, dropping delivery")
		return false
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan int64 {
	return wp.jobs
}

// deliver sends one notification to every subscription of its user.
func (wp *WorkerPool) deliver(ctx context.Context, notificationID int64) {
	log := wp.log.WithField("notification_id", notificationID)

	n, err := wp.source.GetNotification(ctx, notificationID)
	if err != nil {
		log.WithError(err).Warn("push delivery skipped: notification not loaded")
		return
	}

	subscriptions, err := wp.source.ListSubscriptionsForUser(ctx, n.UserID)
	if err != nil {
		log.WithError(err).Error("failed to fetch push subscriptions")
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(Payload{
		NotificationID: n.ID,
		Type:           n.Type,
		Message:        n.Message,
		SentAt:         n.SentAt,
	})
	if err != nil {
		log.WithError(err).Error("failed to encode push payload")
		return
	}

	log.WithField("subscriptions", len(subscriptions)).Debug("sending push notifications")
	for _, sub := range subscriptions {
		wp.send(ctx, sub, payload)
	}
}

// send sends a single web push notification.
func (wp *WorkerPool) send(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	log := wp.log.WithField("endpoint", sub.Endpoint)
	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.WithError(err).Warn("push send failed")
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
		log.Info("push subscription expired, deleting")
		if err := wp.source.DeleteSubscription(ctx, sub.UserID, sub.Endpoint); err != nil {
			log.WithError(err).Warn("failed to delete expired subscription")
		}
	}
}
