package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"labstock-backend/internal/metrics"
	"labstock-backend/internal/model"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool fans low-stock alerts out to subscribed browsers. It
// satisfies store.LowStockDispatcher.
type WorkerPool struct {
	size    int
	jobs    chan int64
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan int64, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case stockID := <-wp.jobs:
			log.Printf("Worker %d processing stock record %d", id, stockID)
			wp.alertForStock(ctx, stockID)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a low-stock alert for a stock record.
func (wp *WorkerPool) Dispatch(stockID int64) {
	wp.jobs <- stockID
}

// alertForStock fetches the subscriptions watching a stock record and
// pushes a low-stock message to each of them.
func (wp *WorkerPool) alertForStock(ctx context.Context, stockID int64) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_stock_mapping ssm ON ssm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("ssm.stock_record_id = ?", stockID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for stock record %d: %v", stockID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d low-stock alerts for stock record %d", len(subscriptions), stockID)

	var rec model.StockRecord
	if err := wp.db.WithContext(ctx).First(&rec, stockID).Error; err != nil {
		log.Printf("Error fetching stock record %d: %v", stockID, err)
		return
	}

	label := fmt.Sprintf("stock record %d", stockID)
	var eq model.Equipment
	if err := wp.db.WithContext(ctx).
		Select("name").
		First(&eq, rec.EquipmentID).Error; err != nil {
		log.Printf("Error fetching equipment %d: %v", rec.EquipmentID, err)
	} else if eq.Name != "" {
		label = eq.Name
	}

	message := fmt.Sprintf("Low stock: %s in lab %d has %d remaining", label, rec.LabID, rec.RemainingQuantity)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		metrics.PushSendFailures.Inc()
		return
	}
	defer resp.Body.Close()

	// Expired subscriptions are dropped on the spot.
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
