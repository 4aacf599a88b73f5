package handler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
	"github.com/erp/fulfillment-sync/internal/infrastructure/logger"
	"github.com/erp/fulfillment-sync/internal/infrastructure/provider"
	"github.com/erp/fulfillment-sync/internal/infrastructure/telemetry"
	"github.com/erp/fulfillment-sync/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Webhook topics, used as metric and span labels
const (
	TopicOrderStatus = "order_status"
	TopicInventory   = "inventory"
)

// Delivery results reported to metrics
const (
	deliveryProcessed = "processed"
	deliveryDuplicate = "duplicate"
	deliveryRejected  = "rejected"
	deliveryInvalid   = "invalid"
	deliveryChallenge = "challenge"
	deliveryFailed    = "failed"
	deliveryDeferred  = "deferred"
)

// OrderStatusUpdater reconciles provider status changes into the catalog
type OrderStatusUpdater interface {
	UpdateOrderStatus(ctx context.Context, update fulfillment.StatusUpdate) error
}

// StockApplier overwrites catalog stock levels
type StockApplier interface {
	ApplyStockSnapshot(ctx context.Context, snapshot fulfillment.StockSnapshot) error
}

// WebhookHandler receives the fulfillment provider webhooks.
// These endpoints are called by the provider and authenticated by an HMAC
// signature of the raw body instead of a user session.
type WebhookHandler struct {
	BaseHandler
	secret     string
	orders     OrderStatusUpdater
	stock      StockApplier
	deliveries fulfillment.IdempotencyStore
	dedupTTL   time.Duration
	metrics    *telemetry.SyncMetrics
	logger     *zap.Logger
}

// WebhookHandlerOption is a functional option for configuring the handler
type WebhookHandlerOption func(*WebhookHandler)

// WithDeliveryStore enables de-duplication of redelivered payloads
func WithDeliveryStore(store fulfillment.IdempotencyStore, ttl time.Duration) WebhookHandlerOption {
	return func(h *WebhookHandler) {
		h.deliveries = store
		h.dedupTTL = ttl
	}
}

// WithWebhookMetrics sets the metrics collector
func WithWebhookMetrics(metrics *telemetry.SyncMetrics) WebhookHandlerOption {
	return func(h *WebhookHandler) {
		h.metrics = metrics
	}
}

// WithWebhookLogger sets the logger
func WithWebhookLogger(logger *zap.Logger) WebhookHandlerOption {
	return func(h *WebhookHandler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(secret string, orders OrderStatusUpdater, stock StockApplier, opts ...WebhookHandlerOption) *WebhookHandler {
	h := &WebhookHandler{
		secret: secret,
		orders: orders,
		stock:  stock,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleOrderStatus godoc
//
//	@Summary	Receive an order status update from the fulfillment provider
//	@Tags		webhooks
//	@Accept		json
//	@Produce	json
//	@Param		x-bigblue-hmac-sha256	header	string	true	"base64 HMAC-SHA256 of the raw body"
//	@Success	200
//	@Failure	400	{object}	dto.Response
//	@Failure	401	{object}	dto.Response
//	@Router		/webhooks/order-status [post]
func (h *WebhookHandler) HandleOrderStatus(c *gin.Context) {
	h.handle(c, TopicOrderStatus, func(ctx context.Context, body []byte) (int, error) {
		var notification fulfillment.StatusUpdateNotification
		if err := binding.JSON.BindBody(body, &notification); err != nil {
			return http.StatusBadRequest, err
		}
		// Acknowledged even when reconciliation fails, but left unmarked so a
		// redelivery is processed again.
		if err := h.orders.UpdateOrderStatus(ctx, notification.OrderStatus); err != nil {
			return http.StatusOK, err
		}
		return http.StatusOK, nil
	})
}

// HandleInventory godoc
//
//	@Summary	Receive an inventory snapshot from the fulfillment provider
//	@Tags		webhooks
//	@Accept		json
//	@Produce	json
//	@Param		x-bigblue-hmac-sha256	header	string	true	"base64 HMAC-SHA256 of the raw body"
//	@Success	200
//	@Failure	400	{object}	dto.Response
//	@Failure	401	{object}	dto.Response
//	@Failure	502	{object}	dto.Response
//	@Router		/webhooks/inventory [post]
func (h *WebhookHandler) HandleInventory(c *gin.Context) {
	h.handle(c, TopicInventory, func(ctx context.Context, body []byte) (int, error) {
		var notification fulfillment.InventoryUpdateNotification
		if err := binding.JSON.BindBody(body, &notification); err != nil {
			return http.StatusBadRequest, err
		}
		if err := h.stock.ApplyStockSnapshot(ctx, notification.Snapshot()); err != nil {
			return http.StatusBadGateway, err
		}
		return http.StatusOK, nil
	})
}

// handle runs the steps shared by every webhook: body read, signature check,
// URL verification challenge, delivery de-duplication and acknowledgement.
// process returns the status to answer with and, on failure, the cause. A
// failure paired with 200 is acknowledged without marking the delivery.
func (h *WebhookHandler) handle(c *gin.Context, topic string, process func(ctx context.Context, body []byte) (int, error)) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "webhook."+topic,
		telemetry.WithSpanKind(trace.SpanKindConsumer),
		telemetry.WithAttribute(telemetry.SpanAttrWebhookTopic, topic),
	)
	defer span.End()

	log := logger.FromContextOr(ctx, h.logger).With(zap.String("topic", topic))

	body, err := c.GetRawData()
	if err != nil {
		h.record(ctx, topic, deliveryInvalid)
		h.BindingError(c, err)
		return
	}

	signature := c.GetHeader(provider.HeaderSignature)
	if signature == "" {
		log.Warn("Webhook signature header missing")
		h.record(ctx, topic, deliveryRejected)
		h.Unauthorized(c, "Webhook signature missing")
		return
	}
	if len(body) == 0 {
		h.record(ctx, topic, deliveryInvalid)
		h.BadRequest(c, "Request body is empty")
		return
	}
	if err := provider.VerifySignature(h.secret, body, signature); err != nil {
		log.Warn("Webhook signature mismatch")
		h.record(ctx, topic, deliveryRejected)
		h.Unauthorized(c, "Webhook signature mismatch")
		return
	}

	if c.GetHeader(provider.HeaderEventType) == provider.EventTypeURLVerification {
		var challenge dto.ChallengeRequest
		if err := binding.JSON.BindBody(body, &challenge); err != nil {
			h.record(ctx, topic, deliveryInvalid)
			h.BindingError(c, err)
			return
		}
		log.Info("Webhook URL verification received")
		h.record(ctx, topic, deliveryChallenge)
		c.JSON(http.StatusOK, dto.ChallengeResponse{Challenge: challenge.Challenge})
		return
	}

	deliveryKey := deliveryKey(topic, body)
	ctx, log = logger.WithDeliveryID(ctx, log, deliveryKey)
	if h.alreadyProcessed(ctx, log, deliveryKey) {
		log.Info("Duplicate webhook delivery acknowledged")
		telemetry.AddEvent(span, "duplicate_delivery")
		h.record(ctx, topic, deliveryDuplicate)
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	status, err := process(ctx, body)
	if err != nil {
		switch status {
		case http.StatusBadRequest:
			log.Warn("Invalid webhook payload", zap.Error(err))
			h.record(ctx, topic, deliveryInvalid)
			h.BindingError(c, err)
			return
		case http.StatusOK:
			log.Warn("Webhook delivery acknowledged without reconciliation", zap.Error(err))
			telemetry.AddEvent(span, "reconciliation_deferred")
			h.record(ctx, topic, deliveryDeferred)
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		log.Error("Failed to process webhook delivery", zap.Error(err))
		telemetry.RecordError(span, err)
		h.record(ctx, topic, deliveryFailed)
		h.HandleError(c, err)
		return
	}

	h.markProcessed(ctx, log, deliveryKey)
	h.record(ctx, topic, deliveryProcessed)
	c.JSON(http.StatusOK, gin.H{})
}

// alreadyProcessed reports whether the delivery was handled before. Store
// failures are logged and treated as a first delivery.
func (h *WebhookHandler) alreadyProcessed(ctx context.Context, log *zap.Logger, key string) bool {
	if h.deliveries == nil {
		return false
	}
	seen, err := h.deliveries.IsProcessed(ctx, key)
	if err != nil {
		log.Warn("Delivery store lookup failed, processing delivery", zap.Error(err))
		return false
	}
	return seen
}

// markProcessed remembers a successfully handled delivery. Marking happens
// after processing so that a failed delivery can be retried by the provider;
// concurrent duplicates may both be processed, which is harmless because
// status overlays and stock snapshots are absolute overwrites.
func (h *WebhookHandler) markProcessed(ctx context.Context, log *zap.Logger, key string) {
	if h.deliveries == nil {
		return
	}
	if _, err := h.deliveries.MarkProcessed(ctx, key, h.dedupTTL); err != nil {
		log.Warn("Failed to mark delivery as processed", zap.Error(err))
	}
}

func (h *WebhookHandler) record(ctx context.Context, topic, result string) {
	if h.metrics != nil {
		h.metrics.RecordWebhookDelivery(ctx, topic, result)
	}
}

// deliveryKey identifies a delivery by topic and body digest
func deliveryKey(topic string, body []byte) string {
	sum := sha256.Sum256(body)
	return topic + ":" + hex.EncodeToString(sum[:])
}
