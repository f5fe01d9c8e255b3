package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopfront/internal/i18n"
	"github.com/shopfront/internal/logger"
	"github.com/shopfront/internal/provider"
	"github.com/shopfront/internal/queue"
	"github.com/shopfront/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderConfirmationEmail, c.handleOrderConfirmationEmail)
	mux.HandleFunc(queue.TaskProductIndexSync, c.handleProductIndexSync)
}

func (c *Consumer) handleOrderConfirmationEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderConfirmationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_email_unmarshal_failed", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.EmailService == nil || !c.EmailService.Enabled() {
		logger.Debugw("worker_order_email_skip_disabled", "order_id", payload.OrderID)
		return nil
	}

	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_email_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_email_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	user, err := c.UserRepo.GetByID(order.UserID)
	if err != nil {
		logger.Warnw("worker_order_email_fetch_user_failed", "order_id", order.ID, "user_id", order.UserID, "error", err)
		return err
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		logger.Debugw("worker_order_email_skip_no_recipient", "order_id", order.ID, "user_id", order.UserID)
		return nil
	}

	locale := i18n.DefaultLocale
	if c.Config != nil && strings.TrimSpace(c.Config.Email.Locale) != "" {
		locale = c.Config.Email.Locale
	}
	if err := c.EmailService.SendOrderConfirmationEmail(user.Email, user.Username, order, locale); err != nil {
		if errors.Is(err, service.ErrEmailServiceDisabled) || errors.Is(err, service.ErrEmailServiceNotConfigured) {
			logger.Warnw("worker_order_email_skip_not_configured", "order_id", order.ID, "error", err)
			return nil
		}
		if errors.Is(err, service.ErrEmailRecipientRejected) {
			logger.Warnw("worker_order_email_recipient_rejected", "order_id", order.ID, "user_id", user.ID)
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		logger.Warnw("worker_order_email_send_failed", "order_id", order.ID, "error", err)
		return err
	}
	logger.Infow("worker_order_email_sent", "order_id", order.ID, "order_no", order.OrderNo)
	return nil
}

func (c *Consumer) handleProductIndexSync(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.ProductIndexSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_product_index_unmarshal_failed", "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if payload.ProductID == 0 || c.ProductService == nil {
		return nil
	}
	if err := c.ProductService.SyncIndex(ctx, payload.ProductID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			logger.Debugw("worker_product_index_skip_not_found", "product_id", payload.ProductID)
			return nil
		}
		logger.Warnw("worker_product_index_sync_failed", "product_id", payload.ProductID, "error", err)
		return err
	}
	return nil
}
