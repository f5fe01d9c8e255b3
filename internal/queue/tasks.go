package queue

import (
	"encoding/json"

	"github.com/shopfront/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderConfirmationEmail 下单确认邮件任务
	TaskOrderConfirmationEmail = constants.TaskOrderConfirmationEmail
	// TaskProductIndexSync 商品搜索索引同步任务
	TaskProductIndexSync = constants.TaskProductIndexSync
)

// OrderConfirmationEmailPayload 下单确认邮件任务载荷
type OrderConfirmationEmailPayload struct {
	OrderID uint `json:"order_id"`
}

// ProductIndexSyncPayload 商品索引同步任务载荷
type ProductIndexSyncPayload struct {
	ProductID uint `json:"product_id"`
}

// NewOrderConfirmationEmailTask 创建下单确认邮件任务
func NewOrderConfirmationEmailTask(payload OrderConfirmationEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmationEmail, body), nil
}

// NewProductIndexSyncTask 创建商品索引同步任务
func NewProductIndexSyncTask(payload ProductIndexSyncPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProductIndexSync, body), nil
}
