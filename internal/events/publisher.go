// Package events 发布订单领域事件到 Kafka。
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopfront/internal/config"
	"github.com/shopfront/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventOrderCreated 订单创建事件类型
const EventOrderCreated = "order.created"

// OrderCreatedItem 订单事件中的商品行
type OrderCreatedItem struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// OrderCreatedEvent 订单创建事件
type OrderCreatedEvent struct {
	Type       string             `json:"type"`
	OrderID    uint               `json:"order_id"`
	OrderNo    string             `json:"order_no"`
	UserID     uint               `json:"user_id"`
	TotalPrice string             `json:"total_price"`
	Items      []OrderCreatedItem `json:"items"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// NewOrderCreatedEvent 由订单快照构建事件
func NewOrderCreatedEvent(order *models.Order) OrderCreatedEvent {
	items := make([]OrderCreatedItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderCreatedItem{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			Price:     item.Price.String(),
		})
	}
	return OrderCreatedEvent{
		Type:       EventOrderCreated,
		OrderID:    order.ID,
		OrderNo:    order.OrderNo,
		UserID:     order.UserID,
		TotalPrice: order.TotalPrice.String(),
		Items:      items,
		OccurredAt: order.OrderDatetime,
	}
}

// Publisher 事件发布接口
type Publisher interface {
	PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error
	Close() error
}

// NopPublisher 未启用事件时使用的空实现
type NopPublisher struct{}

// PublishOrderCreated 丢弃事件
func (NopPublisher) PublishOrderCreated(context.Context, OrderCreatedEvent) error { return nil }

// Close 无需释放资源
func (NopPublisher) Close() error { return nil }

// KafkaPublisher 基于 kafka-go Writer 的发布器
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewPublisher 根据配置创建发布器，未启用时返回 NopPublisher
func NewPublisher(cfg config.EventsConfig) (Publisher, error) {
	if !cfg.Enabled {
		return NopPublisher{}, nil
	}
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, broker := range cfg.Brokers {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	topic := strings.TrimSpace(cfg.Topic)
	if len(brokers) == 0 || topic == "" {
		return nil, fmt.Errorf("events: brokers and topic are required when enabled")
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
	}, nil
}

// PublishOrderCreated 以订单号为 key 写入事件，保证同一订单的事件落在同一分区
func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal failed: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderNo),
		Value: data,
		Time:  event.OccurredAt,
	}); err != nil {
		return fmt.Errorf("events: write failed: %w", err)
	}
	return nil
}

// Close 关闭 writer 并刷新缓冲
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
