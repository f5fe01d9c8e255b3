package events

import (
	"context"
	"testing"
	"time"

	"github.com/shopfront/internal/config"
	"github.com/shopfront/internal/models"

	"github.com/shopspring/decimal"
)

func TestNewPublisherDisabledReturnsNop(t *testing.T) {
	p, err := NewPublisher(config.EventsConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new publisher failed: %v", err)
	}
	if _, ok := p.(NopPublisher); !ok {
		t.Fatalf("expected NopPublisher, got %T", p)
	}
	if err := p.PublishOrderCreated(context.Background(), OrderCreatedEvent{}); err != nil {
		t.Fatalf("nop publish failed: %v", err)
	}
}

func TestNewPublisherRequiresBrokersAndTopic(t *testing.T) {
	if _, err := NewPublisher(config.EventsConfig{Enabled: true, Brokers: []string{" "}, Topic: "orders"}); err == nil {
		t.Fatalf("expected error for empty brokers")
	}
	p, err := NewPublisher(config.EventsConfig{Enabled: true, Brokers: []string{"127.0.0.1:9092"}, Topic: "orders"})
	if err != nil {
		t.Fatalf("new kafka publisher failed: %v", err)
	}
	kp, ok := p.(*KafkaPublisher)
	if !ok || kp.writer.Topic != "orders" {
		t.Fatalf("unexpected publisher: %T", p)
	}
	_ = p.Close()
}

func TestNewOrderCreatedEvent(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	order := &models.Order{
		ID:            7,
		OrderNo:       "SF20260102030405123456",
		UserID:        3,
		TotalPrice:    models.NewMoneyFromDecimal(decimal.RequireFromString("61.5")),
		OrderDatetime: at,
		Items: []models.OrderItem{
			{ProductID: 1, ProductName: "Mug", Quantity: 3, Price: models.NewMoneyFromDecimal(decimal.RequireFromString("20.5"))},
		},
	}
	event := NewOrderCreatedEvent(order)
	if event.Type != EventOrderCreated || event.TotalPrice != "61.50" || event.OccurredAt != at {
		t.Fatalf("unexpected event header: %+v", event)
	}
	if len(event.Items) != 1 || event.Items[0].Price != "20.50" || event.Items[0].Quantity != 3 {
		t.Fatalf("unexpected event items: %+v", event.Items)
	}
}
