package queue

import (
	"encoding/json"
	"testing"

	"github.com/shopfront/internal/config"
)

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("disabled client should report disabled")
	}
	if err := client.EnqueueOrderConfirmationEmail(1); err != nil {
		t.Fatalf("disabled enqueue should be noop, got %v", err)
	}
	if err := client.EnqueueProductIndexSync(1); err != nil {
		t.Fatalf("disabled enqueue should be noop, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close disabled client failed: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("unexpected default addr: %s", opt.Addr)
	}
	if cfg.Concurrency != 10 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected default server config: %+v", cfg)
	}

	opt, cfg = BuildServerConfig(&config.QueueConfig{Host: "redis", Port: 6380, DB: 2, Concurrency: 3, Queues: map[string]int{"default": 4}})
	if opt.Addr != "redis:6380" || opt.DB != 2 || cfg.Concurrency != 3 || cfg.Queues["default"] != 4 {
		t.Fatalf("config not applied: opt=%+v cfg=%+v", opt, cfg)
	}
}

func TestOrderConfirmationTaskPayload(t *testing.T) {
	task, err := NewOrderConfirmationEmailTask(OrderConfirmationEmailPayload{OrderID: 42})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskOrderConfirmationEmail {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	var payload OrderConfirmationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil || payload.OrderID != 42 {
		t.Fatalf("unexpected payload: %+v err=%v", payload, err)
	}
}
