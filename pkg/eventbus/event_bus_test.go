package eventbus

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/renovaplan/renova/pkg/logging"
)

type event struct {
	data interface{}
}

func TestPublisher_Subscribe(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.WarnLevel))
	called := false
	var data interface{}
	publisher.Subscribe(func(e *event) {
		called = true
		data = e.data
	})
	publisher.Publish(&event{
		data: "test",
	})
	if !called {
		t.Error("should be called")
	}
	if data != "test" {
		t.Errorf("expected: %v, got: %v", "test", data)
	}
}

func TestPublisher_Unsubscribe(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.WarnLevel))
	handler := func(e *event) {
		t.Error("should not be called after unsubscribe")
	}
	publisher.Subscribe(handler)
	if got := publisher.SubscribersCount(); got != 1 {
		t.Fatalf("expected 1 subscriber, got %d", got)
	}
	publisher.Unsubscribe(handler)
	if got := publisher.SubscribersCount(); got != 0 {
		t.Fatalf("expected 0 subscribers, got %d", got)
	}
	publisher.Publish(&event{data: "test"})
}

func TestMatchSignature(t *testing.T) {
	type other struct{}
	if !matchSignature(func(e *event) {}, []interface{}{&event{}}) {
		t.Error("expected true")
	}
	if matchSignature(func(e *event) {}, []interface{}{&other{}}) {
		t.Error("expected false")
	}
	if matchSignature(func(e *event) {}, []interface{}{}) {
		t.Error("expected false")
	}
	if matchSignature(func(e *event) {}, []interface{}{&event{}, &event{}}) {
		t.Error("expected false")
	}
	if !matchSignature(func(ctx context.Context) {}, []interface{}{context.Background()}) {
		t.Error("expected true")
	}
}

func TestPublisher_PanicRecovery(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.PanicLevel))
	publisher.Subscribe(func(e *event) {
		panic("boom")
	})
	reached := false
	publisher.Subscribe(func(e *event) {
		reached = true
	})
	publisher.Publish(&event{data: "test"})
	if !reached {
		t.Error("second subscriber should still run after a panic")
	}
}
