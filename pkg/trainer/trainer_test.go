package trainer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/seilorhq/faithagent/pkg/bus"
)

// TestTrainer_InvalidCronRejected verifies a bad expression fails Start
func TestTrainer_InvalidCronRejected(t *testing.T) {
	tr := New("not a cron", nil, bus.NewMessageBus(), nil, uuid.New())

	if tr.Start(context.Background()) {
		t.Error("invalid cron expression should be rejected")
	}
}

// TestTrainer_ValidCronStartsAndStops verifies the schedule loop lifecycle
func TestTrainer_ValidCronStartsAndStops(t *testing.T) {
	tr := New("0 */6 * * *", nil, bus.NewMessageBus(), nil, uuid.New())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !tr.Start(ctx) {
		t.Fatal("valid cron expression should start")
	}
	tr.Stop()
	// Stop twice must be safe.
	tr.Stop()
}

// TestTrainer_DueSuppressesSameMinute verifies one firing per scheduled minute
func TestTrainer_DueSuppressesSameMinute(t *testing.T) {
	tr := New("* * * * *", nil, bus.NewMessageBus(), nil, uuid.New())

	now := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	if !tr.due(now) {
		t.Fatal("every-minute expression should be due")
	}
	if tr.due(now.Add(30 * time.Second)) {
		t.Error("second tick in the same minute must be suppressed")
	}
	if !tr.due(now.Add(time.Minute)) {
		t.Error("next minute should fire again")
	}
}
