// Package trainer runs the self-learning pipeline on a cron schedule.
package trainer

import (
	"context"
	"sync"
	"time"

	"github.com/adhocore/gronx"
	"github.com/google/uuid"

	"github.com/seilorhq/faithagent/pkg/bus"
	"github.com/seilorhq/faithagent/pkg/learn"
	"github.com/seilorhq/faithagent/pkg/logger"
	"github.com/seilorhq/faithagent/pkg/memory"
)

// Trainer fires the learning pipeline whenever the cron expression comes
// due, records the generated post and publishes it on the outbound bus.
type Trainer struct {
	expr     string
	pipeline *learn.Pipeline
	msgBus   *bus.MessageBus
	store    *memory.Store
	gron     *gronx.Gronx
	agentID  uuid.UUID

	mu      sync.Mutex
	running bool
	stop    chan struct{}

	lastFire time.Time
}

func New(expr string, pipeline *learn.Pipeline, msgBus *bus.MessageBus, store *memory.Store, agentID uuid.UUID) *Trainer {
	return &Trainer{
		expr:     expr,
		pipeline: pipeline,
		msgBus:   msgBus,
		store:    store,
		gron:     gronx.New(),
		agentID:  agentID,
	}
}

// Start begins the schedule loop. Invalid expressions are rejected up front
// so a config typo fails loudly at startup.
func (t *Trainer) Start(ctx context.Context) bool {
	if !t.gron.IsValid(t.expr) {
		logger.ErrorCF("trainer", "Invalid cron expression",
			map[string]interface{}{"expr": t.expr})
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return true
	}
	t.running = true
	t.stop = make(chan struct{})

	go t.loop(ctx, t.stop)
	logger.InfoCF("trainer", "Trainer started", map[string]interface{}{"expr": t.expr})
	return true
}

func (t *Trainer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.running = false
	close(t.stop)
}

func (t *Trainer) loop(ctx context.Context, stop chan struct{}) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case now := <-ticker.C:
			if !t.due(now) {
				continue
			}
			t.runOnce(ctx)
		}
	}
}

// due checks the schedule and suppresses the second tick inside the same
// minute.
func (t *Trainer) due(now time.Time) bool {
	ok, err := t.gron.IsDue(t.expr, now)
	if err != nil || !ok {
		return false
	}
	minute := now.Truncate(time.Minute)
	if t.lastFire.Equal(minute) {
		return false
	}
	t.lastFire = minute
	return true
}

func (t *Trainer) runOnce(ctx context.Context) {
	logger.InfoC("trainer", "Scheduled training run starting")

	result, err := t.pipeline.Run(ctx)
	if err != nil {
		logger.ErrorCF("trainer", "Training run failed",
			map[string]interface{}{"error": err.Error()})
		return
	}

	roomID := t.pipeline.PostRoomID()
	if t.store != nil {
		msg := bus.NewMessage(roomID, t.agentID, t.agentID,
			bus.Content{Text: result.Post, Action: "TWEET", Source: "trainer"})
		if err := t.store.AddMessage(ctx, msg); err != nil {
			logger.WarnCF("trainer", "Failed to record generated post",
				map[string]interface{}{"error": err.Error()})
		}
	}

	t.msgBus.PublishOutbound(bus.Delivery{
		RoomID: roomID,
		Outcome: bus.Outcome{
			Text:    result.Post,
			Success: true,
		},
	})
	logger.InfoCF("trainer", "Training run published post",
		map[string]interface{}{"topic": result.Topic, "room_id": roomID.String()})
}
