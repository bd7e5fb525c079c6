package eventbus

import (
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/dimba-league/dimba-api/internal/platform/logging"
)

func TestBus_PublishDeliversFrames(t *testing.T) {
	t.Parallel()

	bus := New(4, logging.NewNop())
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	bus.nowFunc = func() time.Time { return fixed }

	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	bus.Publish(TypeMatchConfirmed, map[string]any{"match_id": 7})

	select {
	case frame := <-sub.C:
		var got envelope
		if err := sonic.Unmarshal(frame, &got); err != nil {
			t.Fatalf("unmarshal frame: %v", err)
		}
		if got.Type != TypeMatchConfirmed {
			t.Fatalf("expected type %s, got %s", TypeMatchConfirmed, got.Type)
		}
		if !got.Timestamp.Equal(fixed) {
			t.Fatalf("expected timestamp %v, got %v", fixed, got.Timestamp)
		}
	default:
		t.Fatal("no frame delivered")
	}
}

func TestBus_DropsSlowSubscriber(t *testing.T) {
	t.Parallel()

	bus := New(2, logging.NewNop())
	slow := bus.Subscribe()
	keeper := bus.Subscribe()

	// Fill the slow subscriber's buffer, then overflow it.
	for i := 0; i < 3; i++ {
		bus.Publish(TypeStandingsUpdated, map[string]any{"n": i})
		// Keep the healthy subscriber drained.
		select {
		case <-keeper.C:
		default:
			t.Fatalf("keeper missed frame %d", i)
		}
	}

	if bus.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber left, got %d", bus.SubscriberCount())
	}

	// The dropped subscriber's channel is closed after its buffer drains.
	drained := 0
	for range slow.C {
		drained++
	}
	if drained != 2 {
		t.Fatalf("expected 2 buffered frames, got %d", drained)
	}
}

func TestBus_UnsubscribeClosesChannel(t *testing.T) {
	t.Parallel()

	bus := New(4, logging.NewNop())
	sub := bus.Subscribe()
	bus.Unsubscribe(sub)

	if _, ok := <-sub.C; ok {
		t.Fatal("expected closed channel after unsubscribe")
	}
	// Unsubscribing twice is harmless.
	bus.Unsubscribe(sub)
	bus.Unsubscribe(nil)
}

func TestBus_ConcurrentPublish(t *testing.T) {
	t.Parallel()

	bus := New(DefaultBufferSize, logging.NewNop())
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(TypeBracketUpdated, map[string]any{"x": 1})
		}()
	}
	wg.Wait()

	got := 0
	for {
		select {
		case <-sub.C:
			got++
		default:
			if got != 10 {
				t.Fatalf("expected 10 frames, got %d", got)
			}
			return
		}
	}
}

func TestBus_ClearDropsEveryone(t *testing.T) {
	t.Parallel()

	bus := New(4, logging.NewNop())
	a := bus.Subscribe()
	b := bus.Subscribe()
	bus.Clear()

	if bus.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers, got %d", bus.SubscriberCount())
	}
	if _, ok := <-a.C; ok {
		t.Fatal("subscriber a channel not closed")
	}
	if _, ok := <-b.C; ok {
		t.Fatal("subscriber b channel not closed")
	}
}
