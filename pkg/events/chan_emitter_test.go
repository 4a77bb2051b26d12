package events

import (
	"context"
	"testing"
	"time"
)

func TestEmitDoesNotBlockWithoutSubscriber(t *testing.T) {
	emitter := NewChanEmitter(4)
	defer emitter.Close()

	ctx := context.Background()

	// Никто не читает: отправка сверх буфера обязана отбрасывать
	// события, а не блокировать отправителя.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			emitter.Emit(ctx, Event{Type: EventThinkingChunk, Timestamp: time.Now()})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked on a full event buffer with no subscriber")
	}
}

func TestEmitDeliversToSubscriber(t *testing.T) {
	emitter := NewChanEmitter(4)
	sub := emitter.Subscribe()

	emitter.Emit(context.Background(), Event{Type: EventMessage, Data: MessageData{Content: "hi"}})

	select {
	case event := <-sub.Events():
		if event.Type != EventMessage {
			t.Errorf("unexpected event type: %s", event.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	emitter.Close()
	if _, ok := <-sub.Events(); ok {
		t.Error("channel not closed after Close")
	}
}

func TestEmitAfterClose(t *testing.T) {
	emitter := NewChanEmitter(1)
	emitter.Close()

	// Не должно паниковать отправкой в закрытый канал
	emitter.Emit(context.Background(), Event{Type: EventDone})
}
