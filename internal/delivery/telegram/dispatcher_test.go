package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestDispatcher_PreservesOrderPerUser(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []int
		done = make(chan struct{})
	)

	d := newDispatcher(func(ctx context.Context, update tgbotapi.Update) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, update.UpdateID)
		if len(seen) == 5 {
			close(done)
		}
	}, time.Minute, 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for i := 1; i <= 5; i++ {
		if !d.dispatch(ctx, 1, tgbotapi.Update{UpdateID: i}) {
			t.Fatalf("dispatch %d rejected", i)
		}
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("updates were not handled")
	}

	mu.Lock()
	defer mu.Unlock()
	for i, id := range seen {
		if id != i+1 {
			t.Fatalf("order = %v, want 1..5", seen)
		}
	}
}

func TestDispatcher_UsersRunConcurrently(t *testing.T) {
	release := make(chan struct{})
	handled := make(chan int64, 2)

	d := newDispatcher(func(ctx context.Context, update tgbotapi.Update) {
		userID := update.Message.From.ID
		if userID == 1 {
			<-release
		}
		handled <- userID
	}, time.Minute, 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		d.wait()
	}()

	msg := func(userID int64) tgbotapi.Update {
		return tgbotapi.Update{Message: &tgbotapi.Message{From: &tgbotapi.User{ID: userID}}}
	}

	d.dispatch(ctx, 1, msg(1))
	d.dispatch(ctx, 2, msg(2))

	select {
	case id := <-handled:
		if id != 2 {
			t.Fatalf("first handled user = %d, want 2", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("user 2 was blocked by user 1")
	}

	close(release)
	<-handled
}

func TestDispatcher_FullQueueRejects(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{}, 1)

	d := newDispatcher(func(ctx context.Context, update tgbotapi.Update) {
		started <- struct{}{}
		<-block
	}, time.Minute, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		close(block)
		cancel()
		d.wait()
	}()

	d.dispatch(ctx, 1, tgbotapi.Update{UpdateID: 1})
	<-started

	if !d.dispatch(ctx, 1, tgbotapi.Update{UpdateID: 2}) {
		t.Fatal("second update should fit the queue")
	}
	if d.dispatch(ctx, 1, tgbotapi.Update{UpdateID: 3}) {
		t.Fatal("third update should be rejected")
	}
}

func TestDispatcher_IdleWorkerExits(t *testing.T) {
	handled := make(chan struct{}, 1)
	d := newDispatcher(func(ctx context.Context, update tgbotapi.Update) {
		handled <- struct{}{}
	}, 20*time.Millisecond, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d.dispatch(ctx, 1, tgbotapi.Update{UpdateID: 1})
	<-handled

	deadline := time.Now().Add(2 * time.Second)
	for d.active() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("idle worker did not exit")
		}
		time.Sleep(5 * time.Millisecond)
	}
	d.wait()
}
