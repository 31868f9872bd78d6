package telegram

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// dispatcher runs one worker per active user. Updates of a user are handled
// in arrival order; different users proceed concurrently. A worker exits
// after staying idle for the configured timeout.
type dispatcher struct {
	handle    func(ctx context.Context, update tgbotapi.Update)
	idle      time.Duration
	queueSize int

	mu     sync.Mutex
	queues map[int64]chan tgbotapi.Update
	wg     sync.WaitGroup
}

func newDispatcher(handle func(ctx context.Context, update tgbotapi.Update), idle time.Duration, queueSize int) *dispatcher {
	return &dispatcher{
		handle:    handle,
		idle:      idle,
		queueSize: queueSize,
		queues:    make(map[int64]chan tgbotapi.Update),
	}
}

// dispatch enqueues the update for its user. It returns false when the
// user's queue is full.
func (d *dispatcher) dispatch(ctx context.Context, userID int64, update tgbotapi.Update) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	q, ok := d.queues[userID]
	if !ok {
		q = make(chan tgbotapi.Update, d.queueSize)
		d.queues[userID] = q
		d.wg.Add(1)
		go d.work(ctx, userID, q)
	}

	select {
	case q <- update:
		return true
	default:
		return false
	}
}

func (d *dispatcher) work(ctx context.Context, userID int64, q chan tgbotapi.Update) {
	defer d.wg.Done()

	timer := time.NewTimer(d.idle)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			d.mu.Lock()
			delete(d.queues, userID)
			d.mu.Unlock()
			return

		case update := <-q:
			d.handle(ctx, update)
			timer.Reset(d.idle)

		case <-timer.C:
			// dispatch holds the lock while enqueueing, so an empty queue
			// here means nothing can be lost by exiting.
			d.mu.Lock()
			if len(q) > 0 {
				d.mu.Unlock()
				timer.Reset(d.idle)
				continue
			}
			delete(d.queues, userID)
			d.mu.Unlock()
			return
		}
	}
}

// active returns the number of running workers.
func (d *dispatcher) active() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queues)
}

// wait blocks until every worker has returned.
func (d *dispatcher) wait() {
	d.wg.Wait()
}
