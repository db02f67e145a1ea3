package notifier

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/gateway"
)

const operatorKey = "operator"

type delivery struct {
	ctx      context.Context
	userID   string
	title    string
	message  string
	severity entity.Severity
	operator bool
}

// Dispatcher delivers notifications in the background so callers never wait on
// Telegram or the inbox. Messages for the same recipient keep their order: each
// recipient hashes to one worker queue. A full queue drops the message.
type Dispatcher struct {
	next   gateway.Notifier
	queues []chan delivery
	logger core.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	once   sync.Once
}

// NewDispatcher starts workers goroutines, each with its own queue of queueSize
func NewDispatcher(next gateway.Notifier, workers, queueSize int, logger core.Logger) *Dispatcher {
	workers = max(workers, 1)
	queueSize = max(queueSize, 1)

	d := &Dispatcher{
		next:   next,
		queues: make([]chan delivery, workers),
		logger: logger,
	}
	for i := range d.queues {
		d.queues[i] = make(chan delivery, queueSize)
		d.wg.Add(1)
		go d.work(d.queues[i])
	}
	return d
}

func (d *Dispatcher) work(queue <-chan delivery) {
	defer d.wg.Done()
	for job := range queue {
		if job.operator {
			d.next.NotifyOperator(job.ctx, job.message)
			continue
		}
		d.next.NotifyUser(job.ctx, job.userID, job.title, job.message, job.severity)
	}
}

func (d *Dispatcher) shard(key string) chan delivery {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return d.queues[h.Sum32()%uint32(len(d.queues))]
}

func (d *Dispatcher) enqueue(key string, job delivery) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("Notification dropped after shutdown", map[string]any{"recipient": key})
		return
	}
	select {
	case d.shard(key) <- job:
	default:
		d.logger.Warn("Notification queue full, dropping message", map[string]any{"recipient": key})
	}
}

// NotifyUser queues a user notification. The request context's cancellation is not inherited.
func (d *Dispatcher) NotifyUser(ctx context.Context, userID, title, message string, severity entity.Severity) {
	d.enqueue(userID, delivery{
		ctx:      context.WithoutCancel(ctx),
		userID:   userID,
		title:    title,
		message:  message,
		severity: severity,
	})
}

// NotifyOperator queues an operator notification
func (d *Dispatcher) NotifyOperator(ctx context.Context, message string) {
	d.enqueue(operatorKey, delivery{
		ctx:      context.WithoutCancel(ctx),
		message:  message,
		operator: true,
	})
}

// Shutdown stops accepting messages and waits until queued ones are delivered or ctx ends
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		for _, q := range d.queues {
			close(q)
		}
		d.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ gateway.Notifier = (*Dispatcher)(nil)
