package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/agreementlog/agreement-log-api/internal/api/metrics"
	"github.com/agreementlog/agreement-log-api/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 64
)

// MailDispatcher routes outbound email to a fixed set of workers using
// consistent hashing on the recipient, keeping per-recipient ordering.
// Delivery failures are logged and counted; they never propagate back to
// the request that queued the message.
type MailDispatcher struct {
	workers []chan ports.MailMessage
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewMailDispatcher creates a MailDispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MailDispatcher{
		workers: make([]chan ports.MailMessage, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.MailMessage, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a message to the worker responsible for its recipient.
// Non-blocking up to channelBuffer capacity; a full shard drops the message
// with a log entry rather than stalling the caller.
func (d *MailDispatcher) Enqueue(msg ports.MailMessage) {
	select {
	case d.workers[d.shardIndex(msg.To)] <- msg:
	default:
		d.log.Warn().Str("to", msg.To).Msg("mail queue full, message dropped")
		metrics.ResetMailsTotal.WithLabelValues("dropped").Inc()
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *MailDispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32()) % len(d.workers)
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.MailMessage) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := d.mailer.Send(ctx, msg); err != nil {
				d.log.Error().Err(err).
					Str("to", msg.To).
					Int("worker_id", id).
					Msg("mail delivery failed")
				metrics.ResetMailsTotal.WithLabelValues("error").Inc()
				continue
			}
			metrics.ResetMailsTotal.WithLabelValues("sent").Inc()
		}
	}
}
