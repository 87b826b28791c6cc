package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/market-front/domain"
)

const (
	notifyQueueSize = 1024
	notifyBatchSize = 100
	notifyInterval  = 100 * time.Millisecond
)

type notifyWorker struct {
	publisher domain.Publisher
	ch        chan domain.StoreEvent
	interval  time.Duration
}

var _ domain.NotifyWorker = (*notifyWorker)(nil)

func NewNotifyWorker(p domain.Publisher) *notifyWorker {
	return &notifyWorker{
		publisher: p,
		ch:        make(chan domain.StoreEvent, notifyQueueSize),
		interval:  notifyInterval,
	}
}

// Send never blocks, a store calls it while rendering code may be waiting on it.
func (w *notifyWorker) Send(event domain.StoreEvent) {
	select {
	case w.ch <- event:
	default:
		logrus.Info("NotifyWorker's channel is full, event dropped")
	}
}

func (w *notifyWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	batch := make([]domain.StoreEvent, 0, notifyBatchSize)
	for {
		select {
		case event := <-w.ch:
			batch = append(batch, event)
			if len(batch) == notifyBatchSize {
				w.flush(batch)
				batch = make([]domain.StoreEvent, 0, notifyBatchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(batch)
				batch = make([]domain.StoreEvent, 0, notifyBatchSize)
			}
		case <-ctx.Done():
			logrus.Info("shutting down NotifyWorker, flushing remaining events...")
			w.drain(batch)
			return
		}
	}
}

func (w *notifyWorker) drain(batch []domain.StoreEvent) {
	for {
		select {
		case event := <-w.ch:
			batch = append(batch, event)
		default:
			if len(batch) > 0 {
				w.flush(batch)
			}
			return
		}
	}
}

// flush 合并同一会话同一商品的重复事件, 保持首次出现的顺序
func (w *notifyWorker) flush(batch []domain.StoreEvent) {
	seen := make(map[domain.StoreEvent]struct{}, len(batch))
	events := make([]domain.StoreEvent, 0, len(batch))
	for _, e := range batch {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		events = append(events, e)
	}
	w.publisher.Publish(events)
}
