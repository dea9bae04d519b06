package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/logger"
	"github.com/gtursunxujayev-art/Super-aylana-sub000/pkg/redis"
)

type SpinEventType string

const (
	SpinEventStart  SpinEventType = "SPIN_START"
	SpinEventResult SpinEventType = "SPIN_RESULT"
)

const spinEventsChannel = "wheel:spin-events"

// SpinPopup is the result summary shown to every connected client.
type SpinPopup struct {
	By        string  `json:"by"`
	Tier      int     `json:"tier"`
	Title     string  `json:"title"`
	ImageURL  *string `json:"imageUrl,omitempty"`
	Kind      string  `json:"kind"`
	CoinDelta int64   `json:"coinDelta"`
	PrizeID   *int64  `json:"prizeId,omitempty"`
}

type SpinEvent struct {
	Type       SpinEventType `json:"type"`
	By         string        `json:"by,omitempty"`
	Tier       int           `json:"tier,omitempty"`
	StartedAt  int64         `json:"startedAt,omitempty"`
	DurationMs int64         `json:"durationMs,omitempty"`
	Popup      *SpinPopup    `json:"popup,omitempty"`
}

// SpinEvents fans spin state transitions out to live clients.
type SpinEvents interface {
	Publish(ctx context.Context, event SpinEvent) error
	// Subscribe returns a channel of events and a function that ends the
	// subscription and closes the channel.
	Subscribe(ctx context.Context) (<-chan SpinEvent, func(), error)
}

// RedisSpinEvents shares events between all server instances.
type RedisSpinEvents struct {
	redis *redis.RedisService
}

func NewRedisSpinEvents(rs *redis.RedisService) *RedisSpinEvents {
	return &RedisSpinEvents{redis: rs}
}

func (e *RedisSpinEvents) Publish(ctx context.Context, event SpinEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return logger.WrapError(err, "")
	}
	return e.redis.Publish(ctx, spinEventsChannel, payload)
}

func (e *RedisSpinEvents) Subscribe(ctx context.Context) (<-chan SpinEvent, func(), error) {
	sub, err := e.redis.Subscribe(ctx, spinEventsChannel)
	if err != nil {
		return nil, nil, err
	}

	out := make(chan SpinEvent, 16)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var event SpinEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn("Skipping malformed spin event: %v", err)
				continue
			}
			select {
			case out <- event:
			default:
				logger.Warn("Spin event subscriber is slow, dropping %s", event.Type)
			}
		}
	}()

	var once sync.Once
	return out, func() { once.Do(func() { _ = sub.Close() }) }, nil
}

// LocalSpinEvents delivers events inside one process.
type LocalSpinEvents struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan SpinEvent
}

func NewLocalSpinEvents() *LocalSpinEvents {
	return &LocalSpinEvents{subs: make(map[int]chan SpinEvent)}
}

func (e *LocalSpinEvents) Publish(_ context.Context, event SpinEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, ch := range e.subs {
		select {
		case ch <- event:
		default:
			logger.Warn("Spin event subscriber is slow, dropping %s", event.Type)
		}
	}
	return nil
}

func (e *LocalSpinEvents) Subscribe(_ context.Context) (<-chan SpinEvent, func(), error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	ch := make(chan SpinEvent, 16)
	e.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs, id)
			close(ch)
			e.mu.Unlock()
		})
	}, nil
}
