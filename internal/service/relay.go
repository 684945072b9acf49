package service

import (
	"context"
	"encoding/json"
	"sync"

	"tutor_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RelayEvent 广播到所有实例的消息格式
type RelayEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Relay 发布/订阅通道，投递为尽力而为
type Relay interface {
	Publish(ctx context.Context, payload []byte) error
	// Subscribe 返回的 channel 在 ctx 结束后关闭
	Subscribe(ctx context.Context) (<-chan []byte, error)
	Close() error
}

type RedisRelay struct {
	client  *redis.Client
	channel string
}

func NewRedisRelay(client *redis.Client, channel string) *RedisRelay {
	return &RedisRelay{client: client, channel: channel}
}

func (r *RedisRelay) Publish(ctx context.Context, payload []byte) error {
	return r.client.Publish(ctx, r.channel, payload).Err()
}

func (r *RedisRelay) Subscribe(ctx context.Context) (<-chan []byte, error) {
	pubsub := r.client.Subscribe(ctx, r.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	out := make(chan []byte, 256)
	go func() {
		defer close(out)
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (r *RedisRelay) Close() error {
	return r.client.Close()
}

// LocalRelay 进程内实现，用于单实例部署和测试
type LocalRelay struct {
	mu     sync.RWMutex
	subs   map[int]chan []byte
	nextID int
	closed bool
}

func NewLocalRelay() *LocalRelay {
	return &LocalRelay{subs: make(map[int]chan []byte)}
}

func (r *LocalRelay) Publish(ctx context.Context, payload []byte) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, ch := range r.subs {
		select {
		case ch <- payload:
		default:
			logger.Log.Warn("Local relay subscriber is full, dropping message", zap.Int("subscriber", id))
		}
	}
	return nil
}

func (r *LocalRelay) Subscribe(ctx context.Context) (<-chan []byte, error) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	ch := make(chan []byte, 256)
	if r.closed {
		close(ch)
		r.mu.Unlock()
		return ch, nil
	}
	r.subs[id] = ch
	r.mu.Unlock()

	go func() {
		<-ctx.Done()
		r.mu.Lock()
		if sub, ok := r.subs[id]; ok {
			delete(r.subs, id)
			close(sub)
		}
		r.mu.Unlock()
	}()
	return ch, nil
}

func (r *LocalRelay) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	for id, ch := range r.subs {
		delete(r.subs, id)
		close(ch)
	}
	return nil
}
