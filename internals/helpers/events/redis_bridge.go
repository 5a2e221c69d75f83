package events

import (
	"context"
	"log"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisBridge menyambungkan Bus antar instance lewat Redis pub/sub.
// Event lokal diteruskan ke channel Redis; event dari instance lain
// dipublish ulang ke Bus lokal dengan Origin terisi supaya tidak memantul.
type RedisBridge struct {
	bus        *Bus
	rdb        *redis.Client
	channel    string
	instanceID string
}

func NewRedisBridge(bus *Bus, rdb *redis.Client, channel string) *RedisBridge {
	return &RedisBridge{bus: bus, rdb: rdb, channel: channel, instanceID: uuid.NewString()}
}

func (b *RedisBridge) InstanceID() string { return b.instanceID }

// Run blocking sampai ctx selesai.
func (b *RedisBridge) Run(ctx context.Context) error {
	if err := b.rdb.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "redis ping")
	}

	pubsub := b.rdb.Subscribe(ctx, b.channel)
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		return errors.Wrap(err, "redis subscribe")
	}

	local := b.bus.Subscribe()
	defer local.Close()

	remote := pubsub.Channel()
	log.Printf("[EVENTS] 🔗 bridge redis aktif (channel=%s instance=%s)", b.channel, b.instanceID)

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-local.C:
			if !ok {
				return nil
			}
			if e.Origin != "" {
				continue // datang dari instance lain
			}
			e.Origin = b.instanceID
			if err := b.forward(ctx, e); err != nil {
				log.Printf("[EVENTS] ❌ gagal kirim ke redis: %v", err)
			}
		case msg, ok := <-remote:
			if !ok {
				return nil
			}
			var e Event
			if err := sonic.UnmarshalString(msg.Payload, &e); err != nil {
				log.Printf("[EVENTS] ⚠️ payload redis tidak valid: %v", err)
				continue
			}
			if e.Origin == "" || e.Origin == b.instanceID {
				continue
			}
			b.bus.Publish(e)
		}
	}
}

func (b *RedisBridge) forward(ctx context.Context, e Event) error {
	payload, err := sonic.MarshalString(e)
	if err != nil {
		return errors.Wrap(err, "encode event")
	}
	return b.rdb.Publish(ctx, b.channel, payload).Err()
}
