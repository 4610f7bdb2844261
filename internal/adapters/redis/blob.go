package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// bookingsKey is the single slot holding the serialized booking sequence.
const bookingsKey = "omnibus:bookings"

type Blob struct {
	client *redis.Client
}

func NewBlob(client *redis.Client) *Blob {
	return &Blob{client: client}
}

// Load returns the raw blob, or nil when the slot is empty.
func (b *Blob) Load(ctx context.Context) ([]byte, error) {
	data, err := b.client.Get(ctx, bookingsKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (b *Blob) Save(ctx context.Context, data []byte) error {
	return b.client.Set(ctx, bookingsKey, data, 0).Err()
}

func (b *Blob) Clear(ctx context.Context) error {
	return b.client.Del(ctx, bookingsKey).Err()
}
