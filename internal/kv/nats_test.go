package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
)

// fakeBucket implements the parts of jetstream.KeyValue the store calls.
type fakeBucket struct {
	jetstream.KeyValue
	slots     map[string][]byte
	deleteErr error
}

type fakeEntry struct {
	jetstream.KeyValueEntry
	value []byte
}

func (e fakeEntry) Value() []byte { return e.value }

func (b *fakeBucket) Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error) {
	v, ok := b.slots[key]
	if !ok {
		return nil, jetstream.ErrKeyNotFound
	}
	return fakeEntry{value: v}, nil
}

func (b *fakeBucket) Put(ctx context.Context, key string, value []byte) (uint64, error) {
	b.slots[key] = value
	return uint64(len(b.slots)), nil
}

func (b *fakeBucket) Delete(ctx context.Context, key string, opts ...jetstream.KVDeleteOpt) error {
	if b.deleteErr != nil {
		return b.deleteErr
	}
	if _, ok := b.slots[key]; !ok {
		return jetstream.ErrKeyNotFound
	}
	delete(b.slots, key)
	return nil
}

func TestNATSStore(t *testing.T) {
	exerciseStore(t, NewNATSStoreFromBucket(&fakeBucket{slots: map[string][]byte{}}))
}

func TestNATSStore_DeleteError(t *testing.T) {
	boom := errors.New("nats: timeout")
	s := NewNATSStoreFromBucket(&fakeBucket{slots: map[string][]byte{}, deleteErr: boom})

	err := s.Delete(context.Background(), "cart.v1")
	assert.ErrorIs(t, err, boom)
}
