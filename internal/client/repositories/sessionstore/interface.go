package sessionstore

import (
	"context"
)

// KV is the durable string-keyed storage consumed by the session store.
// Values are opaque byte slices; structured data is serialized by the
// caller. Get returns (nil, nil) when the key is absent.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	MultiRemove(ctx context.Context, keys ...string) error
}
