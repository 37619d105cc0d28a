package localstore

import (
	"context"

	redisclient "github.com/suvai/freshmart-backend/pkg/redis"
)

// Redis persists blobs in a shared Redis instance, namespaced per service.
type Redis struct {
	client *redisclient.Client
}

// NewRedis wraps an established redis client as a Store.
func NewRedis(client *redisclient.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, redisclient.BlobKey(key))
	if err != nil {
		if redisclient.IsNil(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, redisclient.BlobKey(key), value)
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, redisclient.BlobKey(key))
}
