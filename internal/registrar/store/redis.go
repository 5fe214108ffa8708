package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"leasehold/internal/registrar/models"
	"leasehold/pkg/domain"
	"leasehold/pkg/platform/sentinel"
)

const (
	leaseKeyPrefix = "lease:node:"
	tokenKeyPrefix = "lease:token:"
)

// Redis persists the lease and token tables in Redis, for deployments where
// several registrar replicas share state. One hash per node carries the
// lease window; a plain key carries the token binding.
type Redis struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed store.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// unavailable tags a transport failure so the service layer can surface it
// as retryable instead of internal.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, sentinel.ErrUnavailable, err)
}

func (s *Redis) GetLease(ctx context.Context, node domain.NameID) (models.Lease, error) {
	fields, err := s.client.HGetAll(ctx, leaseKeyPrefix+node.Hex()).Result()
	if err != nil {
		return models.Lease{}, unavailable("get lease", err)
	}
	if len(fields) == 0 {
		return models.Lease{}, sentinel.ErrNotFound
	}

	start, err := strconv.ParseInt(fields["start"], 10, 64)
	if err != nil {
		return models.Lease{}, fmt.Errorf("decode lease start: %w", err)
	}
	end, err := strconv.ParseInt(fields["end"], 10, 64)
	if err != nil {
		return models.Lease{}, fmt.Errorf("decode lease end: %w", err)
	}

	return models.Lease{
		NameID:    node,
		StartTime: time.Unix(0, start).UTC(),
		EndTime:   time.Unix(0, end).UTC(),
	}, nil
}

func (s *Redis) PutLease(ctx context.Context, lease models.Lease) error {
	err := s.client.HSet(ctx, leaseKeyPrefix+lease.NameID.Hex(),
		"start", strconv.FormatInt(lease.StartTime.UnixNano(), 10),
		"end", strconv.FormatInt(lease.EndTime.UnixNano(), 10),
	).Err()
	if err != nil {
		return unavailable("put lease", err)
	}
	return nil
}

func (s *Redis) TokenID(ctx context.Context, node domain.NameID) (domain.TokenID, error) {
	raw, err := s.client.Get(ctx, tokenKeyPrefix+node.Hex()).Result()
	if errors.Is(err, redis.Nil) {
		return 0, sentinel.ErrNotFound
	}
	if err != nil {
		return 0, unavailable("get token binding", err)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode token binding: %w", err)
	}
	return domain.TokenID(id), nil
}

func (s *Redis) BindTokenID(ctx context.Context, node domain.NameID, id domain.TokenID) error {
	err := s.client.Set(ctx, tokenKeyPrefix+node.Hex(), strconv.FormatUint(uint64(id), 10), 0).Err()
	if err != nil {
		return unavailable("bind token", err)
	}
	return nil
}
