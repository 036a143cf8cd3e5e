// internal/likes/redis.go
// Redis like store: one forward and one reverse set per user

package likes

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const defaultKeyPrefix = "matching:likes"

// Both scripts touch the forward and reverse set together so a reader
// never sees one direction without the other.
var insertScript = redis.NewScript(`
if redis.call("SADD", KEYS[1], ARGV[1]) == 1 then
    redis.call("SADD", KEYS[2], ARGV[2])
    return 1
end
return 0
`)

var deleteScript = redis.NewScript(`
if redis.call("SREM", KEYS[1], ARGV[1]) == 1 then
    redis.call("SREM", KEYS[2], ARGV[2])
    return 1
end
return 0
`)

type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore uses prefix for all keys; empty means the default prefix
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) forwardKey(likerID int64) string {
	return fmt.Sprintf("%s:by:%d", s.prefix, likerID)
}

func (s *RedisStore) reverseKey(likedID int64) string {
	return fmt.Sprintf("%s:of:%d", s.prefix, likedID)
}

func (s *RedisStore) Exists(ctx context.Context, likerID, likedID int64) (bool, error) {
	ok, err := s.client.SIsMember(ctx, s.forwardKey(likerID), likedID).Result()
	if err != nil {
		return false, errors.Wrap(err, "likes: sismember")
	}
	return ok, nil
}

func (s *RedisStore) Insert(ctx context.Context, likerID, likedID int64) (bool, error) {
	keys := []string{s.forwardKey(likerID), s.reverseKey(likedID)}
	n, err := insertScript.Run(ctx, s.client, keys, likedID, likerID).Int()
	if err != nil {
		return false, errors.Wrap(err, "likes: insert script")
	}
	return n == 1, nil
}

func (s *RedisStore) Delete(ctx context.Context, likerID, likedID int64) (bool, error) {
	keys := []string{s.forwardKey(likerID), s.reverseKey(likedID)}
	n, err := deleteScript.Run(ctx, s.client, keys, likedID, likerID).Int()
	if err != nil {
		return false, errors.Wrap(err, "likes: delete script")
	}
	return n == 1, nil
}

func (s *RedisStore) ListByLiker(ctx context.Context, likerID int64) ([]int64, error) {
	return s.members(ctx, s.forwardKey(likerID))
}

func (s *RedisStore) ListByLiked(ctx context.Context, likedID int64) ([]int64, error) {
	return s.members(ctx, s.reverseKey(likedID))
}

func (s *RedisStore) members(ctx context.Context, key string) ([]int64, error) {
	raw, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrap(err, "likes: smembers")
	}

	ids := make([]int64, 0, len(raw))
	for _, m := range raw {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "likes: bad member %q in %s", m, key)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
