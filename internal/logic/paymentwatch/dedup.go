package paymentwatch

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sigKeyPrefix = "paymentwatch:sig:"
	sigTTL       = 7 * 24 * time.Hour
)

// SignatureStore 基于 Redis 做签名去重，防止轮询与流式两条链路重复投递。
// 重启后仍能覆盖 TTL 窗口内的历史签名。
type SignatureStore struct {
	rdb *redis.Client
}

func NewSignatureStore(rdb *redis.Client) *SignatureStore {
	return &SignatureStore{rdb: rdb}
}

// Seen 返回签名是否已处理过。Redis 不可用时返回 error，由调用方决定降级策略。
func (s *SignatureStore) Seen(ctx context.Context, signature string) (bool, error) {
	n, err := s.rdb.Exists(ctx, sigKeyPrefix+signature).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Mark 在成功投递后记录签名。
func (s *SignatureStore) Mark(ctx context.Context, signature string) error {
	return s.rdb.Set(ctx, sigKeyPrefix+signature, 1, sigTTL).Err()
}
