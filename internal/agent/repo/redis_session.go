package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scheme-assistant/server/internal/agent/model"
	errx "github.com/scheme-assistant/server/internal/core/error"
	logx "github.com/scheme-assistant/server/pkg/logger"
)

// RedisSessionRepository stores each session's ConversationState as one JSON
// document. The TTL is refreshed on every save.
type RedisSessionRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisSessionRepository(rdb redis.Cmdable, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisSessionRepository) sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s:state", sessionID)
}

func (r *RedisSessionRepository) Load(ctx context.Context, sessionID string) (*model.ConversationState, error) {
	key := r.sessionKey(sessionID)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load session state from redis")
		return nil, errx.WrapRedis(err)
	}

	state := model.NewConversationState()
	if err := json.Unmarshal(raw, state); err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("failed to unmarshal session state")
		return nil, fmt.Errorf("unmarshal session state: %w", err)
	}
	state.EnsureInit()
	return state, nil
}

func (r *RedisSessionRepository) Save(ctx context.Context, sessionID string, state *model.ConversationState) error {
	if state == nil {
		return fmt.Errorf("session state is nil")
	}
	b, err := json.Marshal(state)
	if err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("failed to marshal session state")
		return fmt.Errorf("marshal session state: %w", err)
	}
	key := r.sessionKey(sessionID)

	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save session state to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	key := r.sessionKey(sessionID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete session state from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.SessionRepository = (*RedisSessionRepository)(nil)
