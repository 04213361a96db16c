package chatbotRepository

import (
	"ComputexChatbot/internal/api/chatbot"
	"ComputexChatbot/internal/entity"
	contextPkg "ComputexChatbot/pkg/context"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// redisRepository keeps each session as a JSON document and indexes them in
// a sorted set scored by last activity (unix millis).
type redisRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
	log *logrus.Logger
}

// NewRedis stores sessions in Redis. A positive ttl expires idle session
// documents on the server side as well.
func NewRedis(rdb redis.Cmdable, ttl time.Duration, log *logrus.Logger) Repository {
	return &redisRepository{
		rdb: rdb,
		ttl: ttl,
		log: log,
	}
}

func score(t time.Time) float64 {
	return float64(t.UnixMilli())
}

func (r *redisRepository) write(ctx context.Context, pipe redis.Pipeliner, session entity.ChatSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	pipe.Set(ctx, sessionKey(session.ID), data, r.ttl)
	pipe.ZAdd(ctx, keySessionIndex, redis.Z{Score: score(session.LastActivity), Member: session.ID})
	return nil
}

func (r *redisRepository) CreateSession(ctx context.Context, session entity.ChatSession) error {
	requestID := contextPkg.GetRequestID(ctx)

	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		return r.write(ctx, pipe, session)
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("Failed to create session in redis")
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

func (r *redisRepository) GetSession(ctx context.Context, sessionID string) (entity.ChatSession, error) {
	data, err := r.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.ChatSession{}, chatbot.ErrSessionNotFound
	}
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to read session from redis")
		return entity.ChatSession{}, fmt.Errorf("get session: %w", err)
	}

	var session entity.ChatSession
	if err := json.Unmarshal(data, &session); err != nil {
		return entity.ChatSession{}, fmt.Errorf("decode session %s: %w", sessionID, err)
	}

	return session, nil
}

func (r *redisRepository) SaveSession(ctx context.Context, session entity.ChatSession, appended ...entity.ChatMessage) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if err := r.write(ctx, pipe, session); err != nil {
			return err
		}

		if len(appended) > 0 {
			pipe.HIncrBy(ctx, keyStats, fieldTotalMessages, int64(len(appended)))
		}
		for _, m := range appended {
			if m.Type == entity.MessageTypeBot && m.Category != "" {
				pipe.HIncrBy(ctx, keyCategories, m.Category, 1)
			}
		}
		return nil
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("Failed to save session in redis")
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

// liveSessions loads every indexed session and drops index entries whose
// document already expired.
func (r *redisRepository) liveSessions(ctx context.Context) ([]entity.ChatSession, error) {
	ids, err := r.rdb.ZRange(ctx, keySessionIndex, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list session index: %w", err)
	}
	if len(ids) == 0 {
		return []entity.ChatSession{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = sessionKey(id)
	}

	values, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	sessions := make([]entity.ChatSession, 0, len(values))
	var stale []interface{}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}

		var session entity.ChatSession
		if err := json.Unmarshal([]byte(raw), &session); err != nil {
			r.log.WithFields(logrus.Fields{
				"session_id": ids[i],
				"error":      err.Error(),
			}).Warn("Skipping undecodable session")
			continue
		}
		sessions = append(sessions, session)
	}

	if len(stale) > 0 {
		if err := r.rdb.ZRem(ctx, keySessionIndex, stale...).Err(); err != nil {
			r.log.WithFields(logrus.Fields{
				"error": err.Error(),
			}).Warn("Failed to prune expired sessions from index")
		}
	}

	return sessions, nil
}

func (r *redisRepository) ListSessions(ctx context.Context) ([]entity.ChatSession, error) {
	sessions, err := r.liveSessions(ctx)
	if err != nil {
		return nil, err
	}

	sortSessions(sessions)
	return sessions, nil
}

func (r *redisRepository) DeleteIdleSessions(ctx context.Context, cutoff time.Time) (int, error) {
	ids, err := r.rdb.ZRangeByScore(ctx, keySessionIndex, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(cutoff.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("find idle sessions: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, len(ids))
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		keys[i] = sessionKey(id)
		members[i] = id
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		pipe.ZRem(ctx, keySessionIndex, members...)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete idle sessions: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"removed":    len(ids),
		"cutoff":     cutoff,
	}).Info("Idle sessions removed")

	return len(ids), nil
}

func (r *redisRepository) GetStats(ctx context.Context, activeCutoff time.Time) (entity.ChatStats, error) {
	sessions, err := r.liveSessions(ctx)
	if err != nil {
		return entity.ChatStats{}, err
	}

	active := 0
	for _, s := range sessions {
		if s.ActiveSince(activeCutoff) {
			active++
		}
	}

	total, err := r.rdb.HGet(ctx, keyStats, fieldTotalMessages).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return entity.ChatStats{}, fmt.Errorf("read message counter: %w", err)
	}

	raw, err := r.rdb.HGetAll(ctx, keyCategories).Result()
	if err != nil {
		return entity.ChatStats{}, fmt.Errorf("read category counters: %w", err)
	}

	categories := make(map[string]int, len(raw))
	for k, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		categories[k] = n
	}

	return entity.ChatStats{
		TotalSessions:   len(sessions),
		TotalMessages:   total,
		CategoriesCount: categories,
		ActiveSessions:  active,
	}, nil
}
