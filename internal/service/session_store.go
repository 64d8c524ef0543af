package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quiz-master/internal/cache"
	"quiz-master/internal/domain"
	"quiz-master/internal/logger"

	"go.uber.org/zap"
)

// cacheSessionRepository implements domain.SessionRepository on top of domain.Cache.
// Sessions are stored as JSON and expire ttl after their last write.
type cacheSessionRepository struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewSessionRepository creates a session store backed by c. A zero ttl keeps sessions forever.
func NewSessionRepository(c domain.Cache, ttl time.Duration) domain.SessionRepository {
	return &cacheSessionRepository{cache: c, ttl: ttl}
}

func (r *cacheSessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	key := cache.SessionKey(id)
	data, err := r.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Debug("Session cache miss", zap.String("key", key))
			return nil, domain.NewSessionNotFoundError(id)
		}
		logger.Get().Error("Failed to get session from cache", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to load session %s", id), err)
	}
	if data == "" {
		return nil, domain.NewSessionNotFoundError(id)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		logger.Get().Error("Failed to unmarshal session", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to decode session %s", id), err)
	}
	if err := session.CheckInvariants(); err != nil {
		logger.Get().Error("Stored session is inconsistent", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("session %s is corrupted", id), err)
	}
	return &session, nil
}

func (r *cacheSessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.NewInvalidInputError("cannot store session without id")
	}
	key := cache.SessionKey(session.ID)
	data, err := json.Marshal(session)
	if err != nil {
		return domain.NewInternalError("failed to encode session", err)
	}
	if err := r.cache.Set(ctx, key, string(data), r.ttl); err != nil {
		logger.Get().Error("Failed to store session", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to store session %s", session.ID), err)
	}
	return nil
}

func (r *cacheSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.cache.Delete(ctx, cache.SessionKey(id)); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to delete session %s", id), err)
	}
	return nil
}
