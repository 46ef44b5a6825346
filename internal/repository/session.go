package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/oxbingo-backend/internal/apperror"
	"github.com/rocketscienceinc/oxbingo-backend/internal/bingo"
	"github.com/rocketscienceinc/oxbingo-backend/internal/entity"
)

const maxUpdateAttempts = 10

var ErrTooManyConflicts = errors.New("too many concurrent updates")

type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
	Update(ctx context.Context, id string, fn func(session *entity.Session) error) (*entity.Session, error)
}

type dbSession struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository stores sessions as JSON. A zero ttl keeps them forever.
func NewSessionRepository(client *redis.Client, ttl time.Duration) SessionRepository {
	return &dbSession{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(id string) string {
	return "session:" + id
}

func (that *dbSession) CreateOrUpdate(ctx context.Context, session *entity.Session) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	err = that.client.Set(ctx, sessionKey(session.ID), sessionJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	response, err := that.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrSessionNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	return decodeSession(response)
}

func (that *dbSession) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session by id: %w", err)
	}

	if deleted == 0 {
		return apperror.ErrSessionNotFound
	}

	return nil
}

// Update loads the session, applies fn and writes the result back in one optimistic
// transaction. When another writer touches the session in between, fn runs again on
// the fresh state.
func (that *dbSession) Update(ctx context.Context, id string, fn func(session *entity.Session) error) (*entity.Session, error) {
	key := sessionKey(id)

	var updated *entity.Session

	txf := func(tx *redis.Tx) error {
		response, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return apperror.ErrSessionNotFound
		}

		if err != nil {
			return fmt.Errorf("failed to get session by id: %w", err)
		}

		session, err := decodeSession(response)
		if err != nil {
			return err
		}

		if err = fn(session); err != nil {
			return err
		}

		sessionJSON, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("could not marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, sessionJSON, that.ttl)
			return nil
		})
		if err != nil {
			return err //nolint: wrapcheck // redis.TxFailedErr is checked by the caller
		}

		updated = session

		return nil
	}

	for range maxUpdateAttempts {
		err := that.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to update session: %w", err)
		}

		return updated, nil
	}

	return nil, fmt.Errorf("%w: session %s", ErrTooManyConflicts, id)
}

func decodeSession(data []byte) (*entity.Session, error) {
	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if err := bingo.CheckSession(&session); err != nil {
		return nil, fmt.Errorf("stored session %s: %w", session.ID, err)
	}

	return &session, nil
}
