package bot

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"mastera/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const sessionPrefix = "form:session:"

// SessionStore keeps in-progress form sessions in Redis. A session that
// outlives the TTL silently disappears and the flow starts over.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Get(ctx context.Context, chatID int64) (*models.FormSession, error) {
	data, err := s.client.Get(ctx, sessionKey(chatID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess models.FormSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SessionStore) Put(ctx context.Context, sess *models.FormSession) error {
	sess.UpdatedAt = time.Now()
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(sess.ChatID), b, s.ttl).Err()
}

func (s *SessionStore) Clear(ctx context.Context, chatID int64) error {
	return s.client.Del(ctx, sessionKey(chatID)).Err()
}

func sessionKey(chatID int64) string {
	return sessionPrefix + strconv.FormatInt(chatID, 10)
}

// session loads the chat's form state, treating store errors as no session.
func (b *Bot) session(ctx context.Context, chatID int64) *models.FormSession {
	sess, err := b.Sessions.Get(ctx, chatID)
	if err != nil {
		b.Logger.Error("session load failed", zap.Int64("chat_id", chatID), zap.Error(err))
		return nil
	}
	return sess
}

func (b *Bot) saveSession(ctx context.Context, sess *models.FormSession) {
	if err := b.Sessions.Put(ctx, sess); err != nil {
		b.Logger.Error("session save failed", zap.Int64("chat_id", sess.ChatID), zap.Error(err))
	}
}

func (b *Bot) clearSession(ctx context.Context, chatID int64) {
	if err := b.Sessions.Clear(ctx, chatID); err != nil {
		b.Logger.Error("session clear failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
