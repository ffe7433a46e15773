// Package session holds the ephemeral, non-repository state of the system:
// support-to-admin chat, doubts raised to admins, support availability
// toggles, and login/logout times. The source of record for tickets and
// users is Postgres; everything here expires with the session TTL.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	chatKey         = "session:chat"
	doubtsKey       = "session:doubts"
	availabilityKey = "session:availability"
	timesKeyPrefix  = "session:times:"
)

// ChatMessage is a free-text message from a support user to the admin inbox.
type ChatMessage struct {
	From    string    `json:"from"`
	To      string    `json:"to"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

// Doubt is a question raised by a support user for admins.
type Doubt struct {
	User    string    `json:"user"`
	Doubt   string    `json:"doubt"`
	AskedAt time.Time `json:"asked_at"`
}

// LoginTimes records the most recent login and logout instants for a user.
type LoginTimes struct {
	LoginAt  *time.Time `json:"login_at,omitempty"`
	LogoutAt *time.Time `json:"logout_at,omitempty"`
}

// Store is the redis-backed ephemeral session store.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore constructs a store with the given record lifetime.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Store{client: client, ttl: ttl}
}

// AppendChat records a support-to-admin chat message.
func (s *Store) AppendChat(ctx context.Context, msg ChatMessage) error {
	return s.appendJSON(ctx, chatKey, msg)
}

// ListChat returns all buffered chat messages, oldest first.
func (s *Store) ListChat(ctx context.Context) ([]ChatMessage, error) {
	raw, err := s.client.LRange(ctx, chatKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	result := make([]ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			continue
		}
		result = append(result, msg)
	}
	return result, nil
}

// AppendDoubt records a support doubt for admins.
func (s *Store) AppendDoubt(ctx context.Context, doubt Doubt) error {
	return s.appendJSON(ctx, doubtsKey, doubt)
}

// ListDoubts returns all buffered doubts, oldest first.
func (s *Store) ListDoubts(ctx context.Context) ([]Doubt, error) {
	raw, err := s.client.LRange(ctx, doubtsKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	result := make([]Doubt, 0, len(raw))
	for _, item := range raw {
		var doubt Doubt
		if err := json.Unmarshal([]byte(item), &doubt); err != nil {
			continue
		}
		result = append(result, doubt)
	}
	return result, nil
}

// SetAvailability records whether a support user is currently available.
func (s *Store) SetAvailability(ctx context.Context, username string, available bool) error {
	value := "Available"
	if !available {
		value = "Not Available"
	}
	if err := s.client.HSet(ctx, availabilityKey, username, value).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, availabilityKey, s.ttl).Err()
}

// Availability returns the availability label per support username.
func (s *Store) Availability(ctx context.Context) (map[string]string, error) {
	return s.client.HGetAll(ctx, availabilityKey).Result()
}

// RecordLogin stamps the login time for a user.
func (s *Store) RecordLogin(ctx context.Context, username string, at time.Time) error {
	return s.setTime(ctx, username, "login_at", at)
}

// RecordLogout stamps the logout time for a user.
func (s *Store) RecordLogout(ctx context.Context, username string, at time.Time) error {
	return s.setTime(ctx, username, "logout_at", at)
}

// Times returns the recorded login/logout instants for a user.
func (s *Store) Times(ctx context.Context, username string) (LoginTimes, error) {
	fields, err := s.client.HGetAll(ctx, timesKeyPrefix+username).Result()
	if err != nil {
		return LoginTimes{}, err
	}
	var times LoginTimes
	if v, ok := fields["login_at"]; ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			times.LoginAt = &t
		}
	}
	if v, ok := fields["logout_at"]; ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			times.LogoutAt = &t
		}
	}
	return times, nil
}

func (s *Store) appendJSON(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.client.RPush(ctx, key, payload).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, key, s.ttl).Err()
}

func (s *Store) setTime(ctx context.Context, username, field string, at time.Time) error {
	key := timesKeyPrefix + username
	if err := s.client.HSet(ctx, key, field, at.Format(time.RFC3339)).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, key, s.ttl).Err()
}
