package email

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// MockEmailKeyPrefix prefixes the redis keys written by RedisSender.
const MockEmailKeyPrefix = "mockemail:"

// MockEmailTTL is how long a captured email stays readable.
const MockEmailTTL = 5 * time.Minute

// MockEmailKey is the redis key holding the last email captured for to.
func MockEmailKey(to string) string {
	return MockEmailKeyPrefix + strings.ToLower(strings.TrimSpace(to))
}

// CapturedEmail is the JSON document RedisSender stores.
type CapturedEmail struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	SentAt  string `json:"sent_at"`
}

// RedisSender stores emails in Redis instead of sending them, so end to end
// tests can read them back through the service API.
type RedisSender struct {
	client *redis.Client
	from   string
}

func NewRedisSender(client *redis.Client, from string) Sender {
	return &RedisSender{client: client, from: from}
}

func (s *RedisSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	sentAt := time.Now().UTC().Format(time.RFC3339Nano)
	for _, recipient := range to {
		jsonData, err := json.Marshal(CapturedEmail{
			To:      recipient,
			From:    s.from,
			Subject: subject,
			Body:    string(rawMessage),
			SentAt:  sentAt,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal email data: %w", err)
		}

		key := MockEmailKey(recipient)
		if err := s.client.Set(ctx, key, jsonData, MockEmailTTL).Err(); err != nil {
			return fmt.Errorf("failed to store email in Redis key '%s': %w", key, err)
		}
		log.Debug().Str("key", key).Str("subject", subject).Msg("mock email stored in Redis")
	}
	return nil
}
