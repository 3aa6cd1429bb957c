package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// reviewMessage is the JSON payload published for each escalated module.
type reviewMessage struct {
	Module    string    `json:"module"`
	Issues    []string  `json:"issues"`
	Timestamp time.Time `json:"timestamp"`
}

// NATSEscalator publishes review requests to a NATS subject, where a separate
// process (ticketing bridge, chat bot) picks them up.
type NATSEscalator struct {
	conn    *nats.Conn
	subject string
	logger  *zap.Logger
}

// NewNATSEscalator connects to the NATS server at url.
func NewNATSEscalator(url, subject string, logger *zap.Logger) (*NATSEscalator, error) {
	if url == "" {
		return nil, errors.New("nats url is required")
	}
	if subject == "" {
		return nil, errors.New("nats subject is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := nats.Connect(url, nats.Name("vetgate"))
	if err != nil {
		return nil, fmt.Errorf("connect to nats %s: %w", url, err)
	}

	return &NATSEscalator{conn: conn, subject: subject, logger: logger}, nil
}

// Escalate publishes the review request.
func (e *NATSEscalator) Escalate(_ context.Context, module string, issues []string) error {
	payload, err := json.Marshal(reviewMessage{
		Module:    module,
		Issues:    issues,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal review message for %s: %w", module, err)
	}

	if err := e.conn.Publish(e.subject, payload); err != nil {
		return fmt.Errorf("publish review message for %s: %w", module, err)
	}

	e.logger.Info("published review request",
		zap.String("module", module),
		zap.String("subject", e.subject),
		zap.Int("issue_count", len(issues)),
	)
	return nil
}

// Close flushes and closes the connection.
func (e *NATSEscalator) Close() error {
	if err := e.conn.Flush(); err != nil {
		return err
	}
	e.conn.Close()
	return nil
}
