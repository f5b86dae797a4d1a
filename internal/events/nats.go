// Package events fans out state-change events over NATS for other local
// tooling. Publishing is fire-and-forget; when no NATS URL is configured the
// no-op publisher is used and the agent runs without a broker.
package events

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/crewhub-app/sync-agent/pkg/logger"
	"github.com/crewhub-app/sync-agent/pkg/metrics"
)

// SubjectPrefix is the prefix for all agent event subjects.
const SubjectPrefix = "crew"

// Config holds NATS connection configuration.
type Config struct {
	URL      string
	CAFile   string
	CertFile string
	KeyFile  string
	Token    string
}

// Publisher fans out one event. Implementations must not block the sync
// loops on broker trouble.
type Publisher interface {
	Publish(entity, action, entityID string, payload any)
	Close()
}

// Noop is the publisher used when fan-out is disabled.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(entity, action, entityID string, payload any) {}

// Close implements Publisher.
func (Noop) Close() {}

// NATS publishes events over a core NATS connection.
type NATS struct {
	conn       *nats.Conn
	employeeID string
	logger     *logger.Logger
}

// Connect establishes a NATS connection for event fan-out.
func Connect(cfg Config, employeeID string, log *logger.Logger) (*NATS, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected")
		}),
	}

	if cfg.CAFile != "" && cfg.CertFile != "" && cfg.KeyFile != "" {
		tlsConfig, err := createTLSConfig(cfg.CAFile, cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		opts = append(opts, nats.Secure(tlsConfig))
	}

	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATS{conn: nc, employeeID: employeeID, logger: log}, nil
}

// Subject builds the event subject for an entity and action.
func Subject(employeeID, entity, action string) string {
	return fmt.Sprintf("%s.%s.%s.%s", SubjectPrefix, employeeID, entity, action)
}

// Publish fans out one event. Failures are logged and swallowed.
func (p *NATS) Publish(entity, action, entityID string, payload any) {
	data, err := json.Marshal(map[string]any{
		"entity_id": entityID,
		"payload":   payload,
		"ts":        time.Now().UTC(),
	})
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(entity, "error").Inc()
		return
	}

	if err := p.conn.Publish(Subject(p.employeeID, entity, action), data); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(entity, "error").Inc()
		if p.logger != nil {
			p.logger.Warn("event publish failed",
				zap.String("entity", entity), zap.String("action", action), zap.Error(err))
		}
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(entity, "ok").Inc()
}

// Close drains and closes the connection.
func (p *NATS) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// IsConnected reports broker connectivity, used by the readiness probe.
func (p *NATS) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}

func createTLSConfig(caFile, certFile, keyFile string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}

	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to parse CA certificate")
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load client cert: %w", err)
	}

	return &tls.Config{
		RootCAs:      caCertPool,
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
