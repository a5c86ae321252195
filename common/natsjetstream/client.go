package natsjetstream

import (
	"context"
	"fmt"

	apperrors "github.com/burakmert236/firstblood/common/errors"
	"github.com/burakmert236/firstblood/common/logger"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

type Client struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	logger *logger.Logger
}

func NewClient(cfg *Config, log *logger.Logger) (*Client, *apperrors.AppError) {
	log = log.With("component", "NATSClient")

	nc, err := nats.Connect(cfg.URL, connectOptions(cfg, log)...)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeServiceUnavailable,
			fmt.Sprintf("failed to connect to NATS at %s", cfg.URL))
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, apperrors.Wrap(err, apperrors.CodeInternalServer, "failed to create JetStream context")
	}

	return &Client{conn: nc, js: js, logger: log}, nil
}

// connectOptions routes connection events to the logger. Nothing here may
// write to stdout, which can carry the report.
func connectOptions(cfg *Config, log *logger.Logger) []nats.Option {
	return []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnect),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.Timeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error("NATS async error", "error", err)
		}),
	}
}

// EnsureStream creates the stream or updates its subjects.
func (c *Client) EnsureStream(ctx context.Context, cfg StreamConfig) *apperrors.AppError {
	stream, err := c.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.Name,
		Subjects: cfg.Subjects,
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternalServer,
			fmt.Sprintf("failed to ensure stream %s", cfg.Name))
	}

	c.logger.Debug("Stream ready", "stream", stream.CachedInfo().Config.Name, "subjects", cfg.Subjects)
	return nil
}

// Close drains pending publishes before closing the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Drain()
}
