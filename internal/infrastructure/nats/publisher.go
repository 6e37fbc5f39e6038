package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"karen/internal/dto"
)

const (
	connectAttempts = 3
	flushTimeout    = 2 * time.Second
)

// conn is the subset of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

type Publisher struct {
	nc      conn
	subject string
	logger  *zap.Logger
}

func Connect(url, subject string, logger *zap.Logger) (*Publisher, error) {
	var (
		nc  *nats.Conn
		err error
	)

	for i := 0; i < connectAttempts; i++ {
		nc, err = nats.Connect(url,
			nats.Name("karen"),
			nats.MaxReconnects(5),
			nats.ReconnectWait(2*time.Second),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				logger.Warn("NATS disconnected", zap.Error(err))
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
			}),
		)
		if err == nil {
			logger.Info("connected to NATS", zap.String("url", url), zap.String("subject", subject))
			return newPublisher(nc, subject, logger), nil
		}

		logger.Warn("failed to connect to NATS", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}

	return nil, fmt.Errorf("connecting to NATS after %d attempts: %w", connectAttempts, err)
}

func newPublisher(nc conn, subject string, logger *zap.Logger) *Publisher {
	return &Publisher{nc: nc, subject: subject, logger: logger}
}

func (p *Publisher) PublishPaymentConfirmed(ctx context.Context, event dto.PaymentConfirmedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling payment event: %w", err)
	}

	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publishing to %s: %w", p.subject, err)
	}
	if err := p.nc.FlushTimeout(flushTimeout); err != nil {
		return fmt.Errorf("flushing NATS connection: %w", err)
	}

	p.logger.Debug("published payment confirmation",
		zap.String("subject", p.subject),
		zap.Uint("orderId", event.OrderID),
	)
	return nil
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
		p.logger.Info("NATS connection closed")
	}
}

// NoopPublisher is used when no NATS URL is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishPaymentConfirmed(context.Context, dto.PaymentConfirmedEvent) error {
	return nil
}

func (NoopPublisher) Close() {}
