package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/chainsafe/swap-coordinator/pkg/offer"
)

const (
	dialTimeout  = 10 * time.Second
	exchangeKind = "topic"
	messageType  = "offer.snapshot"
)

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQP publishes snapshots to a durable topic exchange with routing key
// "offer.<status>", so consumers can bind to e.g. "offer.*" or "offer.closed".
type AMQP struct {
	exchange string
	logger   *zap.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel channel
	reopen  func() (channel, error)
	now     func() time.Time
}

// NewAMQP dials the broker and declares the exchange.
func NewAMQP(rawURL, exchange string, logger *zap.Logger) (*AMQP, error) {
	u, err := parseAMQPURL(rawURL)
	if err != nil {
		return nil, err
	}
	conn, err := amqp.DialConfig(u, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to amqp broker: %w", err)
	}

	reopen := func() (channel, error) {
		ch, err := conn.Channel()
		if err != nil {
			return nil, err
		}
		return ch, nil
	}
	p, err := newAMQP(reopen, exchange, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newAMQP(reopen func() (channel, error), exchange string, logger *zap.Logger) (*AMQP, error) {
	p := &AMQP{
		exchange: exchange,
		logger:   logger,
		reopen:   reopen,
		now:      time.Now,
	}
	ch, err := p.open()
	if err != nil {
		return nil, err
	}
	p.channel = ch
	return p, nil
}

func (p *AMQP) open() (channel, error) {
	ch, err := p.reopen()
	if err != nil {
		return nil, fmt.Errorf("failed to open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", p.exchange, err)
	}
	return ch, nil
}

// RoutingKey returns the routing key used for a snapshot in the given status.
func RoutingKey(st offer.Status) string {
	return "offer." + strings.ToLower(string(st))
}

// Notify publishes the snapshot. A failed publish reopens the channel and retries once.
func (p *AMQP) Notify(ctx context.Context, snap *offer.Snapshot) error {
	if snap == nil || snap.Offer == nil {
		return nil
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         messageType,
		Timestamp:    p.now(),
		Headers: amqp.Table{
			"offer_id": snap.Offer.ID,
			"version":  snap.Offer.Version,
		},
		Body: body,
	}
	key := RoutingKey(snap.Offer.Status)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return errors.New("amqp publisher is closed")
	}
	err = p.channel.PublishWithContext(ctx, p.exchange, key, false, false, msg)
	if err == nil {
		return nil
	}

	p.logger.Warn("AMQP publish failed, reopening channel",
		zap.String("exchange", p.exchange),
		zap.String("routing_key", key),
		zap.Error(err))
	_ = p.channel.Close()
	ch, openErr := p.open()
	if openErr != nil {
		p.channel = nil
		return errors.Join(err, openErr)
	}
	p.channel = ch
	if err := p.channel.PublishWithContext(ctx, p.exchange, key, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", key, err)
	}
	return nil
}

// Close closes the channel and the connection.
func (p *AMQP) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
		p.channel = nil
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
		p.conn = nil
	}
	return errors.Join(errs...)
}

func parseAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), `"'`)
	u, err := url.Parse(clean)
	if err != nil {
		return "", fmt.Errorf("invalid amqp url: %w", err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("amqp url scheme must be amqp:// or amqps://")
	}
	return clean, nil
}
