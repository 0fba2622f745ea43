package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/vfg2006/campaign-metrics-api/internal/config"
	"github.com/vfg2006/campaign-metrics-api/pkg/log"
)

const (
	maxBackoff     = 30 * time.Second
	publishTimeout = 5 * time.Second
)

var ErrChannelClosed = errors.New("amqp: delivery channel closed")

// Client mantém a conexão com o broker. A fila usa o próprio nome como routing key.
type Client struct {
	url          string
	exchangeName string
	queueName    string

	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewClient(cfg config.Events) *Client {
	return &Client{
		url:          cfg.URL,
		exchangeName: cfg.Exchange,
		queueName:    cfg.Queue,
	}
}

// Connect abre conexão e canal e declara exchange, fila e binding
func (c *Client) Connect() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	c.conn = conn
	c.channel = channel

	if err := c.setup(); err != nil {
		c.Close()
		return fmt.Errorf("setup exchange and queue: %w", err)
	}

	return nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName,
		amqp091.ExchangeDirect,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	// Uma recomputação por vez por consumidor
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	return nil
}

// Publish envia uma notificação de planilha atualizada
func (c *Client) Publish(ctx context.Context, msg *SheetUpdatedMessage) error {
	if c.channel == nil {
		return fmt.Errorf("publish message: %w", amqp091.ErrClosed)
	}

	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(ctx, c.exchangeName, c.queueName, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"source_id":      msg.SourceID,
		"spreadsheet_id": msg.SpreadsheetID,
	}).Info("events: sheet updated message published")

	return nil
}

// Consume entrega as mensagens ao handler com ack manual e reconecta com backoff
// exponencial quando a conexão cai. Retorna quando o contexto é cancelado.
func (c *Client) Consume(ctx context.Context, handler *Handler) error {
	attempt := 0
	for {
		if c.channel == nil || c.channel.IsClosed() {
			if err := c.Connect(); err != nil {
				wait := exponentialBackoff(attempt)
				log.L.WithError(err).Warnf("events: connection failed, retrying in %s", wait)
				attempt++

				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(wait):
				}
				continue
			}
		}
		attempt = 0

		err := c.consume(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil && !isConnectionError(err) {
			return err
		}

		log.L.WithError(err).Warn("events: consumer interrupted, reconnecting")
		c.Close()
	}
}

func (c *Client) consume(ctx context.Context, handler *Handler) error {
	deliveries, err := c.channel.Consume(
		c.queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	log.L.WithField("queue", c.queueName).Info("events: consuming sheet updated messages")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return ErrChannelClosed
			}
			handler.HandleDelivery(ctx, delivery)
		}
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		if err != nil && !errors.Is(err, amqp091.ErrClosed) {
			return err
		}
	}
	return nil
}

func exponentialBackoff(attempt int) time.Duration {
	if attempt > 5 {
		return maxBackoff
	}
	wait := time.Second << attempt
	if wait > maxBackoff {
		return maxBackoff
	}
	return wait
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrChannelClosed) || errors.Is(err, amqp091.ErrClosed) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, fragment := range []string{"connection", "eof", "broken pipe", "closed network"} {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
