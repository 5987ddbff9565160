package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/vladimiradmaev/mammafy-helper/internal/domain"
)

// TelegramSender posts notifications into the owner's chat
type TelegramSender struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramSender creates a sender for chatID
func NewTelegramSender(api *tgbotapi.BotAPI, chatID int64) *TelegramSender {
	return &TelegramSender{api: api, chatID: chatID}
}

func (s *TelegramSender) Send(ctx context.Context, req domain.NotificationRequest) error {
	msg := tgbotapi.NewMessage(s.chatID, FormatMessage(req))
	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram notification: %w", err)
	}
	return nil
}

// FormatMessage renders a request as chat text.
func FormatMessage(req domain.NotificationRequest) string {
	return fmt.Sprintf("🔔 %s\n%s", req.Title, req.Body)
}

// AMQPSender publishes notifications as JSON messages to a queue
type AMQPSender struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewAMQPSender connects to the broker and declares a durable queue
func NewAMQPSender(url, queue string) (*AMQPSender, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	return &AMQPSender{conn: conn, channel: ch, queue: queue}, nil
}

func (s *AMQPSender) Send(ctx context.Context, req domain.NotificationRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	err = s.channel.PublishWithContext(ctx, "", s.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    req.ID,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// Close closes the channel and the connection
func (s *AMQPSender) Close() error {
	if err := s.channel.Close(); err != nil {
		s.conn.Close()
		return err
	}
	return s.conn.Close()
}
