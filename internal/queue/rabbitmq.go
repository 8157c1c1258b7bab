package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hajj_backend/internal/logger"

	"github.com/streadway/amqp"
)

type RabbitMQConfig struct {
	URL        string
	Exchange   string
	Queue      string
	RoutingKey string
	RetryCount int
	RetryDelay time.Duration
}

// RabbitMQClient держит соединение и канал, переподключается при обрыве.
type RabbitMQClient struct {
	config     *RabbitMQConfig
	connection *amqp.Connection
	channel    *amqp.Channel
	mu         sync.RWMutex
	isClosing  bool
}

func NewRabbitMQClient(config *RabbitMQConfig) *RabbitMQClient {
	if config.RetryCount <= 0 {
		config.RetryCount = 1
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}
	return &RabbitMQClient{config: config}
}

func (r *RabbitMQClient) Connect() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	for i := 0; i < r.config.RetryCount; i++ {
		if err = r.dial(); err == nil {
			logger.Info("connected to RabbitMQ", "exchange", r.config.Exchange, "queue", r.config.Queue)
			go r.handleReconnection(r.connection, r.channel)
			return nil
		}

		logger.Warn("RabbitMQ connection failed", "attempt", i+1, "max_attempts", r.config.RetryCount, "error", err)
		if i < r.config.RetryCount-1 {
			time.Sleep(r.config.RetryDelay)
		}
	}
	return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
}

// dial открывает соединение и объявляет exchange, очередь и привязку.
// Очередь существует до первой публикации, даже если ни один воркер еще не запущен.
func (r *RabbitMQClient) dial() error {
	conn, err := amqp.Dial(r.config.URL)
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if err := r.declareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return err
	}

	r.connection = conn
	r.channel = ch
	return nil
}

func (r *RabbitMQClient) declareTopology(ch *amqp.Channel) error {
	err := ch.ExchangeDeclare(
		r.config.Exchange, // name
		"topic",           // type
		true,              // durable
		false,             // auto-deleted
		false,             // internal
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if r.config.Queue == "" {
		return nil
	}

	_, err = ch.QueueDeclare(
		r.config.Queue, // name
		true,           // durable
		false,          // delete when unused
		false,          // exclusive
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(r.config.Queue, r.config.RoutingKey, r.config.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// handleReconnection ждет закрытия соединения или канала и переподключается,
// пока клиент не закрыт явно.
func (r *RabbitMQClient) handleReconnection(conn *amqp.Connection, ch *amqp.Channel) {
	connClose := conn.NotifyClose(make(chan *amqp.Error, 1))
	chClose := ch.NotifyClose(make(chan *amqp.Error, 1))

	var reason *amqp.Error
	select {
	case reason = <-connClose:
	case reason = <-chClose:
		// Канал закрыт брокером: пересоздаем соединение целиком
		_ = conn.Close()
	}

	if r.closing() {
		return
	}

	logger.Warn("RabbitMQ connection lost, reconnecting", "error", reason)
	for !r.closing() {
		time.Sleep(r.config.RetryDelay)
		err := r.Connect()
		if err == nil {
			return
		}
		logger.Error("RabbitMQ reconnect failed", "error", err)
	}
}

func (r *RabbitMQClient) closing() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isClosing
}

func (r *RabbitMQClient) Channel() *amqp.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.channel
}

func (r *RabbitMQClient) IsConnected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connection != nil && !r.connection.IsClosed()
}

func (r *RabbitMQClient) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isClosing {
		return nil
	}
	r.isClosing = true

	var closeErr error
	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			closeErr = fmt.Errorf("channel close: %w", err)
		}
	}
	if r.connection != nil {
		if err := r.connection.Close(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("connection close: %w", err)
		}
	}
	return closeErr
}

// RabbitMQQueue публикует задачи в topic exchange и читает их из durable очереди.
type RabbitMQQueue struct {
	client     *RabbitMQClient
	queueName  string
	routingKey string
	prefetch   int
	wg         sync.WaitGroup

	// subscribe открывает поток доставок на текущем канале клиента
	subscribe func() (<-chan amqp.Delivery, error)
}

func NewRabbitMQQueue(client *RabbitMQClient, queueName, routingKey string, prefetch int) *RabbitMQQueue {
	q := &RabbitMQQueue{
		client:     client,
		queueName:  queueName,
		routingKey: routingKey,
		prefetch:   prefetch,
	}
	q.subscribe = q.consume
	return q
}

func (q *RabbitMQQueue) Enqueue(ctx context.Context, job Job) error {
	if !q.client.IsConnected() {
		return fmt.Errorf("no connection to RabbitMQ")
	}

	err := q.client.Channel().Publish(
		q.client.config.Exchange,
		q.routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         job.Payload,
			DeliveryMode: amqp.Persistent,
			MessageId:    job.ID,
			Timestamp:    job.EnqueuedAt,
			Type:         job.Type,
			Headers: amqp.Table{
				"request_id": logger.GetRequestID(ctx),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("publish job: %w", err)
	}
	return nil
}

func (q *RabbitMQQueue) consume() (<-chan amqp.Delivery, error) {
	if !q.client.IsConnected() {
		return nil, fmt.Errorf("no connection to RabbitMQ")
	}
	ch := q.client.Channel()

	if q.prefetch > 0 {
		if err := ch.Qos(q.prefetch, 0, false); err != nil {
			return nil, fmt.Errorf("set qos: %w", err)
		}
	}

	deliveries, err := ch.Consume(
		q.queueName,
		"",    // consumer tag генерирует сервер
		false, // auto-ack: подтверждаем вручную
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("start consuming: %w", err)
	}
	return deliveries, nil
}

// Start подписывается на очередь. После обрыва соединения подписка
// восстанавливается, пока ctx не отменен и очередь не закрыта.
func (q *RabbitMQQueue) Start(ctx context.Context, handler Handler) error {
	deliveries, err := q.subscribe()
	if err != nil {
		return err
	}

	logger.Info("consuming queue", "queue", q.queueName, "routing_key", q.routingKey)

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.run(ctx, deliveries, handler)
	}()
	return nil
}

func (q *RabbitMQQueue) run(ctx context.Context, deliveries <-chan amqp.Delivery, handler Handler) {
	for {
		if deliveries != nil {
			if !q.drain(ctx, deliveries, handler) {
				return
			}
			logger.Warn("delivery channel closed, resubscribing", "queue", q.queueName)
		}
		if q.client.closing() {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(q.client.config.RetryDelay):
		}

		var err error
		deliveries, err = q.subscribe()
		if err != nil {
			logger.Warn("resubscribe failed", "queue", q.queueName, "error", err)
			deliveries = nil
			continue
		}
		logger.Info("consuming queue again", "queue", q.queueName)
	}
}

// drain обрабатывает доставки. false - ctx отменен, true - канал доставок закрыт.
func (q *RabbitMQQueue) drain(ctx context.Context, deliveries <-chan amqp.Delivery, handler Handler) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case d, ok := <-deliveries:
			if !ok {
				return true
			}
			q.handleDelivery(ctx, d, handler)
		}
	}
}

func (q *RabbitMQQueue) handleDelivery(ctx context.Context, d amqp.Delivery, handler Handler) {
	job := Job{
		ID:         d.MessageId,
		Type:       d.Type,
		Payload:    d.Body,
		EnqueuedAt: d.Timestamp,
	}
	jobCtx := logger.WithJobID(ctx, job.ID)
	if rid, ok := d.Headers["request_id"].(string); ok && rid != "" {
		jobCtx = logger.WithRequestID(jobCtx, rid)
	}

	if err := runHandler(jobCtx, job, handler); err != nil {
		logger.CtxWithError(jobCtx, "queue job failed", err, "job_type", job.Type)
		// Без повторной постановки: сообщение уходит в DLX, если он настроен
		if nackErr := d.Nack(false, false); nackErr != nil {
			logger.CtxWithError(jobCtx, "nack failed", nackErr)
		}
		return
	}

	if err := d.Ack(false); err != nil {
		logger.CtxWithError(jobCtx, "ack failed", err)
	}
}

// runHandler превращает панику обработчика в ошибку задачи
func runHandler(ctx context.Context, job Job, handler Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return handler(ctx, job)
}

func (q *RabbitMQQueue) Close() error {
	err := q.client.Close()
	q.wg.Wait()
	return err
}
