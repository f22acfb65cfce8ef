// Package ingest consumes position reports from Kafka and feeds them to the position service.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"celltrack-api/internal/models"
	"celltrack-api/internal/service"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// MessageReader is the subset of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ReportProcessor handles one decoded report.
type ReportProcessor interface {
	ProcessReport(ctx context.Context, report models.PositionReport) (*models.PositionRecord, error)
}

var _ MessageReader = (*kafka.Reader)(nil)

const fetchBackoff = time.Second

// ReaderConfig describes the topic to consume.
type ReaderConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// NewKafkaReader builds a consumer-group reader for cfg.
func NewKafkaReader(cfg ReaderConfig, logger zerolog.Logger) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		StartOffset:    kafka.FirstOffset,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: time.Second,
		Dialer:         &kafka.Dialer{Timeout: 10 * time.Second, DualStack: true},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error().Msgf(msg, args...)
		}),
	})
}

// Consumer reads reports from a topic and processes each one on a fixed pool of workers.
type Consumer struct {
	reader    MessageReader
	processor ReportProcessor
	workers   int
	logger    zerolog.Logger
}

func NewConsumer(reader MessageReader, processor ReportProcessor, workers int, logger zerolog.Logger) *Consumer {
	if workers <= 0 {
		workers = 3
	}
	return &Consumer{reader: reader, processor: processor, workers: workers, logger: logger}
}

// job is one fetched message. done is closed once the message was handled,
// or with skipped set when shutdown came before a worker picked it up.
type job struct {
	msg     kafka.Message
	done    chan struct{}
	skipped bool
}

// Run consumes until ctx is cancelled. Every fetched message is committed once handled,
// including ones that could not be decoded. Commits are issued in fetch order, so an
// offset is never committed ahead of an earlier message that is still in flight.
func (c *Consumer) Run(ctx context.Context) error {
	jobs := make(chan *job)
	pending := make(chan *job, c.workers)
	bg := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := range jobs {
				c.handle(bg, worker, j.msg)
				close(j.done)
			}
		}(i)
	}

	committed := make(chan struct{})
	go func() {
		defer close(committed)
		c.commitLoop(bg, pending)
	}()

	c.logger.Info().Int("workers", c.workers).Msg("ingest consumer started")

	err := c.fetchLoop(ctx, jobs, pending)
	close(jobs)
	wg.Wait()
	close(pending)
	<-committed

	c.logger.Info().Msg("ingest consumer stopped")
	return err
}

func (c *Consumer) fetchLoop(ctx context.Context, jobs chan<- *job, pending chan<- *job) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			c.logger.Error().Err(err).Msg("failed to fetch message")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(fetchBackoff):
			}
			continue
		}

		j := &job{msg: msg, done: make(chan struct{})}
		select {
		case pending <- j:
		case <-ctx.Done():
			return nil
		}
		select {
		case jobs <- j:
		case <-ctx.Done():
			j.skipped = true
			close(j.done)
			return nil
		}
	}
}

// commitLoop commits handled messages in the order they were fetched.
func (c *Consumer) commitLoop(ctx context.Context, pending <-chan *job) {
	for j := range pending {
		<-j.done
		if j.skipped {
			continue
		}
		if err := c.reader.CommitMessages(ctx, j.msg); err != nil {
			c.logger.Error().Err(err).
				Int("partition", j.msg.Partition).
				Int64("offset", j.msg.Offset).
				Msg("failed to commit message")
		}
	}
}

func (c *Consumer) handle(ctx context.Context, worker int, msg kafka.Message) {
	logger := c.logger.With().
		Int("worker", worker).
		Int("partition", msg.Partition).
		Int64("offset", msg.Offset).
		Logger()

	var report models.PositionReport
	if err := json.Unmarshal(msg.Value, &report); err != nil {
		logger.Warn().Err(err).Msg("dropping undecodable position report")
		return
	}

	rec, err := c.processor.ProcessReport(ctx, report)
	switch {
	case errors.Is(err, service.ErrInvalidReport):
		logger.Warn().Str("vehicle_id", report.VehicleID).Msg("dropping invalid position report")
	case err != nil:
		logger.Error().Err(err).Str("vehicle_id", report.VehicleID).Msg("failed to process position report")
	default:
		logger.Debug().
			Str("vehicle_id", rec.VehicleID).
			Str("method", string(rec.Estimate.Method)).
			Msg("position report processed")
	}
}
