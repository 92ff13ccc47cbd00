package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeVerificationEmail = "email:verification"

// AsynqQueue is a Redis backed Notifier. The same process runs the asynq
// server consuming the tasks it enqueues
type AsynqQueue struct {
	client *asynq.Client
	server *asynq.Server
	handle JobHandler
}

func NewAsynqQueue(opt asynq.RedisClientOpt, workers int, h JobHandler) *AsynqQueue {
	return &AsynqQueue{
		client: asynq.NewClient(opt),
		server: asynq.NewServer(opt, asynq.Config{
			Concurrency: workers,
			Logger:      zap.S(),
		}),
		handle: h,
	}
}

func (q *AsynqQueue) Enqueue(ctx context.Context, job VerificationEmailJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job, %w", err)
	}

	task := asynq.NewTask(TypeVerificationEmail, payload, asynq.MaxRetry(0))

	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue job, %w", err)
	}

	zap.L().Debug("Queued notification job", zap.String("task_id", info.ID), zap.Uint("user_id", job.UserID))
	return nil
}

// Start runs the consumer in the background
func (q *AsynqQueue) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeVerificationEmail, q.process)

	return q.server.Start(mux)
}

// process swallows delivery errors so asynq never retries a send
func (q *AsynqQueue) process(ctx context.Context, t *asynq.Task) error {
	var job VerificationEmailJob
	if err := json.Unmarshal(t.Payload(), &job); err != nil {
		return fmt.Errorf("malformed %s payload, %w", TypeVerificationEmail, asynq.SkipRetry)
	}

	if err := q.handle(ctx, job); err != nil {
		zap.L().Error("Notification job finished with an error",
			zap.Uint("user_id", job.UserID),
			zap.Error(err))
	}

	return nil
}

func (q *AsynqQueue) Close() {
	q.server.Shutdown()

	if err := q.client.Close(); err != nil {
		zap.L().Error("Failed to close asynq client", zap.Error(err))
	}
}
