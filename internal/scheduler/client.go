package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"wholesale_crm_backend/internal/tasks/domain"
	"wholesale_crm_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Client enqueues delayed reminder jobs on Redis via asynq. A nil Client is
// safe to use and silently drops every schedule request, which keeps the API
// usable in deployments without Redis.
type Client struct {
	client       *asynq.Client
	queue        string
	reminderLead time.Duration
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client:       asynq.NewClient(opt),
		queue:        queue,
		reminderLead: cfg.GetTaskReminderLead(),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleDueReminder enqueues a reminder that fires shortly before the task's
// due date. Tasks without a due date or with a reminder time already in the
// past are enqueued for immediate processing by asynq.
func (c *Client) ScheduleDueReminder(ctx context.Context, task domain.Task) error {
	if c == nil || c.client == nil {
		return nil
	}
	if task.DueDate == nil {
		return nil
	}

	job, err := NewDueReminderTask(DueReminderPayload{
		TaskID:  task.ID.String(),
		DueDate: *task.DueDate,
	})
	if err != nil {
		return err
	}

	runAt := task.DueDate.Add(-c.reminderLead)
	_, err = c.client.EnqueueContext(ctx, job, asynq.ProcessAt(runAt), asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
