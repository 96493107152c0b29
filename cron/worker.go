package cron

import (
	"context"
	"log"
	"time"

	"mastera/config"
	"mastera/services/sweep"
	"mastera/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitSweepWorker runs the reconciliation worker and its scheduler in background.
func InitSweepWorker(sweeper *sweep.Sweeper) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			// Cycles must not overlap.
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
			RetryDelayFunc: func(n int, e error, t *asynq.Task) time.Duration {
				return config.AppConfig.SweepRetryBackoff
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSweepRun, handleSweepTask(sweeper))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[SweepWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SweepWorker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SweepWorker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()

	startScheduler(redisOpts)
}

func handleSweepTask(sweeper *sweep.Sweeper) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		return sweeper.Run(ctx)
	}
}

// startScheduler enqueues a sweep run once per configured interval.
func startScheduler(redisOpts asynq.RedisClientOpt) {
	scheduler := asynq.NewScheduler(redisOpts, nil)

	spec := "@every " + config.AppConfig.SweepInterval.String()
	if _, err := scheduler.Register(spec, tasks.NewSweepTask()); err != nil {
		log.Fatalf("[SweepWorker] ❗ Failed to register sweep schedule: %v", err)
	}

	go func() {
		log.Printf("[SweepWorker] ⏰ Sweep scheduled %s", spec)
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[SweepWorker] ❗ Scheduler stopped: %v", err)
		}
	}()
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[SweepWorker] ⚠️ Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
