package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/muhammadolammi/careeradvisor/internal/report"
)

func handleDelivery(ctx context.Context, workerConfig *WorkerConfig, id int, body []byte) {
	job := report.Job{}
	if err := json.Unmarshal(body, &job); err != nil {
		workerConfig.Log.Error("error unmarshalling report job", "worker", id+1, "error", err)
		return
	}
	workerConfig.Log.Info("worker processing report", "worker", id+1, "submission", job.SubmissionID)

	if err := workerConfig.Reports.Process(ctx, job); err != nil {
		workerConfig.Log.Error("error processing report", "submission", job.SubmissionID, "error", err)
	}
}

func worker(ctx context.Context, id int, workerConfig *WorkerConfig, wg *sync.WaitGroup) error {
	defer wg.Done()

	ch, err := workerConfig.RabbitConn.Channel()
	if err != nil {
		return fmt.Errorf("error connecting to rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if err := report.DeclareQueue(ch); err != nil {
		return err
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("error setting prefetch: %w", err)
	}

	msgs, err := ch.Consume(
		report.QueueName,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("error consuming rabbitmq message: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			handleDelivery(context.WithoutCancel(ctx), workerConfig, id, msg.Body)
			// Deliveries are attempted once; failures are recorded on the submission.
			if err := msg.Ack(false); err != nil {
				workerConfig.Log.Warn("failed to ack report job", "worker", id+1, "error", err)
			}
		}
	}
}

// StartConsumerWorkerPool runs numWorkers report consumers until ctx is done.
func (workerConfig *WorkerConfig) StartConsumerWorkerPool(ctx context.Context, numWorkers int) {
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := range numWorkers {
		workerConfig.Log.Info("report worker started", "worker", i+1)
		go func() {
			if err := worker(ctx, i, workerConfig, &wg); err != nil {
				workerConfig.Log.Error("report worker stopped", "worker", i+1, "error", err)
			}
		}()
	}
	wg.Wait()
}
