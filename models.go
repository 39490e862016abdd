package main

import (
	"github.com/streadway/amqp"

	"github.com/muhammadolammi/careeradvisor/internal/logger"
	"github.com/muhammadolammi/careeradvisor/internal/report"
)

// WorkerConfig is what each report consumer needs.
type WorkerConfig struct {
	RabbitConn *amqp.Connection
	Reports    *report.Worker
	Log        *logger.Logger
}
