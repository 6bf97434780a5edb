// Package jobs ejecuta la facturación mensual en segundo plano con asynq:
// tareas, worker con programación cron y cliente para encolar.
package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueBilling cola de las tareas de facturación.
	QueueBilling = "billing"
	// TaskGenerateMonthlyInvoices genera las facturas mensuales de un período.
	TaskGenerateMonthlyInvoices = "invoices:generate-monthly"

	generateTimeout = 30 * time.Minute
)

// GenerateMonthlyPayload período a generar; campos ausentes = mes actual.
type GenerateMonthlyPayload struct {
	Year  *int `json:"year,omitempty"`
	Month *int `json:"month,omitempty"`
	Force bool `json:"force,omitempty"`
}

// NewGenerateMonthlyTask construye la tarea. Sin reintentos: una corrida fallida se
// relanza a mano después de revisar el error.
func NewGenerateMonthlyTask(payload GenerateMonthlyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskGenerateMonthlyInvoices, body,
		asynq.Queue(QueueBilling),
		asynq.MaxRetry(0),
		asynq.Timeout(generateTimeout),
	), nil
}
