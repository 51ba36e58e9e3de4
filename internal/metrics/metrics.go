// Package metrics содержит счётчики Prometheus биллингового ядра.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WebhookEventsTotal считает обработанные webhook-события по виду и результату.
var WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "billing_webhook_events_total",
	Help: "Processed payment provider webhook events.",
}, []string{"event", "result"})

// TransferFailuresTotal считает неудавшиеся переводы средств.
// Перевод — побочный эффект: его провал не откатывает обновление профиля,
// поэтому единственный след — лог и этот счётчик.
var TransferFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "billing_transfer_failures_total",
	Help: "Failed platform fee fund transfers.",
})

// Результаты обработки события для метки result.
const (
	ResultOK      = "ok"
	ResultIgnored = "ignored"
	ResultError   = "error"
)
