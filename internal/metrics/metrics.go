// Package metrics - счётчики Prometheus, общие для слоёв приложения.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RepositoryOperations считает операции репозитория по имени и результату
	RepositoryOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "todo_repository_operations_total",
		Help: "Repository operations by operation and result code",
	}, []string{"operation", "result"})

	// RepositoryDuration - длительность операций репозитория
	RepositoryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "todo_repository_operation_duration_seconds",
		Help:    "Repository operation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"operation"})

	// OverdueMarked - сколько задач помечено просроченными
	OverdueMarked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "todo_overdue_marked_total",
		Help: "Tasks flagged as overdue by the evaluator",
	})

	// GateOutcomes - исходы подтверждений по действию
	GateOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "todo_confirmation_outcomes_total",
		Help: "Confirmation gate outcomes by action and outcome",
	}, []string{"action", "outcome"})

	// HTTPRequests - запросы по методу, маршруту и статусу
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "todo_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})
)
