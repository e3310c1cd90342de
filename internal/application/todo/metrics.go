package todo

import (
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/rezkam/todos/internal/application/todo"

type metrics struct {
	listsCreated metric.Int64Counter
	listsDeleted metric.Int64Counter
	todosCreated metric.Int64Counter
	todosToggled metric.Int64Counter
	todosDeleted metric.Int64Counter
}

// newMetrics registers the service counters on the global meter provider.
// Falls back to no-op instruments if registration fails.
func newMetrics() *metrics {
	m, err := registerMetrics(otel.Meter(meterName))
	if err != nil {
		slog.Warn("failed to register todo metrics, using no-op instruments", "error", err)
		m, _ = registerMetrics(noop.NewMeterProvider().Meter(meterName))
	}
	return m
}

func registerMetrics(meter metric.Meter) (*metrics, error) {
	var m metrics
	var errs []error
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		errs = append(errs, err)
		return c
	}

	m.listsCreated = counter("todos.lists.created", "Todo lists created")
	m.listsDeleted = counter("todos.lists.deleted", "Todo lists deleted")
	m.todosCreated = counter("todos.items.created", "Todos added to a list")
	m.todosToggled = counter("todos.items.toggled", "Todos toggled between done and undone")
	m.todosDeleted = counter("todos.items.deleted", "Todos removed from a list")

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &m, nil
}
