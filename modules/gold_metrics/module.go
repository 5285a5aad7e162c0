// Package gold_metrics provides the business aggregates of the gold layer.
// Both transforms are expressed in SQL and evaluated by the embedded engine.
package gold_metrics

import (
	"context"
	"fmt"

	"github.com/vk/medallion/internal/duck"
	"github.com/vk/medallion/internal/registry"
	"github.com/vk/medallion/internal/table"
)

// aovQuery averages order totals per store and calendar month. Halves round
// to even.
const aovQuery = `
SELECT a.store_id, s.name AS store_name, a.year, a.month, a.average_order_value_cents
FROM (
	SELECT store_id,
	       CAST(year(CAST(ordered_at AS TIMESTAMP)) AS BIGINT) AS year,
	       CAST(month(CAST(ordered_at AS TIMESTAMP)) AS BIGINT) AS month,
	       CAST(round_even(avg(order_total_cents), 0) AS BIGINT) AS average_order_value_cents
	FROM orders
	GROUP BY 1, 2, 3
) a
LEFT JOIN stores s ON s.store_id = a.store_id
ORDER BY a.store_id, a.year, a.month`

// ticketSummaryQuery keeps every order, in input order, with its ticket count.
const ticketSummaryQuery = `
WITH ticket_counts AS (
	SELECT order_id, count(*) AS ticket_count
	FROM tickets
	WHERE order_id IS NOT NULL
	GROUP BY order_id
)
SELECT o.order_id, o.ordered_at, o.store_id, s.name AS store_name,
       o.customer_id, c.name AS customer_name,
       CAST(coalesce(t.ticket_count, 0) AS BIGINT) AS ticket_count
FROM orders o
LEFT JOIN ticket_counts t ON t.order_id = o.order_id
LEFT JOIN customers c ON c.customer_id = o.customer_id
LEFT JOIN stores s ON s.store_id = o.store_id
ORDER BY o.rowid`

// Module implements the registry.Module interface.
type Module struct{}

// Register registers the module's transforms.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransform("aov_by_store_month", &registry.RegisteredTransform{
		Arity:       2,
		Description: "Average order value per store and month (inputs: orders, stores).",
		Fn:          sqlTransform("aov_by_store_month", aovQuery, "orders", "stores"),
	})
	r.RegisterTransform("orders_ticket_summary", &registry.RegisteredTransform{
		Arity:       4,
		Description: "Orders with store, customer and support ticket count (inputs: orders, tickets, customers, stores).",
		Fn:          sqlTransform("orders_ticket_summary", ticketSummaryQuery, "orders", "tickets", "customers", "stores"),
	})
}

// sqlTransform binds positional inputs to relation names and runs query.
func sqlTransform(name, query string, relations ...string) registry.TransformFunc {
	return func(ctx context.Context, _ any, inputs ...*table.Table) (any, error) {
		if len(inputs) != len(relations) {
			return nil, fmt.Errorf("%s: expected %d inputs, got %d", name, len(relations), len(inputs))
		}
		bound := make(map[string]*table.Table, len(relations))
		for i, rel := range relations {
			bound[rel] = inputs[i]
		}
		return duck.Eval(ctx, name, query, bound)
	}
}
