// Package enrich_tickets links support tickets to customers through their
// order and flattens the nested sentiment record.
package enrich_tickets

import (
	"context"
	"encoding/json"

	"github.com/vk/medallion/internal/registry"
	"github.com/vk/medallion/internal/table"
)

// Args defines the optional arguments block of an `enrich_tickets` asset.
// Defaults match the raw orders extract.
type Args struct {
	OrderIDColumn  string `hcl:"order_id_column,optional"`
	CustomerColumn string `hcl:"customer_column,optional"`
}

func (a *Args) withDefaults() Args {
	out := Args{OrderIDColumn: "id", CustomerColumn: "customer"}
	if a != nil && a.OrderIDColumn != "" {
		out.OrderIDColumn = a.OrderIDColumn
	}
	if a != nil && a.CustomerColumn != "" {
		out.CustomerColumn = a.CustomerColumn
	}
	return out
}

// Columns removed from the ticket table once they have been replaced.
var dropped = []string{"sentiment", "customer_external_id"}

// Module implements the registry.Module interface.
type Module struct{}

// Register registers the module's transforms.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTransform("enrich_tickets", &registry.RegisteredTransform{
		NewArgs:     func() any { return new(Args) },
		Arity:       2,
		Description: "Adds customer_id and flattened sentiment to support tickets (inputs: tickets, orders).",
		Fn:          run,
	})
}

func run(_ context.Context, args any, inputs ...*table.Table) (any, error) {
	a, _ := args.(*Args)
	return Enrich(inputs[0], inputs[1], a.withDefaults())
}

// Enrich left-joins each ticket's order_id to the order's customer and splits
// sentiment into sentiment_score and sentiment_model.
func Enrich(tickets, orders *table.Table, a Args) (*table.Table, error) {
	orderIDs, err := tickets.Values("order_id")
	if err != nil {
		return nil, err
	}
	ids, err := orders.Values(a.OrderIDColumn)
	if err != nil {
		return nil, err
	}
	customers, err := orders.Values(a.CustomerColumn)
	if err != nil {
		return nil, err
	}
	customerType := orders.Columns[orders.ColumnIndex(a.CustomerColumn)].Type

	lookup := make(map[any]any, len(ids))
	for i, id := range ids {
		if id == nil {
			continue
		}
		if _, seen := lookup[id]; !seen {
			lookup[id] = customers[i]
		}
	}

	customerIDs := make([]any, len(orderIDs))
	for i, id := range orderIDs {
		if id != nil {
			customerIDs[i] = lookup[id]
		}
	}

	scores := make([]any, tickets.NumRows())
	models := make([]any, tickets.NumRows())
	if sentiments, err := tickets.Values("sentiment"); err == nil {
		for i, raw := range sentiments {
			scores[i], models[i] = parseSentiment(raw)
		}
	}

	out, err := tickets.WithColumn(table.Column{Name: "customer_id", Type: customerType}, customerIDs)
	if err != nil {
		return nil, err
	}
	if out, err = out.WithColumn(table.Column{Name: "sentiment_score", Type: table.Float64}, scores); err != nil {
		return nil, err
	}
	if out, err = out.WithColumn(table.Column{Name: "sentiment_model", Type: table.String}, models); err != nil {
		return nil, err
	}
	return out.Drop(dropped...), nil
}

// parseSentiment reads {"score": n, "model": s}. Anything that is not such an
// object yields nulls.
func parseSentiment(raw any) (score, model any) {
	s, ok := raw.(string)
	if !ok || s == "" {
		return nil, nil
	}
	var v struct {
		Score *float64 `json:"score"`
		Model *string  `json:"model"`
	}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, nil
	}
	if v.Score != nil {
		score = *v.Score
	}
	if v.Model != nil {
		model = *v.Model
	}
	return score, model
}

