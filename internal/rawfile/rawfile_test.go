package rawfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/medallion/internal/errs"
	"github.com/vk/medallion/internal/table"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSV_InfersTypes(t *testing.T) {
	path := write(t, "raw_orders.csv", `id,customer,ordered_at,store_id,subtotal,tax_paid,is_food
o1,c1,2016-09-01T15:01:00,s1,700,0.42,true
o2,c2,2016-09-02T10:30:00,s1,1200,,false
`)

	tbl, err := ReadCSV(context.Background(), path, CSVOptions{})
	require.NoError(t, err)
	require.NoError(t, tbl.Validate())

	assert.Equal(t, "raw_orders", tbl.Name)
	assert.Equal(t, []table.Column{
		{Name: "id", Type: table.String},
		{Name: "customer", Type: table.String},
		{Name: "ordered_at", Type: table.Timestamp},
		{Name: "store_id", Type: table.String},
		{Name: "subtotal", Type: table.Int64},
		{Name: "tax_paid", Type: table.Float64},
		{Name: "is_food", Type: table.Bool},
	}, tbl.Columns)
	require.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, time.Date(2016, 9, 1, 15, 1, 0, 0, time.UTC), tbl.Rows[0][2])
	assert.Equal(t, int64(700), tbl.Rows[0][4])
	assert.Nil(t, tbl.Rows[1][5], "empty fields are NULL")
}

func TestReadCSV_Options(t *testing.T) {
	path := write(t, "items.csv", "id;price\n1;250\n2;300\n")

	tbl, err := ReadCSV(context.Background(), path, CSVOptions{Delimiter: ";", AllVarchar: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "price"}, tbl.ColumnNames())
	assert.Equal(t, table.String, tbl.Columns[1].Type)
	assert.Equal(t, "250", tbl.Rows[0][1])
}

func TestReadJSONL_NestedValuesBecomeJSONText(t *testing.T) {
	path := write(t, "support_tickets.jsonl",
		`{"ticket_id":"t1","order_id":"o1","sentiment":{"score":0.8,"model":"v2"},"customer_external_id":"x"}
{"ticket_id":"t2","order_id":"o2","sentiment":{"score":-0.25,"model":"v2"},"customer_external_id":"y"}
`)

	tbl, err := ReadJSONL(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "support_tickets", tbl.Name)
	assert.Equal(t, []string{"ticket_id", "order_id", "sentiment", "customer_external_id"}, tbl.ColumnNames())

	idx := tbl.ColumnIndex("sentiment")
	assert.Equal(t, table.String, tbl.Columns[idx].Type)

	var sentiment struct {
		Score float64 `json:"score"`
		Model string  `json:"model"`
	}
	require.NoError(t, json.Unmarshal([]byte(tbl.Rows[1][idx].(string)), &sentiment))
	assert.Equal(t, -0.25, sentiment.Score)
	assert.Equal(t, "v2", sentiment.Model)
}

func TestRead_Errors(t *testing.T) {
	_, err := ReadCSV(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), CSVOptions{})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = ReadJSONL(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, errs.ErrIO)

	bad := write(t, "bad.jsonl", "{not json\n")
	_, err = ReadJSONL(context.Background(), bad)
	assert.ErrorIs(t, err, errs.ErrIO)
	assert.NotErrorIs(t, err, errs.ErrNotFound)
}
