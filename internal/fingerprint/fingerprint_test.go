package fingerprint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/medallion/internal/table"
)

func stores(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New("stores",
		table.Column{Name: "store_id", Type: table.String},
		table.Column{Name: "tax_rate", Type: table.Float64},
		table.Column{Name: "opened_at", Type: table.Date},
	)
	require.NoError(t, tbl.Append("s1", 0.04, time.Date(2016, 9, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, tbl.Append("s2", nil, time.Date(2017, 3, 12, 0, 0, 0, 0, time.UTC)))
	return tbl
}

func TestSchema(t *testing.T) {
	a := stores(t)
	b := stores(t).WithName("other")
	b.Rows = nil

	assert.Equal(t, Schema(a), Schema(b), "schema ignores name and rows")
	assert.Len(t, Schema(a), 16)

	renamed := a.Rename(map[string]string{"tax_rate": "rate"})
	assert.NotEqual(t, Schema(a), Schema(renamed))

	reordered, err := a.Select("tax_rate", "store_id", "opened_at")
	require.NoError(t, err)
	assert.NotEqual(t, Schema(a), Schema(reordered), "column order is part of the schema")
}

func TestContent(t *testing.T) {
	a := stores(t)
	b := stores(t)
	b.Rows[0], b.Rows[1] = b.Rows[1], b.Rows[0]
	assert.Equal(t, Content(a), Content(b), "row order does not matter")

	c := stores(t)
	c.Rows[1][1] = 0.05
	assert.NotEqual(t, Content(a), Content(c))

	d := stores(t)
	d.Rows = append(d.Rows, d.Rows[0])
	assert.NotEqual(t, Content(a), Content(d), "duplicates count")
}

func TestContent_CellBoundaries(t *testing.T) {
	mk := func(x, y string) *table.Table {
		tbl := table.New("t", table.Column{Name: "x", Type: table.String}, table.Column{Name: "y", Type: table.String})
		require.NoError(t, tbl.Append(x, y))
		return tbl
	}
	assert.NotEqual(t, Content(mk("ab", "c")), Content(mk("a", "bc")))
}
