package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ordersTable(t *testing.T) *Table {
	t.Helper()
	tbl := New("orders",
		Column{Name: "id", Type: String},
		Column{Name: "store_id", Type: String},
		Column{Name: "order_total", Type: Int64},
		Column{Name: "ordered_at", Type: Timestamp},
	)
	at := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	require.NoError(t, tbl.Append("o1", "s1", 1200, at))
	require.NoError(t, tbl.Append("o2", "s2", int64(800), at.Add(time.Hour)))
	require.NoError(t, tbl.Append("o3", nil, nil, nil))
	return tbl
}

func TestAppend_CoercesAndValidates(t *testing.T) {
	tbl := ordersTable(t)
	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, int64(1200), tbl.Rows[0][2], "int is coerced to int64")

	err := tbl.Append("o4", "s1", "not-a-number", nil)
	assert.ErrorContains(t, err, `column "order_total"`)

	err = tbl.Append("too", "short")
	assert.ErrorContains(t, err, "row has 2 values")
	assert.Equal(t, 3, tbl.NumRows(), "failed appends leave the table unchanged")
}

func TestValidate(t *testing.T) {
	t.Run("valid table", func(t *testing.T) {
		assert.NoError(t, ordersTable(t).Validate())
	})

	t.Run("nil table", func(t *testing.T) {
		var tbl *Table
		assert.ErrorContains(t, tbl.Validate(), "nil")
	})

	t.Run("no columns", func(t *testing.T) {
		assert.ErrorContains(t, New("empty").Validate(), "no columns")
	})

	t.Run("duplicate column", func(t *testing.T) {
		tbl := New("dup", Column{Name: "a", Type: String}, Column{Name: "a", Type: Int64})
		assert.ErrorContains(t, tbl.Validate(), "duplicate column")
	})

	t.Run("ragged row", func(t *testing.T) {
		tbl := New("ragged", Column{Name: "a", Type: String})
		tbl.Rows = append(tbl.Rows, Row{"x", "y"})
		assert.ErrorContains(t, tbl.Validate(), "row 0 has 2 values")
	})

	t.Run("wrong cell type", func(t *testing.T) {
		tbl := New("typed", Column{Name: "a", Type: Bool})
		tbl.Rows = append(tbl.Rows, Row{"true"})
		assert.ErrorContains(t, tbl.Validate(), "not a valid bool")
	})
}

func TestClone_IsIndependent(t *testing.T) {
	orig := ordersTable(t)
	cp := orig.Clone()
	cp.Rows[0][0] = "changed"
	cp.Columns[0].Name = "renamed"

	assert.Equal(t, "o1", orig.Rows[0][0])
	assert.Equal(t, "id", orig.Columns[0].Name)
}

func TestRename_IgnoresAbsentColumns(t *testing.T) {
	orig := ordersTable(t)
	renamed := orig.Rename(map[string]string{"id": "order_id", "missing": "whatever"})

	assert.Equal(t, []string{"order_id", "store_id", "order_total", "ordered_at"}, renamed.ColumnNames())
	assert.Equal(t, []string{"id", "store_id", "order_total", "ordered_at"}, orig.ColumnNames())
}

func TestSelectAndDrop(t *testing.T) {
	orig := ordersTable(t)

	sel, err := orig.Select("order_total", "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"order_total", "id"}, sel.ColumnNames())
	assert.Equal(t, Row{int64(1200), "o1"}, sel.Rows[0])

	_, err = orig.Select("nope")
	assert.ErrorContains(t, err, `no column "nope"`)

	dropped := orig.Drop("store_id", "nope")
	assert.Equal(t, []string{"id", "order_total", "ordered_at"}, dropped.ColumnNames())
	require.NoError(t, dropped.Validate())
}

func TestWithColumn(t *testing.T) {
	orig := ordersTable(t)

	added, err := orig.WithColumn(Column{Name: "flag", Type: Bool}, []any{true, false, nil})
	require.NoError(t, err)
	assert.Equal(t, "flag", added.Columns[4].Name)
	assert.Equal(t, true, added.Rows[0][4])
	assert.Len(t, orig.Columns, 4)

	replaced, err := orig.WithColumn(Column{Name: "ordered_at", Type: Date}, []any{
		time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC), nil, nil,
	})
	require.NoError(t, err)
	assert.Equal(t, Date, replaced.Columns[3].Type)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), replaced.Rows[0][3])

	_, err = orig.WithColumn(Column{Name: "x", Type: Int64}, []any{1})
	assert.ErrorContains(t, err, "has 1 values")
}

func TestValuesAndFilter(t *testing.T) {
	orig := ordersTable(t)

	ids, err := orig.Values("id")
	require.NoError(t, err)
	assert.Equal(t, []any{"o1", "o2", "o3"}, ids)

	v, err := orig.Value(1, "store_id")
	require.NoError(t, err)
	assert.Equal(t, "s2", v)

	_, err = orig.Value(9, "store_id")
	assert.Error(t, err)

	withStore := orig.Filter(func(r Row) bool { return r[1] != nil })
	assert.Equal(t, 2, withStore.NumRows())
}

func TestType_TextRoundTrip(t *testing.T) {
	for _, typ := range []Type{String, Int64, Float64, Bool, Date, Timestamp} {
		text, err := typ.MarshalText()
		require.NoError(t, err)
		var parsed Type
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, typ, parsed)
	}
	_, err := ParseType("decimal")
	assert.Error(t, err)
}

func TestCheckValue_TimesAreCanonical(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	testCases := []struct {
		name  string
		typ   Type
		value time.Time
		ok    bool
	}{
		{"utc midnight date", Date, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"date with a time of day", Date, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), false},
		{"date in another zone", Date, time.Date(2024, 3, 1, 0, 0, 0, 0, ist), false},
		{"utc timestamp", Timestamp, time.Date(2024, 3, 1, 9, 0, 0, 1000, time.UTC), true},
		{"timestamp with nanoseconds", Timestamp, time.Date(2024, 3, 1, 9, 0, 0, 1, time.UTC), false},
		{"timestamp in another zone", Timestamp, time.Date(2024, 3, 1, 9, 0, 0, 0, ist), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckValue(tc.typ, tc.value)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCoerce_NormalizesTimes(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	at := time.Date(2024, 3, 1, 23, 30, 0, 123456789, ist)

	d, err := Coerce(Date, at)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d)

	ts, err := Coerce(Timestamp, at)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 18, 0, 0, 123456000, time.UTC), ts)
	assert.NoError(t, CheckValue(Timestamp, ts))
}
