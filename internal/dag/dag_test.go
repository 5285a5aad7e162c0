package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/medallion/internal/errs"
)

// build wires a graph from "from->to" pairs after adding nodes in order.
func build(t *testing.T, nodes []string, edges [][2]string) *Graph {
	t.Helper()
	g := New()
	for _, n := range nodes {
		g.AddNode(n)
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e[0], e[1]))
	}
	return g
}

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.Empty(t, g.nodes)
	assert.Equal(t, 0, g.Len())
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode("a")
	g.AddNode("a") // idempotent
	g.AddNode("b")

	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []string{"a", "b"}, g.Nodes())
	assert.True(t, g.Has("a"))
	assert.False(t, g.Has("c"))
	assert.Equal(t, 1, g.nodes["b"].index)
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"a", "b"}})

		deps, err := g.Dependencies("b")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, deps, "duplicate edge must not be recorded twice")

		dependents, err := g.Dependents("a")
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, dependents)
	})

	t.Run("error cases", func(t *testing.T) {
		g := build(t, []string{"a", "b"}, nil)

		err := g.AddEdge("dne", "a")
		assert.ErrorContains(t, err, "source node not found: dne")

		err = g.AddEdge("a", "dne")
		assert.ErrorContains(t, err, "destination node not found: dne")

		err = g.AddEdge("a", "a")
		assert.ErrorIs(t, err, errs.ErrCycleDetected)
	})
}

func TestDetectCycles(t *testing.T) {
	testCases := []struct {
		name     string
		nodes    []string
		edges    [][2]string
		wantPath string
	}{
		{name: "empty graph"},
		{name: "linear", nodes: []string{"a", "b", "c"}, edges: [][2]string{{"a", "b"}, {"b", "c"}}},
		{name: "diamond", nodes: []string{"a", "b", "c", "d"}, edges: [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}}},
		{name: "two node cycle", nodes: []string{"a", "b"}, edges: [][2]string{{"a", "b"}, {"b", "a"}}, wantPath: "a -> b -> a"},
		{name: "three node cycle", nodes: []string{"x", "a", "b", "c"}, edges: [][2]string{{"x", "a"}, {"a", "b"}, {"b", "c"}, {"c", "a"}}, wantPath: "a -> b -> c -> a"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := build(t, tc.nodes, tc.edges)
			err := g.DetectCycles()
			if tc.wantPath == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrCycleDetected)
			assert.Contains(t, err.Error(), tc.wantPath)
		})
	}
}

func TestClosure(t *testing.T) {
	// raw_a -> clean_a -> report <- clean_b <- raw_b, plus an unrelated node.
	g := build(t,
		[]string{"raw_a", "raw_b", "clean_a", "clean_b", "report", "other"},
		[][2]string{{"raw_a", "clean_a"}, {"raw_b", "clean_b"}, {"clean_a", "report"}, {"clean_b", "report"}},
	)

	got, err := g.Closure("report")
	require.NoError(t, err)
	assert.Equal(t, []string{"raw_a", "raw_b", "clean_a", "clean_b", "report"}, got)

	got, err = g.Closure("clean_a", "other")
	require.NoError(t, err)
	assert.Equal(t, []string{"raw_a", "clean_a", "other"}, got)

	_, err = g.Closure("missing")
	assert.ErrorContains(t, err, "node not found: missing")
}

func TestTopologicalOrder(t *testing.T) {
	t.Run("respects edges and insertion order", func(t *testing.T) {
		// Declared out of dependency order on purpose.
		g := build(t,
			[]string{"gold", "s1", "s2", "b1", "b2"},
			[][2]string{{"b1", "s1"}, {"b2", "s2"}, {"s1", "gold"}, {"s2", "gold"}},
		)

		order, err := g.TopologicalOrder()
		require.NoError(t, err)
		assert.Equal(t, []string{"b1", "s1", "b2", "s2", "gold"}, order)
	})

	t.Run("is stable across calls", func(t *testing.T) {
		g := build(t, []string{"c", "b", "a"}, nil)
		first, err := g.TopologicalOrder()
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			again, err := g.TopologicalOrder()
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
		assert.Equal(t, []string{"c", "b", "a"}, first)
	})

	t.Run("subset ignores outside edges", func(t *testing.T) {
		g := build(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})
		order, err := g.TopologicalOrder("c", "b")
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c"}, order)
	})

	t.Run("cycle", func(t *testing.T) {
		g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}})
		_, err := g.TopologicalOrder()
		assert.ErrorIs(t, err, errs.ErrCycleDetected)
	})

	t.Run("unknown node", func(t *testing.T) {
		g := build(t, []string{"a"}, nil)
		_, err := g.TopologicalOrder("zzz")
		assert.Error(t, err)
	})
}
