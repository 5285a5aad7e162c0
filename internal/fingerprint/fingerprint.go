// Package fingerprint computes stable hashes of a table's schema and content.
// Two tables with the same columns in the same order share a schema
// fingerprint; two tables that also hold the same multiset of rows share a
// content fingerprint, whatever the row order.
package fingerprint

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/minio/highwayhash"
	"github.com/vk/medallion/internal/table"
)

var key = []byte("medallion-artifact-fingerprint!!")

// Schema fingerprints the ordered column names and types.
func Schema(t *table.Table) string {
	h := newHash()
	for _, c := range t.Columns {
		writeString(h, c.Name)
		h.Write([]byte{byte(c.Type)})
	}
	return format(h.Sum64())
}

// Content fingerprints the schema plus the row multiset.
func Content(t *table.Table) string {
	rowHashes := make([]uint64, len(t.Rows))
	for i, row := range t.Rows {
		h := newHash()
		for _, cell := range row {
			writeCell(h, cell)
		}
		rowHashes[i] = h.Sum64()
	}
	slices.Sort(rowHashes)

	h := newHash()
	writeString(h, Schema(t))
	var buf [8]byte
	for _, rh := range rowHashes {
		binary.LittleEndian.PutUint64(buf[:], rh)
		h.Write(buf[:])
	}
	return format(h.Sum64())
}

type hash64 interface {
	Write(p []byte) (int, error)
	Sum64() uint64
}

func newHash() hash64 {
	h, err := highwayhash.New64(key)
	if err != nil {
		// Only returned for a key that is not 32 bytes long.
		panic(err)
	}
	return h
}

func format(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

func writeString(h hash64, s string) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
	h.Write(buf[:])
	h.Write([]byte(s))
}

// writeCell encodes a type tag followed by a fixed-width or length-prefixed
// payload, so adjacent cells can never run together.
func writeCell(h hash64, v any) {
	var buf [9]byte
	switch c := v.(type) {
	case nil:
		h.Write([]byte{0})
	case string:
		h.Write([]byte{1})
		writeString(h, c)
	case int64:
		buf[0] = 2
		binary.LittleEndian.PutUint64(buf[1:], uint64(c))
		h.Write(buf[:])
	case float64:
		buf[0] = 3
		binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(c))
		h.Write(buf[:])
	case bool:
		if c {
			h.Write([]byte{4, 1})
		} else {
			h.Write([]byte{4, 0})
		}
	case time.Time:
		buf[0] = 5
		binary.LittleEndian.PutUint64(buf[1:], uint64(c.UnixNano()))
		h.Write(buf[:])
	default:
		h.Write([]byte{6})
		writeString(h, fmt.Sprint(c))
	}
}
