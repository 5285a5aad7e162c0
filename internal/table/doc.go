// Package table defines Table, the in-memory tabular value exchanged between
// the storage layer and the transforms. A Table has an ordered, typed schema
// and rows of typed cells. Operations never mutate their receiver: every
// reshaping helper returns a new Table, so a downstream transform can never
// change a Table another consumer still holds.
package table
