// Package storage maps asset keys to artifact files and moves tables in and
// out of them.
//
// A Resolver is configured per storage class with a {base path, format} pair;
// the artifact for a key lives at <base path>/<last key segment>.<format>.
// Writes are atomic (temporary file plus rename) so a concurrent reader such
// as a catalog session never observes a partial artifact. Reads distinguish a
// missing artifact (errs.ErrNotFound) from an unreadable one (errs.ErrIO).
package storage
