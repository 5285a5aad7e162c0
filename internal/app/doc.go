// Package app contains the core application logic of both binaries. It wires
// configuration loading, the transform registry, storage, the materialization
// engine and the query catalog together, decoupled from any specific
// entrypoint like a CLI.
package app
