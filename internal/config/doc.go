// Package config defines the format-agnostic model of a pipeline declaration
// (layers, extraction sources and assets) along with the Loader and Converter
// interfaces that populate and interpret it.
//
// The Model is the single source of truth for the engine. Concrete formats,
// such as HCL, live in separate packages.
package config
