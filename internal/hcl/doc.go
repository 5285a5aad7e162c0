// Package hcl provides the concrete HCL implementation of the configuration
// loading and argument decoding interfaces defined in the `config` package.
// It is responsible for file discovery, parsing, HCL-to-model translation and
// binding `arguments` blocks to module structs.
package hcl
