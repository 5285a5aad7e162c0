// Package registry maps the transform names used in pipeline declarations
// (`compute = "conform"`) to the compiled Go functions that implement them.
//
// During application startup every module registers its transforms and the
// registry is then validated against the loaded pipeline model, so unknown
// transform names, wrong input counts and malformed arguments are reported
// before any asset is materialized.
package registry
