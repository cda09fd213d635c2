// Package cli contains the command line interface for tagweave.
//
// # Usage
//
// The CLI resolves template documents and provides logging and
// profiling configuration:
//
//	tagweave render doc.yaml --log-level=debug
//
// # Commands
//
//   - render: resolve a template document's body (or explicit content
//     files) against its tags and print the result
//   - tags: list the tags a document defines
//   - check: validate a document without rendering it
//   - fmt: rewrite a document in canonical key order
//   - init: generate a default configuration file
//
// # Configuration
//
// Flag defaults are read from a YAML configuration file in the user's
// config directory (see [resolve]); command-line flags override config
// file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (debug, info, warn, error)
//   - --log-format: Set log output format (text, json, pretty)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
