// Package cli implements the system-observer command line: flag and
// environment binding, the interactive dashboard launch, and the one-shot
// JSON/YAML dumps.
package cli
