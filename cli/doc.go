// Package cli contains the command line interface for tmpl.
//
// # Usage
//
//	tmpl [flags] [expand] [SOURCE ...]
//	tmpl dump [--format tree|text|json|yaml] [--expand] [SOURCE ...]
//	tmpl repl [SOURCE ...]
//	tmpl init [--force]
//
// expand is the default command; with no SOURCE, standard input is read.
//
// # Global Options
//
//   - --sigil: the rune introducing directives (default "$")
//   - --vars: YAML file(s) whose top-level keys are bound in the root scope
//
// # Configuration File
//
// Flag defaults are read from config.yaml in the user configuration
// directory (e.g. ~/.config/tmpl/config.yaml). Keys are flag names, either
// flat or nested by prefix:
//
//	sigil: "%"
//	log:
//	  level: debug
//	  format: text
//
// Command-line flags override config file values; "tmpl init" writes the
// file from the current flag values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorized, human-oriented output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//	tmpl --pprof-mode=cpu --pprof-dir=/tmp/profiles input.tmpl
package cli
