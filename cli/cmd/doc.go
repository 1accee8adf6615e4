// Package cmd implements the tmpl subcommands: expand, dump, repl and init.
//
// Commands receive their runtime configuration through the
// [context.Context] passed to Run: the parsed [kong.Context] (see
// [WithContext]) and the evaluator options built from global flags (see
// [WithOptions]).
package cmd

const (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
