package cli

import (
	"context"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tmpl/cli/cmd"
	"github.com/ardnew/tmpl/lang"
	"github.com/ardnew/tmpl/log"
	"github.com/ardnew/tmpl/pkg"
)

// CLI is the top-level command-line interface for tmpl.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit"`

	Sigil cmd.Sigil `default:"$" help:"Rune that introduces directives"                  short:"S"`
	Vars  []string  `            help:"YAML file(s) of variables bound in the root scope" short:"V" type:"existingfile"`

	Expand cmd.Expand `cmd:"" default:"withargs" help:"Expand a template (default)"`
	Dump   cmd.Dump   `cmd:""                    help:"Print the token tree of a template"`
	Repl   cmd.Repl   `cmd:""                    help:"Start an interactive session"`
	Init   cmd.Init   `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the tmpl CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":            pkg.Name + " " + pkg.Version,
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags take effect before parsing so parse errors are logged
	// as configured, wherever the flags appear.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		// Resolved when a command runs, after ctx carries the parsed state.
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	// No-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	globals, err := cmd.LoadVars(ctx, cli.Vars...)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithOptions(ctx,
		cli.Sigil.Option(),
		lang.WithLogger(log.With(slog.String("component", "lang"))),
		lang.WithGlobals(globals),
	)

	log.DebugContext(ctx, "run",
		slog.String("command", ktx.Command()),
		slog.String("sigil", cli.Sigil.String()),
		slog.Int("vars", len(globals)),
	)

	return ktx.Run(ctx, &cli)
}
