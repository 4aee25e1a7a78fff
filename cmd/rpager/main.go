package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kk-code-lab/rpager/internal/app"
	"github.com/kk-code-lab/rpager/internal/config"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// flags holds command-line overrides of the config file.
type flags struct {
	configPath string
	follow     bool
	syntax     string
	style      string
	logFile    string
	debug      bool
	tabWidth   int
	smartCase  bool
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "rpager: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:   "rpager [flags] [file]",
		Short: "A less-style terminal pager",
		Long: `rpager shows a file or piped input one screen at a time. Lines are
wrapped to the terminal, ANSI colours are kept, and output from slow
producers appears as it arrives.`,
		Example: `  # Page a file
  rpager main.go

  # Page a command's coloured output
  git log --color | rpager

  # Keep reading a growing log
  rpager -f /var/log/syslog`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.Options{Follow: f.follow, Stdin: os.Stdin}
			if len(args) == 1 {
				opts.Path = args[0]
			}
			if opts.Path == "" && isatty.IsTerminal(os.Stdin.Fd()) {
				return errors.New("missing filename (see rpager --help)")
			}
			return run(cmd, f, opts)
		},
	}
	addFlags(root, &f)
	root.Flags().BoolVarP(&f.follow, "follow", "f", false, "Keep reading the file as it grows")
	root.AddCommand(newExecCmd(&f))
	return root
}

func newExecCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec -- command [args...]",
		Short: "Run a command on a pseudo-terminal and page its output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, *f, app.Options{Command: args})
		},
	}
	return cmd
}

func addFlags(cmd *cobra.Command, f *flags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "Config file (default $RPAGER_CONFIG or the user config dir)")
	pf.StringVarP(&f.syntax, "syntax", "S", "", `Syntax colouring: a language name or "auto"`)
	pf.StringVar(&f.style, "style", "", "Colour style for syntax colouring")
	pf.StringVar(&f.logFile, "log-file", "", "Write logs to this file")
	pf.BoolVar(&f.debug, "debug", false, "Log at debug level")
	pf.IntVar(&f.tabWidth, "tab-width", 0, "Columns per tab stop")
	pf.BoolVarP(&f.smartCase, "smart-case", "i", false, "Ignore case unless the search has capitals")
}

func loadConfig(f flags) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.Load(f.configPath)
	} else {
		cfg, err = config.LoadOptional(config.DefaultPath())
	}
	if err != nil {
		return cfg, err
	}
	if f.syntax != "" {
		cfg.Syntax.Language = f.syntax
	}
	if f.style != "" {
		cfg.Syntax.Style = f.style
	}
	if f.logFile != "" {
		cfg.Log.File = f.logFile
	}
	if f.debug {
		cfg.Log.Level = "debug"
	}
	if f.tabWidth > 0 {
		cfg.TabWidth = f.tabWidth
	}
	if f.smartCase {
		cfg.SmartCase = true
	}
	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, f flags, opts app.Options) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	opts.Config = cfg

	// Not a terminal: behave like cat, as less does.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) && len(opts.Command) == 0 {
		return copyThrough(opts)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	pagerApp, err := app.NewApplication(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = pagerApp.Close()
	}()
	return pagerApp.Run(ctx)
}

func copyThrough(opts app.Options) error {
	var in io.Reader = opts.Stdin
	if opts.Path != "" && opts.Path != "-" {
		f, err := os.Open(opts.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	_, err := io.Copy(os.Stdout, in)
	return err
}
