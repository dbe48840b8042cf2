// Command formctl runs the registration page controllers outside a browser:
// it lists the configured pages, applies trigger selections to a page and
// prints the result, or walks through a page interactively.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formtoggle/internal/prompt"
	"github.com/goliatone/go-formtoggle/pkg/pages"
)

type app struct {
	out      io.Writer
	logger   *zap.Logger
	registry *pages.Registry
	driver   prompt.Driver

	verbose   bool
	configDir string
}

func main() {
	a := &app{out: os.Stdout}
	if err := a.rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "formctl",
		Short: "Apply conditional field visibility rules to registration pages",
		Long: `formctl drives the show/hide controllers of the registration pages
against sample markup or a saved HTML page.

Example:
  formctl apply --page overseas-company --select hasBusinessUniqueId=false
  formctl simulate --page nrl`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(a.out)
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log controller decisions")
	root.PersistentFlags().StringVar(&a.configDir, "config", "", "Directory of extra page configs (YAML or JSON)")

	root.AddCommand(a.pagesCommand(), a.applyCommand(), a.simulateCommand())
	return root
}

func (a *app) setup() error {
	if a.logger == nil {
		logger, err := newLogger(a.verbose)
		if err != nil {
			return fmt.Errorf("formctl: logger: %w", err)
		}
		a.logger = logger
	}
	if a.registry == nil {
		a.registry = pages.Default()
		if a.configDir != "" {
			if err := pages.LoadFS(os.DirFS(a.configDir), a.registry); err != nil {
				return err
			}
		}
	}
	if a.driver == nil {
		a.driver = prompt.NewSurvey(a.out)
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func (a *app) pagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pages",
		Short: "List configured pages and their trigger groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range a.registry.List() {
				cfg, err := a.registry.Get(name)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(a.out, "%-20s %s\n", name, cfg.Trigger); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
