package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formtoggle/pkg/controller"
	"github.com/goliatone/go-formtoggle/pkg/dom"
	"github.com/goliatone/go-formtoggle/pkg/pagetpl"
)

type pageOptions struct {
	page    string
	file    string
	checked []string
	values  []string
}

func (o *pageOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.page, "page", "p", "", "Page name, as listed by the pages command")
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "HTML page to load; - for stdin; empty renders the sample page")
	cmd.Flags().StringArrayVar(&o.checked, "check", nil, "Element id pre-checked in the sample page (repeatable)")
	cmd.Flags().StringArrayVar(&o.values, "value", nil, "id=value pre-filled in the sample page (repeatable)")
	_ = cmd.MarkFlagRequired("page")
}

type applyOptions struct {
	pageOptions
	selections []string
	state      bool
}

func (a *app) applyCommand() *cobra.Command {
	opts := &applyOptions{}
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Load a page, apply trigger selections and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runApply(cmd.InOrStdin(), opts)
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringArrayVarP(&opts.selections, "select", "s", nil, "group=value radio selection, applied in order (repeatable)")
	cmd.Flags().BoolVar(&opts.state, "state", false, "Print element state as JSON instead of HTML")
	return cmd
}

func (a *app) runApply(stdin io.Reader, opts *applyOptions) error {
	doc, ctrl, err := a.startPage(stdin, &opts.pageOptions)
	if err != nil {
		return err
	}

	for _, raw := range opts.selections {
		group, value, ok := strings.Cut(raw, "=")
		if !ok || strings.TrimSpace(group) == "" {
			return fmt.Errorf("formctl: selection %q must look like group=value", raw)
		}
		if doc.Select(group, value) {
			continue
		}
		a.logger.Warn("no radio for selection", zap.String("group", group), zap.String("value", value))
		if group == ctrl.Config().Trigger {
			ctrl.OnTriggerChange(value)
		}
	}

	if opts.state {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(ctrl.State())
	}
	return doc.Render(a.out)
}

// startPage loads the page markup, binds the page controller and fires the
// ready hook.
func (a *app) startPage(stdin io.Reader, opts *pageOptions) (*dom.Document, *controller.Controller, error) {
	cfg, err := a.registry.Get(opts.page)
	if err != nil {
		return nil, nil, err
	}

	markup, err := a.loadMarkup(stdin, opts)
	if err != nil {
		return nil, nil, err
	}
	doc, err := dom.ParseString(markup, dom.WithLogger(a.logger))
	if err != nil {
		return nil, nil, err
	}
	ctrl, err := controller.New(doc, cfg, controller.WithLogger(a.logger))
	if err != nil {
		return nil, nil, err
	}
	ctrl.Bind()
	doc.Load()
	return doc, ctrl, nil
}

func (a *app) loadMarkup(stdin io.Reader, opts *pageOptions) (string, error) {
	if opts.file != "" && (len(opts.checked) > 0 || len(opts.values) > 0) {
		return "", fmt.Errorf("formctl: --check and --value pre-fill the sample page and cannot be used with --file")
	}
	switch opts.file {
	case "":
		values := make(map[string]string, len(opts.values))
		for _, raw := range opts.values {
			id, value, ok := strings.Cut(raw, "=")
			if !ok {
				return "", fmt.Errorf("formctl: value %q must look like id=value", raw)
			}
			values[id] = value
		}
		return pagetpl.Render(opts.page, pagetpl.Data{Checked: opts.checked, Values: values})
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("formctl: read stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", fmt.Errorf("formctl: read %s: %w", opts.file, err)
		}
		return string(data), nil
	}
}
