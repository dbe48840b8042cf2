package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formtoggle/internal/prompt"
	"github.com/goliatone/go-formtoggle/pkg/dom"
)

const doneOption = "(done)"

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	visibleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	hiddenStyle  = lipgloss.NewStyle().Faint(true)
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func (a *app) simulateCommand() *cobra.Command {
	opts := &pageOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Pick trigger values interactively and watch the page react",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSimulate(cmd.Context(), cmd.InOrStdin(), opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func (a *app) runSimulate(ctx context.Context, stdin io.Reader, opts *pageOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	doc, ctrl, err := a.startPage(stdin, opts)
	if err != nil {
		return err
	}
	trigger := ctrl.Config().Trigger

	var choices []string
	for _, n := range doc.Radios(trigger).Nodes() {
		for _, attr := range n.Attr {
			if attr.Key == "value" {
				choices = append(choices, attr.Val)
			}
		}
	}
	if len(choices) == 0 {
		return fmt.Errorf("formctl: page %q has no %q radios", opts.page, trigger)
	}
	choices = append(choices, doneOption)

	if err := a.driver.Info(ctx, formatState("loaded", ctrl.State())); err != nil {
		return err
	}
	for {
		idx, err := a.driver.Select(ctx, prompt.SelectConfig{
			Message:      fmt.Sprintf("%s =", trigger),
			Options:      choices,
			DefaultIndex: prompt.IndexOf(choices, doc.SelectedValue(trigger)),
		})
		if errors.Is(err, prompt.ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if idx < 0 || choices[idx] == doneOption {
			return a.offerRender(ctx, doc)
		}
		doc.Select(trigger, choices[idx])
		if err := a.driver.Info(ctx, formatState(trigger+"="+choices[idx], ctrl.State())); err != nil {
			return err
		}
	}
}

func (a *app) offerRender(ctx context.Context, doc *dom.Document) error {
	ok, err := a.driver.Confirm(ctx, prompt.ConfirmConfig{Message: "Print the final page HTML?"})
	if errors.Is(err, prompt.ErrAborted) {
		return nil
	}
	if err != nil || !ok {
		return err
	}
	return doc.Render(a.out)
}

func formatState(title string, states []dom.ElementState) string {
	width := 0
	for _, st := range states {
		width = max(width, len(st.Selector))
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	for _, st := range states {
		b.WriteString("\n  ")
		b.WriteString(fmt.Sprintf("%-*s ", width, st.Selector))
		switch {
		case !st.Present:
			b.WriteString(missingStyle.Render("missing"))
		case st.Visible:
			b.WriteString(visibleStyle.Render("visible"))
		default:
			b.WriteString(hiddenStyle.Render("hidden"))
		}
		if st.Value != "" {
			b.WriteString(fmt.Sprintf(" value=%q", st.Value))
		}
		if st.SelectedIndex >= 0 {
			b.WriteString(fmt.Sprintf(" selectedIndex=%d", st.SelectedIndex))
		}
	}
	return b.String()
}
