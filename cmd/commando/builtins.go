package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fyrsmithlabs/commando/internal/linkcache"
	"github.com/fyrsmithlabs/commando/internal/logging"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and home locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "commando %s\n", version)
			fmt.Fprintf(w, "home:  %s\n", a.home.Dir)
			fmt.Fprintf(w, "deps:  %s\n", a.home.DepsRoot())
			fmt.Fprintf(w, "links: %s\n", a.cache.Root())
			return nil
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Long: `Print the configuration resolved for this invocation: the project
location, the bootstrap options and the project settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(a.cfg)
			}
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(a.cfg); err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of YAML")
	return cmd
}

func newLinksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "links",
		Short: "List project links in the shared dependency tree",
		Long: `List the entries of the link tree. Entries are never removed
automatically; an orphan is a link whose project no longer exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.cache.Entries()
			if err != nil {
				return err
			}
			return printEntries(cmd.OutOrStdout(), entries, a.opts.color)
		},
	}
}

func printEntries(w io.Writer, entries []linkcache.Entry, colorMode string) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "no links")
		return err
	}

	r := lipgloss.NewRenderer(w)
	switch colorMode {
	case logging.ColorAlways:
		r.SetColorProfile(termenv.ANSI)
	case logging.ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}
	styles := map[linkcache.Status]lipgloss.Style{
		linkcache.StatusOK:       r.NewStyle().Foreground(lipgloss.Color("2")),
		linkcache.StatusOrphan:   r.NewStyle().Foreground(lipgloss.Color("3")),
		linkcache.StatusMismatch: r.NewStyle().Foreground(lipgloss.Color("1")),
		linkcache.StatusConflict: r.NewStyle().Foreground(lipgloss.Color("1")),
	}

	// Status goes last so escape codes do not skew column widths.
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDRESS\tTARGET\tSTATUS")
	for _, e := range entries {
		target := e.Target
		if target == "" {
			target = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Address, target, styles[e.Status].Render(string(e.Status)))
	}
	return tw.Flush()
}
