package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Ngone6325/autoinject/internal/generate"
)

func newInspectCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [patterns...]",
		Short: "List the marked types and module references without writing files",
		RunE: func(cmd *cobra.Command, args []string) error {
			pkgs, err := generate.Load(root.root, args)
			if err != nil {
				return err
			}
			return printInspect(cmd, pkgs)
		},
	}
}

func printInspect(cmd *cobra.Command, pkgs []*generate.Package) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PACKAGE\tTYPE\tMARKER\tLIFETIME\tREQUIRES")
	for _, p := range pkgs {
		if !p.HasModule() {
			continue
		}
		requires := strings.Join(p.Requires, ",")
		if requires == "" {
			requires = "-"
		}
		for _, s := range p.Services {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ImportPath, s.Type, s.Marker, s.Lifetime, requires)
		}
	}
	return w.Flush()
}
