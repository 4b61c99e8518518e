package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Ngone6325/autoinject/internal/generate"
)

type generateOptions struct {
	*rootOptions
	entry  string
	out    string
	dryRun bool
}

func newGenerateCommand(root *rootOptions) *cobra.Command {
	opts := &generateOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "generate [patterns...]",
		Short: "Write a module file into every package with marked types",
		Long: `Parses the packages matched by the patterns (default ./...), finds the
types embedding autoinject.Inject or autoinject.Injectable and writes a module
file listing their constructors into each package. The --entry package also
becomes the entry module.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
	}
	cmd.Flags().StringVar(&opts.entry, "entry", "", "import path of the entry package")
	cmd.Flags().StringVar(&opts.out, "out", generate.DefaultOutput, "name of the generated file")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the files instead of writing them")
	return cmd
}

func (o *generateOptions) run(cmd *cobra.Command, patterns []string) error {
	logger := o.logger()

	pkgs, err := generate.Load(o.root, patterns)
	if err != nil {
		return err
	}
	targets, err := generate.Targets(pkgs, o.entry)
	if err != nil {
		return err
	}

	for _, pkg := range targets {
		entry := pkg.ImportPath == o.entry
		if o.dryRun {
			src, err := generate.Render(pkg, entry)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "// %s/%s\n%s\n", pkg.Dir, o.out, src)
			continue
		}
		path, err := generate.Write(pkg, entry, o.out)
		if err != nil {
			return err
		}
		logger.Info("module file written",
			zap.String("package", pkg.ImportPath),
			zap.String("file", path),
			zap.Int("services", len(pkg.Services)),
			zap.Strings("requires", pkg.Requires),
			zap.Bool("entry", entry),
		)
	}
	logger.Debug("generation finished", zap.Int("packages", len(pkgs)), zap.Int("files", len(targets)))
	return nil
}
