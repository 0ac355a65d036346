// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/countprep/anndata"
	"github.com/katalvlaran/countprep/internal/zlog"
	"github.com/katalvlaran/countprep/matrix"
	"github.com/katalvlaran/countprep/mtx"
	"github.com/katalvlaran/countprep/pipeline"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "countprep",
		Short:         "Preprocess count matrices",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newBackendCmd())

	return root
}

type runFlags struct {
	config  string
	input   string
	output  string
	verbose bool
}

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a recipe over a Matrix Market file",
		Long: `Load a recipe (YAML), read the input matrix (plain, gzip or zstd
Matrix Market), apply every step in order and write the resulting matrix.
The output compression follows the output file extension (.gz, .zst).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zlog.New(f.verbose)
			defer func() { _ = logger.Sync() }()

			return run(f, logger)
		},
	}
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "Recipe file (YAML)")
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Input Matrix Market file")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output Matrix Market file")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Debug logging")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func run(f runFlags, logger *zap.Logger) error {
	cfg, err := pipeline.Load(f.config)
	if err != nil {
		return err
	}
	x, err := mtx.ReadFile(f.input)
	if err != nil {
		return fmt.Errorf("read %s: %w", f.input, err)
	}
	logger.Info("loaded matrix", zap.String("path", f.input),
		zap.Int("obs", x.Rows()), zap.Int("vars", x.Cols()), zap.Stringer("kind", x.Kind()))

	ds, err := anndata.New(x)
	if err != nil {
		return err
	}
	if err = cfg.Run(ds, logger); err != nil {
		return err
	}
	if err = mtx.WriteFile(f.output, ds.X()); err != nil {
		return fmt.Errorf("write %s: %w", f.output, err)
	}
	logger.Info("wrote matrix", zap.String("path", f.output),
		zap.Int("obs", ds.NObs()), zap.Int("vars", ds.NVars()))

	return nil
}

func newBackendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backend",
		Short: "Print the element-wise kernel backend compiled in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), matrix.Backend())
			return err
		},
	}
}
