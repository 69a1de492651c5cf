// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/songlake/config"
	"github.com/cardinalhq/songlake/internal/etl"
	"github.com/cardinalhq/songlake/internal/logctx"
)

func init() {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the batch extraction and write all five tables",
		Long:  "Read song metadata and activity logs from the input root, build the songplays fact table and its dimensions, and write partitioned Parquet under the output root.",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if in, _ := c.Flags().GetString("input"); in != "" {
				cfg.InputRoot = in
			}
			if out, _ := c.Flags().GetString("output"); out != "" {
				cfg.OutputRoot = out
			}
			if workers, _ := c.Flags().GetInt("workers"); workers > 0 {
				cfg.Workers = workers
			}
			return runPipeline(c, cfg)
		},
	}

	rootCmd.AddCommand(cmd)

	cmd.Flags().String("input", "", "Input root (local path or s3://bucket/prefix)")
	cmd.Flags().String("output", "", "Output root (local path or s3://bucket/prefix)")
	cmd.Flags().Int("workers", 0, "Number of concurrent file readers")
}

func runPipeline(c *cobra.Command, cfg *config.Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil)).With(
		slog.String("service", "songlake"),
	)
	slog.SetDefault(logger)
	ctx := logctx.WithLogger(c.Context(), logger)

	logger.Info("starting batch run",
		"input", cfg.InputRoot, "output", cfg.OutputRoot, "workers", cfg.Workers)

	runner, err := etl.NewRunner(ctx, cfg)
	if err != nil {
		return err
	}
	if err := runner.Run(ctx); err != nil {
		return err
	}

	logger.Info("batch run complete")
	return nil
}
