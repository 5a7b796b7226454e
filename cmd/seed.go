package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func seedCommand(st *state) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a seed file and compute its comorbidities",
		Long: `Upsert the diseases, genes and disease-gene associations of a JSON seed
file, then compute and store the comorbidities of its associations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = st.cfg.SeedFile
			}
			return runPipeline(cmd.Context(), st, func(ctx context.Context, a *app) error {
				_, err := a.runner.RunFile(ctx, file)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Seed JSON file (defaults to SEED_FILE)")
	return cmd
}

func recomputeCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute",
		Short: "Recompute comorbidities from stored associations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), st, func(ctx context.Context, a *app) error {
				_, err := a.runner.RunStore(ctx)
				return err
			})
		},
	}
}

func runPipeline(ctx context.Context, st *state, run func(context.Context, *app) error) error {
	a, err := newApp(ctx, st.cfg, st.log)
	if err != nil {
		return err
	}
	defer a.close(context.Background())
	return run(ctx, a)
}
