package cmd

import (
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"github.com/templui/fittrack"
	"github.com/templui/fittrack/internal/app"
	"github.com/templui/fittrack/internal/service"
)

func SeedCmd() *cobra.Command {
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Load the global catalogs; entries already present are skipped",
	}

	seed.AddCommand(&cobra.Command{
		Use:   "foods",
		Short: "Seed global foods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var foods []service.FoodInput
			if err := readSeed("seed/foods.json", &foods); err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app.App) error {
				added, err := a.FoodService.SeedGlobal(foods)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %d of %d foods\n", added, len(foods))
				return nil
			})
		},
	})

	seed.AddCommand(&cobra.Command{
		Use:   "exercises",
		Short: "Seed global exercises",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var exercises []service.ExerciseInput
			if err := readSeed("seed/exercises.json", &exercises); err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app.App) error {
				added, err := a.ExerciseService.SeedGlobal(exercises)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %d of %d exercises\n", added, len(exercises))
				return nil
			})
		},
	})

	return seed
}

func readSeed(name string, v any) error {
	data, err := fs.ReadFile(fittrack.SeedFS, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
