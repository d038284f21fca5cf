package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/montanha-viva/mv-cli/internal/service"
)

var floraInput service.PlantInput

var floraCmd = &cobra.Command{
	Use:   "flora",
	Short: "Browse the flora encyclopedia",
	Long: `Browse the flora encyclopedia of the Serra da Gardunha. Listings are
cached locally, so the encyclopedia stays readable on the trail without
connectivity.`,
}

var floraListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all plants",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		plants, err := app.flora.List(cmd.Context())
		if err != nil {
			return err
		}
		return printOutput(plants)
	},
}

var floraShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one plant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		plant, err := app.flora.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printOutput(plant)
	},
}

var floraAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a plant (admin)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		plant, err := app.flora.Create(cmd.Context(), floraInput)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (%s).\n", plant.ScientificName, plant.ID)
		return nil
	},
}

var floraUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a plant (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		plant, err := app.flora.Update(cmd.Context(), args[0], floraInput)
		if err != nil {
			return err
		}
		fmt.Printf("Updated %s.\n", plant.ID)
		return nil
	},
}

var floraDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a plant (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		if err := app.flora.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s.\n", args[0])
		return nil
	},
}

func floraInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&floraInput.ScientificName, "scientific-name", "", "scientific name")
	cmd.Flags().StringVar(&floraInput.CommonName, "common-name", "", "common name")
	cmd.Flags().StringVar(&floraInput.Family, "family", "", "botanical family")
	cmd.Flags().StringVar(&floraInput.Description, "description", "", "description")
	cmd.Flags().StringVar(&floraInput.Habitat, "habitat", "", "habitat")
	cmd.Flags().StringVar(&floraInput.FloweringStart, "flowering-start", "", "flowering start month")
	cmd.Flags().StringVar(&floraInput.FloweringEnd, "flowering-end", "", "flowering end month")
}

func init() {
	floraInputFlags(floraAddCmd)
	floraInputFlags(floraUpdateCmd)
	floraCmd.AddCommand(floraListCmd, floraShowCmd, floraAddCmd, floraUpdateCmd, floraDeleteCmd)
	rootCmd.AddCommand(floraCmd)
}
