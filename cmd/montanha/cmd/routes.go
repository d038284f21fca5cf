package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/montanha-viva/mv-cli/internal/service"
)

var routeInput service.RouteInput

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Browse hiking routes",
}

var routesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all routes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		routes, err := app.routes.List(cmd.Context())
		if err != nil {
			return err
		}
		return printOutput(routes)
	},
}

var routesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one route with its waypoints",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		route, err := app.routes.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printOutput(route)
	},
}

var routesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a route (admin)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		route, err := app.routes.Create(cmd.Context(), routeInput)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (%s).\n", route.Name, route.ID)
		return nil
	},
}

var routesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a route (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		route, err := app.routes.Update(cmd.Context(), args[0], routeInput)
		if err != nil {
			return err
		}
		fmt.Printf("Updated %s.\n", route.ID)
		return nil
	},
}

var routesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a route (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		if err := app.routes.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s.\n", args[0])
		return nil
	},
}

func routeInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&routeInput.Name, "name", "", "route name")
	cmd.Flags().StringVar(&routeInput.Description, "description", "", "description")
	cmd.Flags().Float64Var(&routeInput.DistanceKM, "distance", 0, "distance in km")
	cmd.Flags().StringVar(&routeInput.Difficulty, "difficulty", "", "easy, moderate or hard")
	cmd.Flags().IntVar(&routeInput.DurationMin, "duration", 0, "estimated duration in minutes")
	cmd.Flags().IntVar(&routeInput.ElevationM, "elevation", 0, "elevation gain in meters")
}

func init() {
	routeInputFlags(routesAddCmd)
	routeInputFlags(routesUpdateCmd)
	routesCmd.AddCommand(routesListCmd, routesShowCmd, routesAddCmd, routesUpdateCmd, routesDeleteCmd)
	rootCmd.AddCommand(routesCmd)
}
