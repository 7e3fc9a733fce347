package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/thand-io/rbac-migrate/internal/migrate"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete every RBAC entity the migration created",
	Long: `Delete the user access group, role and resource group matching each
source group's name. Each deletion is independent; a failure in one does
not block the others.`,
	RunE: func(cmd *cobra.Command, args []string) error {

		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return err
		}

		if !force {
			var confirmed bool

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title("Delete all migrated RBAC entities?").
						Description("This removes every user access group, role and resource group named after a source group").
						Value(&confirmed),
				),
			)

			if err := form.Run(); err != nil {
				return fmt.Errorf("cleanup prompt cancelled: %w", err)
			}
			if !confirmed {
				fmt.Println(infoStyle.Render("Cleanup aborted"))
				return nil
			}
		}

		fmt.Println(titleStyle.Render("Starting RBAC cleanup"))

		cleaner := migrate.NewCleaner(apiClient)

		summary, err := cleaner.Run(cmd.Context())
		if err != nil {
			fmt.Println(errorStyle.Render("Cleanup failed: " + err.Error()))
			logrus.WithError(err).Errorln("Cleanup aborted")
			return nil
		}

		fmt.Println()
		fmt.Println(headerStyle.Render("Cleanup summary"))
		fmt.Printf("  User access groups deleted:  %d\n", summary.UAGs)
		fmt.Printf("  Roles deleted:               %d\n", summary.Roles)
		fmt.Printf("  Resource groups deleted:     %d\n", summary.ResourceGroups)

		return nil
	},
}

func init() {

	// cleanup switches the migration entry point into teardown mode
	migrateCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().Bool("force", false, "Skip the confirmation prompt")

}
