package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/thand-io/rbac-migrate/internal/migrate"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Back-fill user access group membership from the source groups",
	Long: `Fetch each migrated group's member list from the legacy API and push it
into the user access group of the same name. Existing role references are
kept untouched; only the member list is replaced. Runs without prompts.`,
	RunE: func(cmd *cobra.Command, args []string) error {

		fmt.Println(titleStyle.Render("Starting membership sync"))

		synchronizer := migrate.NewSynchronizer(apiClient)

		summary, err := synchronizer.Run(cmd.Context())
		if err != nil {
			fmt.Println(errorStyle.Render("Sync failed: " + err.Error()))
			logrus.WithError(err).Errorln("Membership sync aborted")
			return nil
		}

		fmt.Println()
		fmt.Println(headerStyle.Render("Sync summary"))
		fmt.Printf("  Groups processed:  %d\n", summary.GroupsProcessed)
		fmt.Printf("  Groups updated:    %d\n", summary.GroupsUpdated)

		if summary.GroupsFailed > 0 {
			fmt.Println(warningStyle.Render(
				fmt.Sprintf("  Groups failed:     %d (see log for details)", summary.GroupsFailed)))
		} else {
			fmt.Println(successStyle.Render("  All memberships synced"))
		}

		return nil
	},
}

func init() {

	rootCmd.AddCommand(syncCmd)

}
