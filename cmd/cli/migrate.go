package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/thand-io/rbac-migrate/internal/migrate"
)

/*
The migration runs in three stages per source group:

 1. Ensure a resource group holding the group's application IDs exists.
 2. Create a role named after the group, with the selected action set,
    referencing the resource group.
 3. Create a user access group referencing the role (plus an optional
    built-in role), with no members yet.

Membership is back-filled afterwards by the 'sync' command. Everything is
idempotent by name, so re-running the migration is safe.
*/
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate organization groups into RBAC entities",
	Long: `Migrate every non-readonly organization group into a resource group,
role and user access group of the same name. Prompts for the role action
set and an optional built-in role unless --actions is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {

		ctx := cmd.Context()

		actionSelector, builtinSelector, err := selectorsFromFlags(cmd)
		if err != nil {
			return err
		}

		actions, err := actionSelector.SelectActions(ctx)
		if err != nil {
			return fmt.Errorf("failed to select actions: %w", err)
		}
		if len(actions) == 0 {
			return fmt.Errorf("at least one action is required")
		}

		builtinRoleID, err := builtinSelector.SelectBuiltinRole(ctx)
		if err != nil {
			return fmt.Errorf("failed to select built-in role: %w", err)
		}

		fmt.Println(titleStyle.Render("Starting RBAC migration"))
		fmt.Println(infoStyle.Render(fmt.Sprintf("Role actions: %v", actions)))
		if len(builtinRoleID) > 0 {
			fmt.Println(infoStyle.Render("Built-in role: " + builtinRoleID))
		} else {
			fmt.Println(infoStyle.Render("Built-in role: none"))
		}

		provisioner := migrate.NewProvisioner(apiClient, actions, builtinRoleID)

		summary, err := provisioner.Run(ctx)
		if err != nil {
			// Fetching the groups failed, nothing was migrated
			fmt.Println(errorStyle.Render("Migration failed: " + err.Error()))
			logrus.WithError(err).Errorln("Migration aborted")
			return nil
		}

		printMigrationSummary(summary)
		return nil
	},
}

func printMigrationSummary(summary *migrate.MigrationSummary) {
	fmt.Println()
	fmt.Println(headerStyle.Render("Migration summary"))
	fmt.Printf("  Groups found:     %d\n", summary.GroupsFound)
	fmt.Printf("  Groups migrated:  %d\n", summary.GroupsProcessed)
	fmt.Printf("  Groups skipped:   %d\n", summary.GroupsSkipped)
	fmt.Printf("  Roles created:    %d\n", summary.RolesCreated)
	fmt.Printf("  Users to sync:    %d\n", summary.UsersSeen)

	if summary.GroupsFailed > 0 {
		fmt.Println(warningStyle.Render(
			fmt.Sprintf("  Groups failed:    %d (see log for details)", summary.GroupsFailed)))
	} else {
		fmt.Println(successStyle.Render("  All groups migrated"))
	}
}

// selectorsFromFlags returns static selectors when the action set was
// supplied on the command line, interactive ones otherwise.
func selectorsFromFlags(cmd *cobra.Command) (migrate.ActionSelector, migrate.BuiltinRoleSelector, error) {
	actions, err := cmd.Flags().GetStringSlice("actions")
	if err != nil {
		return nil, nil, err
	}
	builtinRole, err := cmd.Flags().GetString("builtin-role")
	if err != nil {
		return nil, nil, err
	}
	noBuiltin, err := cmd.Flags().GetBool("no-builtin-role")
	if err != nil {
		return nil, nil, err
	}

	var actionSelector migrate.ActionSelector
	if len(actions) > 0 {
		actionSelector = migrate.StaticActionSelector{Actions: actions}
	} else {
		actionSelector = &promptActionSelector{client: apiClient}
	}

	var builtinSelector migrate.BuiltinRoleSelector
	switch {
	case noBuiltin:
		builtinSelector = migrate.StaticBuiltinRoleSelector{}
	case len(builtinRole) > 0:
		builtinSelector = migrate.StaticBuiltinRoleSelector{RoleID: builtinRole}
	default:
		builtinSelector = &promptBuiltinRoleSelector{client: apiClient}
	}

	return actionSelector, builtinSelector, nil
}

func init() {

	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringSlice("actions", nil, "Role actions to grant (skips the prompt, e.g. APPLICATION_VIEW)")
	migrateCmd.Flags().String("builtin-role", "", "Built-in role ID to attach to every user access group")
	migrateCmd.Flags().Bool("no-builtin-role", false, "Do not attach a built-in role")

}
