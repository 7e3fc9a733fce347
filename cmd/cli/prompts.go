package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/sirupsen/logrus"

	"github.com/thand-io/rbac-migrate/internal/client"
	"github.com/thand-io/rbac-migrate/internal/migrate"
)

// roleListSize is how many roles to pull when listing for selection. Large
// enough that the built-in roles are always in the page.
const roleListSize = 500

// promptActionSelector asks the user which application permissions the
// migrated roles should carry: one of the common presets or a custom pick
// from the organization's live action list.
type promptActionSelector struct {
	client *client.Client
}

const customActionsChoice = "custom"

func (s *promptActionSelector) SelectActions(ctx context.Context) ([]string, error) {
	var choice string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose application permissions for the migrated roles").
				Options(
					huh.NewOption("View applications only", "APPLICATION_VIEW"),
					huh.NewOption("Edit applications", "APPLICATION_EDIT"),
					huh.NewOption("Full application management", "APPLICATION_MANAGE"),
					huh.NewOption("Custom - choose from available actions", customActionsChoice),
				).
				Value(&choice),
		),
	)

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("action prompt cancelled: %w", err)
	}

	if choice != customActionsChoice {
		return []string{choice}, nil
	}

	return s.selectCustomActions(ctx)
}

func (s *promptActionSelector) selectCustomActions(ctx context.Context) ([]string, error) {
	actions, err := s.client.ListActions(ctx)
	if err != nil || len(actions) == 0 {
		logrus.WithError(err).Warnln("Could not fetch available actions, defaulting to APPLICATION_EDIT")
		return []string{"APPLICATION_EDIT"}, nil
	}

	var options []huh.Option[string]
	for _, action := range actions {
		options = append(options, huh.NewOption(action, action))
	}

	var selected []string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select the actions to grant").
				Options(options...).
				Validate(func(picked []string) error {
					if len(picked) == 0 {
						return fmt.Errorf("select at least one action")
					}
					return nil
				}).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("action prompt cancelled: %w", err)
	}

	return selected, nil
}

// promptBuiltinRoleSelector asks the user to pick a built-in role to
// attach to every user access group. Organization roles are listed first;
// "None" is always available.
type promptBuiltinRoleSelector struct {
	client *client.Client
}

func (s *promptBuiltinRoleSelector) SelectBuiltinRole(ctx context.Context) (string, error) {
	roles, err := s.client.ListRoles(ctx, roleListSize)
	if err != nil {
		logrus.WithError(err).Warnln("Could not fetch roles, skipping built-in role assignment")
		return "", nil
	}

	builtin := migrate.FilterBuiltinRoles(roles)
	if len(builtin) == 0 {
		fmt.Println(warningStyle.Render("No built-in roles found, skipping built-in role assignment"))
		return "", nil
	}

	options := []huh.Option[string]{
		huh.NewOption("None - don't add any built-in role", ""),
	}

	// Organization roles first, they are the usual choice
	var other []huh.Option[string]
	for _, role := range builtin {
		label := role.Name
		if len(role.Description) > 0 {
			label = fmt.Sprintf("%s - %s", role.Name, truncate(role.Description, 80))
		}
		if migrate.IsOrganizationRole(&role) {
			options = append(options, huh.NewOption(label, role.ID))
		} else {
			other = append(other, huh.NewOption(label, role.ID))
		}
	}
	options = append(options, other...)

	var roleID string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose a built-in role to add to all user access groups").
				Options(options...).
				Value(&roleID),
		),
	)

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("built-in role prompt cancelled: %w", err)
	}

	return roleID, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
