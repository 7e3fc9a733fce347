package migrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/thand-io/rbac-migrate/internal/client"
	"github.com/thand-io/rbac-migrate/internal/models"
)

// Provisioner runs the migration pass: for every non-readonly source group
// it ensures a resource group, a role and a user access group exist in the
// target system, all sharing the source group's name. Creation is
// idempotent by name; a second run resolves 409s via lookup or skips.
type Provisioner struct {
	client        *client.Client
	actions       []string
	builtinRoleID string
}

func NewProvisioner(c *client.Client, actions []string, builtinRoleID string) *Provisioner {
	return &Provisioner{
		client:        c,
		actions:       actions,
		builtinRoleID: builtinRoleID,
	}
}

// MigrationSummary counts what a migration run did. Per-group failures are
// logged and reflected here, never raised.
type MigrationSummary struct {
	GroupsFound     int
	GroupsProcessed int
	GroupsSkipped   int
	GroupsFailed    int
	RolesCreated    int
	UsersSeen       int
}

// Run fetches all source groups and provisions each one in turn. A failure
// in one group never stops the others.
func (p *Provisioner) Run(ctx context.Context) (*MigrationSummary, error) {
	groupsData, err := p.client.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch groups: %w", err)
	}

	groups := FlattenGroups(groupsData)
	summary := &MigrationSummary{GroupsFound: len(groups)}

	logrus.WithFields(logrus.Fields{
		"groups": len(groups),
	}).Infoln("Fetched groups for migration")

	for i := range groups {
		group := &groups[i]

		if group.Readonly {
			summary.GroupsSkipped++
			continue
		}

		if err := p.provisionGroup(ctx, group, summary); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"group": group.Name,
			}).Errorln("Failed to provision group")
			summary.GroupsFailed++
			continue
		}
	}

	return summary, nil
}

// provisionGroup runs the three-stage create-or-skip workflow for a single
// group: resource group, then role, then user access group.
func (p *Provisioner) provisionGroup(ctx context.Context, group *models.Group, summary *MigrationSummary) error {

	appIDs := AppIDs(group)

	if len(appIDs) == 0 {
		logrus.WithFields(logrus.Fields{
			"group": group.Name,
		}).Warnln("No application IDs for group, skipping")
		summary.GroupsSkipped++
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"group": group.Name,
		"apps":  len(appIDs),
		"users": group.TotalUsers,
	}).Infoln("Processing group")

	resourceGroup, err := p.ensureResourceGroup(ctx, group.Name, appIDs)
	if err != nil {
		return fmt.Errorf("resource group: %w", err)
	}

	role, err := p.createRole(ctx, group.Name, resourceGroup.ID)
	if err != nil {
		return fmt.Errorf("role: %w", err)
	}
	if role == nil {
		// Role already existed; leave the access group wiring alone
		summary.GroupsProcessed++
		summary.UsersSeen += group.TotalUsers
		return nil
	}
	summary.RolesCreated++

	if err := p.createUserAccessGroup(ctx, group.Name, role.ID); err != nil {
		return fmt.Errorf("user access group: %w", err)
	}

	summary.GroupsProcessed++
	summary.UsersSeen += group.TotalUsers
	return nil
}

// ensureResourceGroup looks the resource group up by name first and
// creates it if absent. A 409 on create is resolved via a second lookup.
func (p *Provisioner) ensureResourceGroup(ctx context.Context, name string, appIDs []string) (*models.ResourceGroup, error) {

	existing, err := p.client.FindResourceGroupByName(ctx, name)
	if err == nil {
		logrus.WithFields(logrus.Fields{
			"name": name,
			"id":   existing.ID,
		}).Infoln("Resource group already exists")
		return existing, nil
	}
	if !errors.Is(err, client.ErrNotFound) {
		return nil, err
	}

	created, err := p.client.CreateResourceGroup(ctx, &models.CreateResourceGroupRequest{
		Name:             name,
		Description:      fmt.Sprintf("Resource Group for %s", name),
		ResourceGroupIDs: []string{},
		ResourceIDMap: map[string][]string{
			models.ResourceTypeApplication: appIDs,
		},
	})

	if errors.Is(err, client.ErrConflict) {
		logrus.WithFields(logrus.Fields{
			"name": name,
		}).Warnln("Resource group already exists")
		return p.client.FindResourceGroupByName(ctx, name)
	}
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"name": name,
		"id":   created.ID,
	}).Infoln("Created resource group")

	return created, nil
}

// createRole creates the group's role. A conflict is logged and returns
// nil, nil: the role is assumed wired from an earlier run and the group's
// access group is left untouched.
func (p *Provisioner) createRole(ctx context.Context, name, resourceGroupID string) (*models.Role, error) {

	role, err := p.client.CreateRole(ctx, &models.CreateRoleRequest{
		Name:             name,
		Description:      fmt.Sprintf("Role for %s", name),
		Actions:          p.actions,
		ResourceGroupIDs: []string{resourceGroupID},
	})

	if errors.Is(err, client.ErrConflict) {
		logrus.WithFields(logrus.Fields{
			"name": name,
		}).Warnln("Role already exists, skipping")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"name": name,
		"id":   role.ID,
	}).Infoln("Created role")

	return role, nil
}

// createUserAccessGroup creates the access group referencing the new role
// and, when selected, the built-in role. Membership starts empty and is
// populated by the sync pass.
func (p *Provisioner) createUserAccessGroup(ctx context.Context, name, roleID string) error {

	roleIDs := []string{roleID}
	if len(p.builtinRoleID) > 0 {
		roleIDs = append(roleIDs, p.builtinRoleID)
	}

	uag, err := p.client.CreateUserAccessGroup(ctx, &models.CreateUserAccessGroupRequest{
		Name:        name,
		Description: fmt.Sprintf("User access group for %s", name),
		RoleIDs:     roleIDs,
		UserIDs:     []string{},
	})

	if errors.Is(err, client.ErrConflict) {
		logrus.WithFields(logrus.Fields{
			"name": name,
		}).Warnln("User access group already exists, skipping")
		return nil
	}
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"name": name,
		"id":   uag.ID,
	}).Infoln("Created user access group")

	return nil
}
