package migrate

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/thand-io/rbac-migrate/internal/client"
)

// Cleaner tears down what the migration pass created: for each source
// group name it deletes the access group, role and resource group sharing
// that exact name. Deletions are independent; one failing never blocks
// the others.
type Cleaner struct {
	client *client.Client
}

func NewCleaner(c *client.Client) *Cleaner {
	return &Cleaner{client: c}
}

type CleanupSummary struct {
	UAGs           int
	Roles          int
	ResourceGroups int
}

func (c *Cleaner) Run(ctx context.Context) (*CleanupSummary, error) {
	groupsData, err := c.client.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch groups: %w", err)
	}

	groups := FlattenGroups(groupsData)
	summary := &CleanupSummary{}

	names := make([]string, 0, len(groups))
	seen := make(map[string]bool, len(groups))
	for _, group := range groups {
		if len(group.Name) == 0 || seen[group.Name] {
			continue
		}
		seen[group.Name] = true
		names = append(names, group.Name)
	}

	logrus.WithFields(logrus.Fields{
		"groups": len(names),
	}).Infoln("Checking groups for cleanup")

	for _, name := range names {
		logrus.WithFields(logrus.Fields{
			"group": name,
		}).Infoln("Cleaning up resources")

		if c.deleteUserAccessGroup(ctx, name) {
			summary.UAGs++
		}
		if c.deleteRole(ctx, name) {
			summary.Roles++
		}
		if c.deleteResourceGroup(ctx, name) {
			summary.ResourceGroups++
		}
	}

	return summary, nil
}

// deleteUserAccessGroup deletes the access group whose name equals the
// group name exactly. Substring matches from the name filter are ignored.
func (c *Cleaner) deleteUserAccessGroup(ctx context.Context, name string) bool {
	uags, err := c.client.ListUserAccessGroupsByName(ctx, name)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"name": name,
		}).Errorln("Failed to look up user access group for cleanup")
		return false
	}

	for _, uag := range uags {
		if uag.Name != name {
			continue
		}
		if err := c.client.DeleteUserAccessGroup(ctx, uag.ID); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"name": name,
				"id":   uag.ID,
			}).Errorln("Failed to delete user access group")
			return false
		}
		logrus.WithFields(logrus.Fields{
			"name": name,
			"id":   uag.ID,
		}).Infoln("Deleted user access group")
		return true
	}

	return false
}

func (c *Cleaner) deleteRole(ctx context.Context, name string) bool {
	roles, err := c.client.ListRolesByName(ctx, name)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"name": name,
		}).Errorln("Failed to look up role for cleanup")
		return false
	}

	for _, role := range roles {
		if role.Name != name {
			continue
		}
		if err := c.client.DeleteRole(ctx, role.ID); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"name": name,
				"id":   role.ID,
			}).Errorln("Failed to delete role")
			return false
		}
		logrus.WithFields(logrus.Fields{
			"name": name,
			"id":   role.ID,
		}).Infoln("Deleted role")
		return true
	}

	return false
}

func (c *Cleaner) deleteResourceGroup(ctx context.Context, name string) bool {
	rgs, err := c.client.ListResourceGroupsByName(ctx, name)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"name": name,
		}).Errorln("Failed to look up resource group for cleanup")
		return false
	}

	for _, rg := range rgs {
		if rg.Name != name {
			continue
		}
		if err := c.client.DeleteResourceGroup(ctx, rg.ID); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"name": name,
				"id":   rg.ID,
			}).Errorln("Failed to delete resource group")
			return false
		}
		logrus.WithFields(logrus.Fields{
			"name": name,
			"id":   rg.ID,
		}).Infoln("Deleted resource group")
		return true
	}

	return false
}
