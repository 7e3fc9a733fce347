package migrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/thand-io/rbac-migrate/internal/client"
	"github.com/thand-io/rbac-migrate/internal/models"
)

// Synchronizer back-fills access group membership after a migration pass.
// It is a pure overwrite of userIds: the access group's existing roleIds
// are carried through unchanged.
type Synchronizer struct {
	client *client.Client
}

func NewSynchronizer(c *client.Client) *Synchronizer {
	return &Synchronizer{client: c}
}

type SyncSummary struct {
	GroupsProcessed int
	GroupsUpdated   int
	GroupsFailed    int
}

// Run re-fetches the source groups and pushes each group's member list
// into the access group of the same name. Missing access groups are
// logged and skipped; there is no retry.
func (s *Synchronizer) Run(ctx context.Context) (*SyncSummary, error) {
	groupsData, err := s.client.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch groups: %w", err)
	}

	groups := FlattenGroups(groupsData)
	summary := &SyncSummary{}

	logrus.WithFields(logrus.Fields{
		"groups": len(groups),
	}).Infoln("Fetched groups for membership sync")

	for i := range groups {
		group := &groups[i]

		if !group.IsValid() {
			logrus.WithFields(logrus.Fields{
				"group_id": group.GroupID,
				"name":     group.Name,
			}).Warnln("Skipping malformed group entry")
			continue
		}

		if group.Readonly {
			logrus.WithFields(logrus.Fields{
				"group": group.Name,
			}).Debugln("Skipping readonly group")
			continue
		}

		summary.GroupsProcessed++

		if err := s.syncGroup(ctx, group); err != nil {
			summary.GroupsFailed++
			continue
		}

		summary.GroupsUpdated++
	}

	return summary, nil
}

func (s *Synchronizer) syncGroup(ctx context.Context, group *models.Group) error {

	details, err := s.client.GetGroupDetails(ctx, group.GroupID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"group": group.Name,
		}).Errorln("Failed to fetch group details")
		return err
	}

	userIDs := UserIDs(details)
	if len(userIDs) == 0 {
		logrus.WithFields(logrus.Fields{
			"group": group.Name,
		}).Warnln("No user IDs found in group, skipping update")
		return fmt.Errorf("no user IDs found in group %s", group.Name)
	}

	logrus.WithFields(logrus.Fields{
		"group": group.Name,
		"users": len(userIDs),
	}).Infoln("Syncing group membership")

	uag, err := s.client.FindUserAccessGroupByName(ctx, group.Name)
	if errors.Is(err, client.ErrNotFound) {
		logrus.WithFields(logrus.Fields{
			"group": group.Name,
		}).Warnln("User access group not found, skipping update")
		return err
	}
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"group": group.Name,
		}).Errorln("Failed to look up user access group")
		return err
	}

	_, err = s.client.UpdateUserAccessGroup(ctx, uag.ID, &models.UpdateUserAccessGroupRequest{
		Name:        group.Name,
		Description: fmt.Sprintf("Edit user access group for %s", group.Name),
		RoleIDs:     uag.RoleIDs,
		UserIDs:     userIDs,
	})
	if err != nil {
		return fmt.Errorf("failed to update user access group: %w", err)
	}

	return nil
}
