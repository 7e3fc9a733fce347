package client

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/thand-io/rbac-migrate/internal/models"
)

// ListGroups fetches all groups with expanded user and application
// information from the legacy organization API.
func (c *Client) ListGroups(ctx context.Context) (*models.GroupsResponse, error) {
	var groups models.GroupsResponse

	resp, err := c.request().
		SetContext(ctx).
		SetQueryParam("expand", "users,applications,skip_links").
		SetResult(&groups).
		Get(c.legacyPath("/groups"))

	if err != nil {
		logrus.WithError(err).Errorln("Failed to fetch groups")
		return nil, err
	}

	if err := checkStatus(resp, false); err != nil {
		logrus.WithFields(logrus.Fields{
			"status": resp.StatusCode(),
		}).Errorln("Failed to fetch groups")
		return nil, err
	}

	return &groups, nil
}

// GetGroupDetails fetches the detail record for a single group, including
// its full member list.
func (c *Client) GetGroupDetails(ctx context.Context, groupID int64) (*models.GroupDetails, error) {
	var details models.GroupDetails

	resp, err := c.request().
		SetContext(ctx).
		SetResult(&details).
		Get(c.legacyPath("/groups/%d", groupID))

	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"group_id": groupID,
		}).Errorln("Failed to fetch group details")
		return nil, err
	}

	if err := checkStatus(resp, false); err != nil {
		return nil, err
	}

	return &details, nil
}
