package client

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/thand-io/rbac-migrate/internal/models"
)

// FindUserAccessGroupByName looks up an access group using the nameFilter
// query parameter, taking the first result.
func (c *Client) FindUserAccessGroupByName(ctx context.Context, name string) (*models.UserAccessGroup, error) {
	var page models.Page[models.UserAccessGroup]

	resp, err := c.request().
		SetContext(ctx).
		SetQueryParam("nameFilter", name).
		SetResult(&page).
		Get(c.v4Path("/user-access-groups"))

	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp, false); err != nil {
		return nil, err
	}

	uag, ok := page.First()
	if !ok {
		return nil, ErrNotFound
	}
	return uag, nil
}

// ListUserAccessGroupsByName returns every access group matching the name
// filter.
func (c *Client) ListUserAccessGroupsByName(ctx context.Context, name string) ([]models.UserAccessGroup, error) {
	var page models.Page[models.UserAccessGroup]

	resp, err := c.request().
		SetContext(ctx).
		SetQueryParam("nameFilter", name).
		SetResult(&page).
		Get(c.v4Path("/user-access-groups"))

	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp, false); err != nil {
		return nil, err
	}

	return page.Content, nil
}

// CreateUserAccessGroup creates an access group referencing the given
// roles, with no members. A 409 comes back as ErrConflict.
func (c *Client) CreateUserAccessGroup(ctx context.Context, req *models.CreateUserAccessGroupRequest) (*models.UserAccessGroup, error) {
	var uag models.UserAccessGroup

	resp, err := c.request().
		SetContext(ctx).
		SetBody(req).
		SetResult(&uag).
		Post(c.v4Path("/user-access-groups"))

	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"name": req.Name,
		}).Errorln("Failed to create user access group")
		return nil, err
	}

	if err := checkStatus(resp, true); err != nil {
		return nil, err
	}

	return &uag, nil
}

// UpdateUserAccessGroup replaces the state of an existing access group.
// The synchronizer uses this to overwrite userIds while carrying the
// group's existing roleIds.
func (c *Client) UpdateUserAccessGroup(ctx context.Context, id string, req *models.UpdateUserAccessGroupRequest) (*models.UserAccessGroup, error) {
	var uag models.UserAccessGroup

	resp, err := c.request().
		SetContext(ctx).
		SetBody(req).
		SetResult(&uag).
		Put(c.v4Path("/user-access-groups/%s", id))

	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"name": req.Name,
			"id":   id,
		}).Errorln("Failed to update user access group")
		return nil, err
	}

	if err := checkStatus(resp, false); err != nil {
		return nil, err
	}

	return &uag, nil
}

func (c *Client) DeleteUserAccessGroup(ctx context.Context, id string) error {
	resp, err := c.request().
		SetContext(ctx).
		Delete(c.v4Path("/user-access-groups/%s", id))

	if err != nil {
		return err
	}
	return checkStatus(resp, false)
}
