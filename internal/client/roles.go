package client

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/thand-io/rbac-migrate/internal/models"
)

// ListRoles fetches up to size roles from the v4 API. The built-in role
// matcher wants the full list, so callers pass a generous size.
func (c *Client) ListRoles(ctx context.Context, size int) ([]models.Role, error) {
	var page models.Page[models.Role]

	resp, err := c.request().
		SetContext(ctx).
		SetQueryParam("size", strconv.Itoa(size)).
		SetResult(&page).
		Get(c.v4Path("/roles"))

	if err != nil {
		logrus.WithError(err).Errorln("Failed to fetch roles")
		return nil, err
	}
	if err := checkStatus(resp, false); err != nil {
		return nil, err
	}

	return page.Content, nil
}

// ListRolesByName returns every role matching the name filter.
func (c *Client) ListRolesByName(ctx context.Context, name string) ([]models.Role, error) {
	var page models.Page[models.Role]

	resp, err := c.request().
		SetContext(ctx).
		SetQueryParam("nameFilter", name).
		SetResult(&page).
		Get(c.v4Path("/roles"))

	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp, false); err != nil {
		return nil, err
	}

	return page.Content, nil
}

// CreateRole creates a role with the given action set and resource group
// references. A 409 comes back as ErrConflict.
func (c *Client) CreateRole(ctx context.Context, req *models.CreateRoleRequest) (*models.Role, error) {
	var role models.Role

	resp, err := c.request().
		SetContext(ctx).
		SetBody(req).
		SetResult(&role).
		Post(c.v4Path("/roles"))

	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"name": req.Name,
		}).Errorln("Failed to create role")
		return nil, err
	}

	if err := checkStatus(resp, true); err != nil {
		return nil, err
	}

	return &role, nil
}

func (c *Client) DeleteRole(ctx context.Context, id string) error {
	resp, err := c.request().
		SetContext(ctx).
		Delete(c.v4Path("/roles/%s", id))

	if err != nil {
		return err
	}
	return checkStatus(resp, false)
}

// ListActions fetches the available permission actions for the
// organization. Used to drive the custom action prompt.
func (c *Client) ListActions(ctx context.Context) ([]string, error) {
	var actions []string

	resp, err := c.request().
		SetContext(ctx).
		SetResult(&actions).
		Get(c.v4Path("/actions"))

	if err != nil {
		logrus.WithError(err).Errorln("Failed to fetch actions")
		return nil, err
	}
	if err := checkStatus(resp, false); err != nil {
		return nil, err
	}

	return actions, nil
}
