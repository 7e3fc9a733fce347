package client

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/thand-io/rbac-migrate/internal/models"
)

// FindResourceGroupByName looks up an existing resource group using the
// nameFilter query parameter. The first result wins; ErrNotFound is
// returned when the filter matches nothing.
func (c *Client) FindResourceGroupByName(ctx context.Context, name string) (*models.ResourceGroup, error) {
	var page models.Page[models.ResourceGroup]

	resp, err := c.request().
		SetContext(ctx).
		SetQueryParam("nameFilter", name).
		SetResult(&page).
		Get(c.v4Path("/resource-groups"))

	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp, false); err != nil {
		return nil, err
	}

	rg, ok := page.First()
	if !ok {
		return nil, ErrNotFound
	}
	return rg, nil
}

// ListResourceGroupsByName returns every resource group matching the name
// filter. The cleanup path uses this to enforce exact name equality before
// deleting.
func (c *Client) ListResourceGroupsByName(ctx context.Context, name string) ([]models.ResourceGroup, error) {
	var page models.Page[models.ResourceGroup]

	resp, err := c.request().
		SetContext(ctx).
		SetQueryParam("nameFilter", name).
		SetResult(&page).
		Get(c.v4Path("/resource-groups"))

	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp, false); err != nil {
		return nil, err
	}

	return page.Content, nil
}

// CreateResourceGroup creates a resource group holding the given
// application IDs. A 409 comes back as ErrConflict so the caller can
// resolve the existing entity via lookup.
func (c *Client) CreateResourceGroup(ctx context.Context, req *models.CreateResourceGroupRequest) (*models.ResourceGroup, error) {
	var rg models.ResourceGroup

	resp, err := c.request().
		SetContext(ctx).
		SetBody(req).
		SetResult(&rg).
		Post(c.v4Path("/resource-groups"))

	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"name": req.Name,
		}).Errorln("Failed to create resource group")
		return nil, err
	}

	if err := checkStatus(resp, true); err != nil {
		return nil, err
	}

	return &rg, nil
}

func (c *Client) DeleteResourceGroup(ctx context.Context, id string) error {
	resp, err := c.request().
		SetContext(ctx).
		Delete(c.v4Path("/resource-groups/%s", id))

	if err != nil {
		return err
	}
	return checkStatus(resp, false)
}
