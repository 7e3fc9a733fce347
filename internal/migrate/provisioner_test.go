package migrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thand-io/rbac-migrate/internal/models"
)

const teamAGroups = `{
	"custom_groups": {
		"default": [
			{
				"group_id": 10,
				"name": "Team-A",
				"readonly": false,
				"total_users": 2,
				"users": [{"id": "u1"}, {"id": "u2"}],
				"applications": [{"application": {"app_id": "a1", "name": "App One"}}]
			}
		]
	},
	"predefined_groups": {}
}`

func TestProvisionerMigratesGroup(t *testing.T) {
	api := newFakeAPI(t)
	api.groupsBody = teamAGroups
	_, c := api.start()

	provisioner := NewProvisioner(c, []string{"APPLICATION_VIEW"}, "")

	summary, err := provisioner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.GroupsFound)
	assert.Equal(t, 1, summary.GroupsProcessed)
	assert.Equal(t, 1, summary.RolesCreated)
	assert.Equal(t, 2, summary.UsersSeen)
	assert.Equal(t, 0, summary.GroupsFailed)

	require.Len(t, api.resourceGroups, 1)
	rg := api.resourceGroups[0]
	assert.Equal(t, "Team-A", rg.Name)
	assert.Equal(t, []string{"a1"}, rg.ResourceIDMap[models.ResourceTypeApplication])

	require.Len(t, api.roles, 1)
	role := api.roles[0]
	assert.Equal(t, "Team-A", role.Name)
	assert.Equal(t, []string{"APPLICATION_VIEW"}, role.Actions)
	assert.Equal(t, []string{rg.ID}, role.ResourceGroupIDs)

	require.Len(t, api.uags, 1)
	uag := api.uags[0]
	assert.Equal(t, "Team-A", uag.Name)
	assert.Equal(t, []string{role.ID}, uag.RoleIDs)
	assert.Empty(t, uag.UserIDs)
}

func TestProvisionerAddsBuiltinRole(t *testing.T) {
	api := newFakeAPI(t)
	api.groupsBody = teamAGroups
	_, c := api.start()

	provisioner := NewProvisioner(c, []string{"APPLICATION_EDIT"}, "builtin-1")

	_, err := provisioner.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, api.uags, 1)
	require.Len(t, api.roles, 1)
	assert.Equal(t, []string{api.roles[0].ID, "builtin-1"}, api.uags[0].RoleIDs)
}

func TestProvisionerIsIdempotent(t *testing.T) {
	api := newFakeAPI(t)
	api.groupsBody = teamAGroups
	_, c := api.start()

	provisioner := NewProvisioner(c, []string{"APPLICATION_VIEW"}, "")

	_, err := provisioner.Run(context.Background())
	require.NoError(t, err)

	summary, err := provisioner.Run(context.Background())
	require.NoError(t, err)

	// Second run resolves the existing resource group via lookup and
	// skips on the role conflict, creating nothing new
	assert.Len(t, api.resourceGroups, 1)
	assert.Len(t, api.roles, 1)
	assert.Len(t, api.uags, 1)
	assert.Equal(t, 1, summary.GroupsProcessed)
	assert.Equal(t, 0, summary.RolesCreated)
	assert.Equal(t, 0, summary.GroupsFailed)
}

func TestProvisionerSkipsReadonlyGroups(t *testing.T) {
	api := newFakeAPI(t)
	api.groupsBody = `{
		"custom_groups": {
			"default": [
				{
					"group_id": 20,
					"name": "Readonly-Group",
					"readonly": true,
					"applications": [{"application": {"app_id": "a9"}}]
				}
			]
		},
		"predefined_groups": {}
	}`
	_, c := api.start()

	provisioner := NewProvisioner(c, []string{"APPLICATION_VIEW"}, "")

	summary, err := provisioner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.GroupsSkipped)
	assert.Equal(t, 0, summary.GroupsProcessed)
	assert.Empty(t, api.resourceGroups)
	assert.Empty(t, api.roles)
	assert.Empty(t, api.uags)

	// Only the groups listing itself was fetched
	assert.Equal(t, 1, api.requestCount())
}

func TestProvisionerSkipsGroupsWithoutApplications(t *testing.T) {
	api := newFakeAPI(t)
	api.groupsBody = `{
		"custom_groups": {
			"default": [
				{
					"group_id": 30,
					"name": "No-Apps",
					"readonly": false,
					"applications": [{"application": {"name": "missing id"}}, {}]
				}
			]
		},
		"predefined_groups": {}
	}`
	_, c := api.start()

	provisioner := NewProvisioner(c, []string{"APPLICATION_VIEW"}, "")

	summary, err := provisioner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.GroupsSkipped)
	assert.Empty(t, api.resourceGroups)
	assert.Empty(t, api.roles)
	assert.Empty(t, api.uags)
}

func TestProvisionerContinuesAfterGroupFailure(t *testing.T) {
	api := newFakeAPI(t)
	api.groupsBody = `{
		"custom_groups": {
			"default": [
				{
					"group_id": 40,
					"name": "Team-Err",
					"readonly": false,
					"applications": [{"application": {"app_id": "e1"}}]
				},
				{
					"group_id": 41,
					"name": "Team-B",
					"readonly": false,
					"applications": [{"application": {"app_id": "b1"}}]
				}
			]
		},
		"predefined_groups": {}
	}`
	api.failRoleCreate = map[string]bool{"Team-Err": true}
	_, c := api.start()

	provisioner := NewProvisioner(c, []string{"APPLICATION_VIEW"}, "")

	summary, err := provisioner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.GroupsFailed)
	assert.Equal(t, 1, summary.GroupsProcessed)
	require.Len(t, api.uags, 1)
	assert.Equal(t, "Team-B", api.uags[0].Name)
}

func TestMigrateThenSyncEndToEnd(t *testing.T) {
	api := newFakeAPI(t)
	api.groupsBody = teamAGroups
	api.details[10] = &models.GroupDetails{
		Group: models.GroupDetail{
			GroupID: 10,
			Name:    "Team-A",
			Users:   []models.User{{ID: "u1"}, {ID: "u2"}},
		},
	}
	_, c := api.start()

	provisioner := NewProvisioner(c, []string{"APPLICATION_VIEW"}, "")
	_, err := provisioner.Run(context.Background())
	require.NoError(t, err)

	synchronizer := NewSynchronizer(c)
	syncSummary, err := synchronizer.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, syncSummary.GroupsUpdated)

	require.Len(t, api.uags, 1)
	require.Len(t, api.roles, 1)
	uag := api.uags[0]
	assert.Equal(t, "Team-A", uag.Name)
	assert.Equal(t, []string{api.roles[0].ID}, uag.RoleIDs)
	assert.Equal(t, []string{"u1", "u2"}, uag.UserIDs)
}
