package models

// Page is the standard paged envelope used by the v4 API list endpoints.
type Page[T any] struct {
	Content []T `json:"content"`
}

func (p *Page[T]) First() (*T, bool) {
	if len(p.Content) == 0 {
		return nil, false
	}
	return &p.Content[0], true
}

// ResourceGroup is a named collection of application identifiers scoped
// for role permissions.
type ResourceGroup struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Description      string              `json:"description,omitempty"`
	ResourceGroupIDs []string            `json:"resourceGroupIds,omitempty"`
	ResourceIDMap    map[string][]string `json:"resourceIdMap,omitempty"`
}

// ResourceTypeApplication is the resourceIdMap key for application IDs.
const ResourceTypeApplication = "APPLICATION"

type CreateResourceGroupRequest struct {
	Name             string              `json:"name"`
	Description      string              `json:"description"`
	ResourceGroupIDs []string            `json:"resourceGroupIds"`
	ResourceIDMap    map[string][]string `json:"resourceIdMap"`
}

// Role is a v4 role referencing a set of actions and resource groups.
type Role struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	Actions          []string `json:"actions,omitempty"`
	ResourceGroupIDs []string `json:"resourceGroupIds,omitempty"`
}

type CreateRoleRequest struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Actions          []string `json:"actions"`
	ResourceGroupIDs []string `json:"resourceGroupIds"`
}

// UserAccessGroup is a named collection of users and role references.
// Membership is populated by the synchronizer after the migration pass.
type UserAccessGroup struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	RoleIDs     []string `json:"roleIds,omitempty"`
	UserIDs     []string `json:"userIds,omitempty"`
}

type CreateUserAccessGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	RoleIDs     []string `json:"roleIds"`
	UserIDs     []string `json:"userIds"`
}

// UpdateUserAccessGroupRequest replaces the member list of an existing
// access group. RoleIDs must carry the group's current role references;
// the synchronizer never rewires roles.
type UpdateUserAccessGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	RoleIDs     []string `json:"roleIds"`
	UserIDs     []string `json:"userIds"`
}
