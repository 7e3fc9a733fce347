package models

import "encoding/json"

// Group is a group record from the legacy organization API. It is the
// source of truth for the migration and is never written back.
type Group struct {
	GroupID      int64              `json:"group_id"`
	Name         string             `json:"name"`
	Readonly     bool               `json:"readonly"`
	Users        []User             `json:"users,omitempty"`
	Applications []ApplicationEntry `json:"applications,omitempty"`
	TotalUsers   int                `json:"total_users,omitempty"`
}

func (g *Group) GetName() string {
	return g.Name
}

func (g *Group) IsValid() bool {
	return g.GroupID != 0 && len(g.Name) > 0
}

type User struct {
	ID string `json:"id"`
}

// ApplicationEntry wraps the nested application object returned by the
// groups endpoint when expanded with applications.
type ApplicationEntry struct {
	Application *Application `json:"application,omitempty"`
}

type Application struct {
	AppID string `json:"app_id"`
	Name  string `json:"name,omitempty"`
}

// GroupsResponse is the envelope returned by the expanded groups listing.
// Both maps go from category name to a list of groups. The values are kept
// raw because the API returns non-list shapes for some categories; the
// extractor skips anything that does not decode as a group list.
type GroupsResponse struct {
	CustomGroups     map[string]json.RawMessage `json:"custom_groups"`
	PredefinedGroups map[string]json.RawMessage `json:"predefined_groups"`
}

// GroupDetails is the envelope returned by the group detail endpoint.
type GroupDetails struct {
	Group GroupDetail `json:"group"`
}

type GroupDetail struct {
	GroupID int64  `json:"group_id"`
	Name    string `json:"name"`
	Users   []User `json:"users,omitempty"`
}
