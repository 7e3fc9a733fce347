package migrate

import (
	"encoding/json"

	"github.com/thand-io/rbac-migrate/internal/models"
)

// FlattenGroups concatenates every list value from the custom and
// predefined group mappings into one ordered sequence. Entries that do not
// decode as group lists are skipped silently; no dedup is applied.
func FlattenGroups(resp *models.GroupsResponse) []models.Group {
	if resp == nil {
		return nil
	}

	var all []models.Group
	all = append(all, flattenCategoryMap(resp.CustomGroups)...)
	all = append(all, flattenCategoryMap(resp.PredefinedGroups)...)
	return all
}

func flattenCategoryMap(categories map[string]json.RawMessage) []models.Group {
	var groups []models.Group

	for _, raw := range categories {
		var list []models.Group
		if err := json.Unmarshal(raw, &list); err != nil {
			// Not a list of groups, skip the category
			continue
		}
		groups = append(groups, list...)
	}

	return groups
}

// AppIDs extracts the application IDs from a group's expanded application
// entries, following the nested applications[].application.app_id shape.
func AppIDs(group *models.Group) []string {
	var ids []string

	for _, entry := range group.Applications {
		if entry.Application == nil {
			continue
		}
		if len(entry.Application.AppID) == 0 {
			continue
		}
		ids = append(ids, entry.Application.AppID)
	}

	return ids
}

// UserIDs extracts the member user IDs from a group detail response.
func UserIDs(details *models.GroupDetails) []string {
	if details == nil {
		return nil
	}

	var ids []string
	for _, user := range details.Group.Users {
		if len(user.ID) == 0 {
			continue
		}
		ids = append(ids, user.ID)
	}

	return ids
}
