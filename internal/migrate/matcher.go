package migrate

import (
	"sort"
	"strings"

	"github.com/thand-io/rbac-migrate/internal/models"
)

// RoleMatcher picks a built-in role from the full role list. Matching is
// best-effort name sniffing; implementations return false when nothing
// qualifies and the caller proceeds without a built-in role.
type RoleMatcher interface {
	Match(roles []models.Role) (*models.Role, bool)
}

// OrgViewerMatcher finds the system-provided organization viewer role.
// An exact name match against the candidate list wins; otherwise a role
// qualifies when its lowercased name carries an organization token and a
// view token and none of the exclusion terms.
type OrgViewerMatcher struct{}

var orgViewerCandidates = []string{
	"Organization Viewer",
	"Organization View",
	"Org Viewer",
	"Organization Reader",
}

var orgViewerExcludeTerms = []string{
	"sca",
	"project",
	"group",
	"application",
	"app",
	"library",
	"vulnerability",
}

func (OrgViewerMatcher) Match(roles []models.Role) (*models.Role, bool) {
	for i := range roles {
		for _, candidate := range orgViewerCandidates {
			if strings.EqualFold(roles[i].Name, candidate) {
				return &roles[i], true
			}
		}
	}

	for i := range roles {
		name := strings.ToLower(roles[i].Name)

		hasOrg := strings.Contains(name, "organization") || strings.Contains(name, "org")
		hasView := strings.Contains(name, "view") || strings.Contains(name, "viewer")

		if !hasOrg || !hasView {
			continue
		}

		if containsAny(name, orgViewerExcludeTerms) {
			continue
		}

		return &roles[i], true
	}

	return nil, false
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// IsOrganizationRole reports whether the role name looks organization
// scoped. The built-in role prompt lists these first.
func IsOrganizationRole(role *models.Role) bool {
	name := strings.ToLower(role.Name)
	return strings.Contains(name, "organization") || strings.Contains(name, "org")
}

var builtinPatterns = []string{
	"organization",
	"viewer",
	"view",
	"admin",
	"reader",
	"observer",
	"monitor",
	"system",
	"default",
	"standard",
}

// FilterBuiltinRoles narrows the full role list down to roles that look
// system-provided, for the built-in role prompt. Names with underscores or
// dashes that match no built-in pattern are assumed to be custom roles.
// The result is sorted by name.
func FilterBuiltinRoles(roles []models.Role) []models.Role {
	var builtin []models.Role

	for _, role := range roles {
		name := strings.ToLower(role.Name)

		isBuiltin := containsAny(name, builtinPatterns)
		looksCustom := strings.ContainsAny(role.Name, "_-") && !isBuiltin

		if isBuiltin || !looksCustom {
			builtin = append(builtin, role)
		}
	}

	sort.Slice(builtin, func(i, j int) bool {
		return builtin[i].Name < builtin[j].Name
	})

	return builtin
}
