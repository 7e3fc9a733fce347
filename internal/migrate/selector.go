package migrate

import (
	"context"
)

// ActionSelector supplies the action set for the migrated roles. The CLI
// provides an interactive implementation; flag-driven runs use the static
// one.
type ActionSelector interface {
	SelectActions(ctx context.Context) ([]string, error)
}

// BuiltinRoleSelector supplies the optional built-in role to attach to
// every created access group. An empty ID means no built-in role.
type BuiltinRoleSelector interface {
	SelectBuiltinRole(ctx context.Context) (string, error)
}

// StaticActionSelector returns a fixed action set.
type StaticActionSelector struct {
	Actions []string
}

func (s StaticActionSelector) SelectActions(context.Context) ([]string, error) {
	return s.Actions, nil
}

// StaticBuiltinRoleSelector returns a fixed built-in role ID, which may be
// empty.
type StaticBuiltinRoleSelector struct {
	RoleID string
}

func (s StaticBuiltinRoleSelector) SelectBuiltinRole(context.Context) (string, error) {
	return s.RoleID, nil
}
