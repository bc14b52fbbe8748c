package domain

import (
	"fmt"
	"strings"
)

// Role is the platform-wide role assigned to a user. Values are parsed once at
// the boundary; everywhere else comparison is exact equality.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleProjectManager Role = "project_manager"
	RoleTeamMember     Role = "team_member"
	RoleClient         Role = "client"
	RoleArchitect      Role = "architect"
	RoleContractor     Role = "contractor"
)

// Roles lists every valid role.
var Roles = []Role{
	RoleAdmin,
	RoleProjectManager,
	RoleTeamMember,
	RoleClient,
	RoleArchitect,
	RoleContractor,
}

// ParseRole converts an external role string to a Role. Input is lower-cased
// before comparison; unknown values are rejected.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleAdmin, RoleProjectManager, RoleTeamMember, RoleClient, RoleArchitect, RoleContractor:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IsAdmin reports whether the role has full administrative access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// CanManageProjects reports whether the role may create and manage projects.
func (r Role) CanManageProjects() bool {
	return r == RoleAdmin || r == RoleProjectManager
}

// HasTeamAccess reports whether the role belongs to the internal team and may
// see internal-only content.
func (r Role) HasTeamAccess() bool {
	return r.CanManageProjects() || r == RoleTeamMember
}

// Label returns the human-readable name of the role.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleProjectManager:
		return "Project Manager"
	case RoleTeamMember:
		return "Team Member"
	case RoleClient:
		return "Client"
	case RoleArchitect:
		return "Architect"
	case RoleContractor:
		return "Contractor"
	}
	return string(r)
}

// MemberRole is the per-project membership role.
type MemberRole string

const (
	MemberRoleManager MemberRole = "manager"
	MemberRoleMember  MemberRole = "member"
)

// ParseMemberRole converts an external membership role string to a MemberRole.
func ParseMemberRole(s string) (MemberRole, error) {
	r := MemberRole(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case MemberRoleManager, MemberRoleMember:
		return r, nil
	}
	return "", fmt.Errorf("unknown member role %q", s)
}
