// Package policy is the single source of truth for entity-level authorization.
// Every function is a pure predicate over (actor, entity) — no repository
// access, no context, so the rules are unit-testable in isolation.
package policy

import (
	"github.com/mandolon/rehome-platform-sub001/internal/domain"
)

// CanViewRequest reports whether the actor may view a request: admins, the
// creator, and the assignee only.
func CanViewRequest(actor domain.Actor, req *domain.Request) bool {
	if actor.Role.IsAdmin() {
		return true
	}
	if req.CreatedBy == actor.ID {
		return true
	}
	return req.AssigneeID != nil && *req.AssigneeID == actor.ID
}

// CanModifyRequest reports whether the actor may mutate a request. Same
// participants as CanViewRequest.
func CanModifyRequest(actor domain.Actor, req *domain.Request) bool {
	return CanViewRequest(actor, req)
}

// CanManageProject reports whether the actor may mutate a project or its
// membership. memberRole is the actor's membership role in that project, or
// empty when the actor is not a member.
func CanManageProject(actor domain.Actor, memberRole domain.MemberRole) bool {
	if actor.Role.IsAdmin() {
		return true
	}
	return actor.Role.CanManageProjects() && memberRole == domain.MemberRoleManager
}

// CanModifyTask reports whether the actor may mutate a task: admins, anyone
// with team access, the creator, and the assignee.
func CanModifyTask(actor domain.Actor, task *domain.Task) bool {
	if actor.Role.IsAdmin() || actor.Role.HasTeamAccess() {
		return true
	}
	if task.CreatedBy == actor.ID {
		return true
	}
	return task.AssigneeID != nil && *task.AssigneeID == actor.ID
}

// CanViewInternalComment reports whether the actor may see internal comments.
func CanViewInternalComment(actor domain.Actor) bool {
	return actor.Role.HasTeamAccess()
}

// CanDeleteComment reports whether the actor may delete a comment: admins and
// the author.
func CanDeleteComment(actor domain.Actor, c *domain.Comment) bool {
	return actor.Role.IsAdmin() || c.AuthorID == actor.ID
}

// CanDeleteFile reports whether the actor may delete an attachment: admins,
// the uploader, and project managers.
func CanDeleteFile(actor domain.Actor, f *domain.FileAttachment, memberRole domain.MemberRole) bool {
	if actor.Role.IsAdmin() || f.UploadedBy == actor.ID {
		return true
	}
	return CanManageProject(actor, memberRole)
}
