// Package permission evaluates content-mutation rights for memorial
// collaborators. It is a pure rule table: no I/O, no persistence. Viewing
// rights are decided elsewhere (service.AccessService); this package only
// answers whether a role may perform an action on a resource.
package permission

import "everkeep-backend/internal/domain"

// Context carries the call-site flags a rule predicate may inspect.
type Context struct {
	// IsCreator is true when the acting user created the content being mutated.
	IsCreator bool
	// Elevated is true when a moderator acts on flagged or reported content.
	Elevated bool
}

// UserPermissions identifies the acting user relative to a memorial.
type UserPermissions struct {
	Role    domain.CollaboratorRole
	IsOwner bool
}

// Rule allows Action on Resource for a role. Either field may be "*".
// When lists more than one rule match, the first wins; a nil When allows
// unconditionally.
type Rule struct {
	Action   string
	Resource string
	When     func(Context) bool
}

var rolePolicies = map[domain.CollaboratorRole][]Rule{
	domain.CollaboratorRoleAdmin: {
		{Action: "create", Resource: "*"},
		{Action: "update", Resource: "*"},
		{Action: "delete", Resource: "*"},
		{Action: "moderate", Resource: "*"},
	},
	domain.CollaboratorRoleModerator: {
		{Action: "create", Resource: "*"},
		{Action: "moderate", Resource: "*"},
		{Action: "update", Resource: "*", When: func(c Context) bool { return c.IsCreator || c.Elevated }},
		{Action: "delete", Resource: "*", When: func(c Context) bool { return c.IsCreator || c.Elevated }},
	},
	domain.CollaboratorRoleContributor: {
		{Action: "create", Resource: "*"},
		{Action: "update", Resource: "*", When: func(c Context) bool { return c.IsCreator }},
		{Action: "delete", Resource: "*", When: func(c Context) bool { return c.IsCreator }},
	},
}

// HasPermission reports whether the user may perform action on resource.
// Owners bypass the rule table entirely. Matching runs in three passes over
// the role's rules: full wildcard, partial wildcard, exact. The first rule
// that matches decides the outcome via its predicate.
func HasPermission(perms UserPermissions, action, resource string, ctx Context) bool {
	if perms.IsOwner {
		return true
	}

	rules, ok := rolePolicies[perms.Role]
	if !ok {
		return false
	}

	if rule := matchRule(rules, action, resource); rule != nil {
		if rule.When == nil {
			return true
		}
		return rule.When(ctx)
	}
	return false
}

func matchRule(rules []Rule, action, resource string) *Rule {
	// Full wildcard first, then partial wildcards, then exact match.
	for i := range rules {
		r := &rules[i]
		if r.Action == "*" && r.Resource == "*" {
			return r
		}
	}
	for i := range rules {
		r := &rules[i]
		if r.Action == "*" && r.Resource == resource {
			return r
		}
		if r.Action == action && r.Resource == "*" {
			return r
		}
	}
	for i := range rules {
		r := &rules[i]
		if r.Action == action && r.Resource == resource {
			return r
		}
	}
	return nil
}
