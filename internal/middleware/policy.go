package middleware

import (
	"strings"

	apierrors "github.com/GabeHenrique/ong-connect-api/internal/errors"
	"github.com/GabeHenrique/ong-connect-api/internal/models"
	"github.com/gin-gonic/gin"
)

// Action is an operation guarded by the policy
type Action string

const (
	ActionCreateEvent      Action = "event:create"
	ActionModifyEvent      Action = "event:modify"
	ActionEnroll           Action = "event:enroll"
	ActionViewApplications Action = "event:applications"
)

// Resource describes what an action touches. OwnerID is the creator of the
// event, SubjectEmail the user an enrollment is made for.
type Resource struct {
	OwnerID      uint64
	SubjectEmail string
}

// Decision is the outcome of a policy evaluation
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Evaluate decides whether actor may perform action on resource. It is the
// only place where role and ownership rules live.
func Evaluate(actor Principal, action Action, resource Resource) Decision {
	switch action {
	case ActionCreateEvent:
		if actor.Role != models.RoleONG {
			return deny("Only ONGs can create events")
		}
		return allow()

	case ActionModifyEvent:
		if actor.Role != models.RoleONG {
			return deny("Only ONGs can modify events")
		}
		if actor.UserID != resource.OwnerID {
			return deny("Only the event creator can modify this event")
		}
		return allow()

	case ActionEnroll:
		if strings.EqualFold(actor.Email, strings.TrimSpace(resource.SubjectEmail)) {
			return allow()
		}
		if resource.OwnerID != 0 && actor.UserID == resource.OwnerID {
			return allow()
		}
		return deny("You can only manage your own enrollment")

	case ActionViewApplications:
		return allow()

	default:
		return deny("Unknown action")
	}
}

// ResourceResolver extracts the resource of an action from the request
type ResourceResolver func(c *gin.Context) Resource

// Authorize evaluates the policy for the authenticated caller and aborts
// with 403 when denied. It must run after RequireAuth and, for event
// resources, after LoadEvent.
func Authorize(action Action, resolve ResourceResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var resource Resource
		if resolve != nil {
			resource = resolve(c)
		}
		if !Enforce(c, action, resource) {
			return
		}
		c.Next()
	}
}

// Enforce evaluates the policy inside a handler. When it returns false the
// response has already been written.
func Enforce(c *gin.Context, action Action, resource Resource) bool {
	actor, ok := GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return false
	}

	decision := Evaluate(actor, action, resource)
	if !decision.Allowed {
		apierrors.Forbidden(c, decision.Reason)
		return false
	}
	return true
}

// EventOwner resolves the creator of the event loaded by LoadEvent
func EventOwner(c *gin.Context) Resource {
	event, ok := GetEvent(c)
	if !ok {
		return Resource{}
	}
	return Resource{OwnerID: event.CreatorID}
}

// EventSubject resolves the event owner and the user named by a path
// parameter
func EventSubject(param string) ResourceResolver {
	return func(c *gin.Context) Resource {
		resource := EventOwner(c)
		resource.SubjectEmail = c.Param(param)
		return resource
	}
}
