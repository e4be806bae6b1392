package mw

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"labstock-backend/internal/auth"
)

const actorKey = "actor"

// Actor parses the identity headers the upstream gateway attaches to
// every request (X-Actor-Id, X-Actor-Role, X-Actor-Lab) into an
// auth.Actor. Requests without headers carry an anonymous USER actor;
// the authorization policies decide what that actor may do.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := auth.Actor{Role: auth.RoleUser}
		if v := c.GetHeader("X-Actor-Id"); v != "" {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				actor.ID = id
			}
		}
		if v := c.GetHeader("X-Actor-Role"); v != "" {
			actor.Role = auth.Role(v)
		}
		if v := c.GetHeader("X-Actor-Lab"); v != "" {
			if labID, err := strconv.ParseInt(v, 10, 64); err == nil {
				actor.LabID = &labID
			}
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// CurrentActor returns the actor attached by the Actor middleware.
func CurrentActor(c *gin.Context) auth.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(auth.Actor); ok {
			return actor
		}
	}
	return auth.Actor{Role: auth.RoleUser}
}
