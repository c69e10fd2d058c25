package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/court-scheduler/internal/audit"
	"github.com/BruksfildServices01/court-scheduler/internal/middleware"
)

// writeAudit records a catalog change made by the current user.
func writeAudit(
	c *gin.Context,
	d *audit.Dispatcher,
	complexID uint,
	action string,
	entity string,
	entityID uint,
	meta any,
) {
	actor := middleware.Actor(c)
	id := entityID

	d.Dispatch(audit.Event{
		ComplexID: complexID,
		UserID:    actor.UserIDPtr(),
		Action:    action,
		Entity:    entity,
		EntityID:  &id,
		Metadata:  meta,
	})
}
