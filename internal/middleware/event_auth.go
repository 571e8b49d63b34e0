package middleware

import (
	"context"
	"errors"

	"github.com/GabeHenrique/ong-connect-api/internal/constants"
	apierrors "github.com/GabeHenrique/ong-connect-api/internal/errors"
	"github.com/GabeHenrique/ong-connect-api/internal/models"
	"github.com/GabeHenrique/ong-connect-api/internal/services"
	"github.com/GabeHenrique/ong-connect-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// EventFinder loads an event by ID
type EventFinder interface {
	FindOne(ctx context.Context, id uint64) (*models.Event, error)
}

// LoadEvent resolves the :id parameter and stores the event in context
func LoadEvent(events EventFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := utils.ParseIDParam(c, "id")
		if err != nil {
			apierrors.BadRequest(c, "Invalid event ID")
			return
		}

		event, err := events.FindOne(c.Request.Context(), eventID)
		if err != nil {
			if errors.Is(err, services.ErrEventNotFound) {
				apierrors.NotFound(c, "Event not found")
				return
			}
			_ = c.Error(err)
			apierrors.InternalError(c, "Failed to load event")
			return
		}

		c.Set(constants.ContextKeyEvent, event)
		c.Next()
	}
}

// GetEvent retrieves the event loaded by LoadEvent
func GetEvent(c *gin.Context) (*models.Event, bool) {
	value, exists := c.Get(constants.ContextKeyEvent)
	if !exists {
		return nil, false
	}
	event, ok := value.(*models.Event)
	return event, ok
}
