package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/GabeHenrique/ong-connect-api/internal/constants"
	"github.com/GabeHenrique/ong-connect-api/internal/dto"
	apierrors "github.com/GabeHenrique/ong-connect-api/internal/errors"
	"github.com/GabeHenrique/ong-connect-api/internal/middleware"
	"github.com/GabeHenrique/ong-connect-api/internal/services"
	"github.com/GabeHenrique/ong-connect-api/internal/storage"
	"github.com/GabeHenrique/ong-connect-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// EventHandler serves the event and enrollment routes.
type EventHandler struct {
	eventService      *services.EventService
	enrollmentService *services.EnrollmentService
	maxUploadBytes    int64
}

// NewEventHandler creates a new EventHandler. maxUploadMB caps multipart
// request bodies.
func NewEventHandler(eventService *services.EventService, enrollmentService *services.EnrollmentService, maxUploadMB int64) *EventHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = constants.DefaultMaxUploadMB
	}
	return &EventHandler{
		eventService:      eventService,
		enrollmentService: enrollmentService,
		maxUploadBytes:    maxUploadMB << 20,
	}
}

// ListEvents returns events ordered by date, optionally filtered by search
// and capped by limit.
func (h *EventHandler) ListEvents(c *gin.Context) {
	params := utils.GetListParams(c)

	events, err := h.eventService.FindAll(c.Request.Context(), params.Limit, params.Search)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTOs(events))
}

// GetEvent returns a single event.
func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid event ID")
		return
	}

	event, err := h.eventService.FindOne(c.Request.Context(), eventID)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*event))
}

// CreateEvent creates an event from a multipart form with an image.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req services.CreateEventInput
	if !h.bindMultipart(c, &req) {
		return
	}

	image, closeImage, ok := h.formImage(c)
	if !ok {
		return
	}
	defer closeImage()

	event, err := h.eventService.Create(c.Request.Context(), userID, req, image)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEventDTO(*event))
}

// UpdateEvent applies a partial update, optionally replacing the image.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	var req services.UpdateEventInput
	if !h.bindMultipart(c, &req) {
		return
	}

	image, closeImage, ok := h.formImage(c)
	if !ok {
		return
	}
	defer closeImage()

	updated, err := h.eventService.Update(c.Request.Context(), event.ID, req, image)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*updated))
}

// DeleteEvent deletes the event, its image and its applications.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), event.ID); err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Event deleted successfully"})
}

// ToggleAttendance adds the user to the roster or removes them, together
// with their application.
func (h *EventHandler) ToggleAttendance(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	detail, err := h.enrollmentService.ToggleAttendance(c.Request.Context(), event.ID, c.Param("userEmail"))
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDetailDTO(*detail))
}

// ApplyForEvent stores the application and enrolls the applicant.
func (h *EventHandler) ApplyForEvent(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	var req services.ApplyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	// The applicant is only known once the body is read.
	if !middleware.Enforce(c, middleware.ActionEnroll, middleware.Resource{
		OwnerID:      event.CreatorID,
		SubjectEmail: req.Email,
	}) {
		return
	}

	detail, err := h.enrollmentService.ApplyForEvent(c.Request.Context(), event.ID, req)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDetailDTO(*detail))
}

// ListUserEvents returns the events an ONG created or a volunteer joined.
func (h *EventHandler) ListUserEvents(c *gin.Context) {
	events, err := h.eventService.FindEventsByUser(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTOs(events))
}

// ListApplications returns the applications of an event.
func (h *EventHandler) ListApplications(c *gin.Context) {
	event, ok := middleware.GetEvent(c)
	if !ok {
		apierrors.InternalError(c, "Event not found in context")
		return
	}

	applicants, err := h.eventService.ListApplications(c.Request.Context(), event.ID)
	if err != nil {
		respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, applicants)
}

func (h *EventHandler) bindMultipart(c *gin.Context, req interface{}) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	if err := c.ShouldBind(req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			apierrors.PayloadTooLarge(c, "Upload exceeds the maximum allowed size")
			return false
		}
		apierrors.BadRequest(c, "Invalid form data")
		return false
	}
	return true
}

// formImage opens the optional image part. A missing part yields a nil file.
func (h *EventHandler) formImage(c *gin.Context) (*storage.File, func(), bool) {
	noop := func() {}

	header, err := c.FormFile(constants.EventImageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, true
		}
		apierrors.BadRequest(c, "Invalid image upload")
		return nil, noop, false
	}

	file, err := header.Open()
	if err != nil {
		_ = c.Error(err)
		apierrors.InternalError(c, "Failed to read image")
		return nil, noop, false
	}

	return toStorageFile(header, file), func() { file.Close() }, true
}

func toStorageFile(header *multipart.FileHeader, file multipart.File) *storage.File {
	return &storage.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
}

func respondEventError(c *gin.Context, err error) {
	var validationErr *services.ValidationError

	switch {
	case errors.As(err, &validationErr):
		apierrors.BadRequestWithDetails(c, "Validation failed", validationErr.Fields)
	case errors.Is(err, services.ErrImageRequired):
		apierrors.ImageRequired(c)
	case errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidVagas):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrEventNotFound):
		apierrors.NotFound(c, "Event not found")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrEventFull):
		apierrors.EventFull(c)
	case errors.Is(err, services.ErrImageUpload):
		_ = c.Error(err)
		apierrors.InternalError(c, "Failed to create event")
	case errors.Is(err, services.ErrImageDelete):
		_ = c.Error(err)
		apierrors.InternalError(c, "Failed to delete event image")
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "Internal server error")
	}
}
