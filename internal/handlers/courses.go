package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foraginglink/backend/internal/models"
	"github.com/foraginglink/backend/internal/services"
)

type CourseHandler struct {
	svc           *services.CourseService
	registrations *services.RegistrationService
	log           *slog.Logger
}

func NewCourseHandler(svc *services.CourseService, registrations *services.RegistrationService, log *slog.Logger) *CourseHandler {
	return &CourseHandler{svc: svc, registrations: registrations, log: log}
}

// GetUpcomingCourses returns the next three courses
func (h *CourseHandler) GetUpcomingCourses(c *gin.Context) {
	courses, err := h.svc.Upcoming(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// GetCourses returns every course from today on
func (h *CourseHandler) GetCourses(c *gin.Context) {
	courses, err := h.svc.ListFuture(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	course, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var input models.CourseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	course, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input models.CourseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	course, err := h.svc.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCourseRegistrations lists every registration for a course (staff only)
func (h *CourseHandler) GetCourseRegistrations(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	regs, err := h.registrations.ListForCourse(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, regs)
}
