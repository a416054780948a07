package rules

import (
	"strings"

	"github.com/samber/lo"

	"github.com/foraginglink/backend/internal/models"
)

func ValidateCourse(c *models.Course) error {
	if c.MaxCapacity > models.MaxCourseCapacity {
		return &ValidationError{Field: "max_capacity", Message: "maximum capacity cannot exceed 10"}
	}
	if c.MaxCapacity <= 0 {
		return &ValidationError{Field: "max_capacity", Message: "maximum capacity must be positive"}
	}
	if !lo.Contains(models.Seasons, c.Season) {
		return &ValidationError{Field: "season", Message: "select one of Spring, Summer or Autumn"}
	}
	if strings.TrimSpace(c.Title) == "" {
		return &ValidationError{Field: "title", Message: "this field is required"}
	}
	if c.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "this field is required"}
	}
	return nil
}
