package rules

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/foraginglink/backend/internal/models"
)

var ErrForbidden = errors.New("you do not have permission to perform this action")

type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// NestingTooDeepError is returned when a reply targets a comment that is itself a reply.
type NestingTooDeepError struct {
	ParentID int
}

func (e *NestingTooDeepError) Error() string {
	return fmt.Sprintf("comment %d is a reply and cannot be replied to", e.ParentID)
}

type IncompleteDetailError struct {
	Field  string
	Reason string
}

func (e *IncompleteDetailError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

type DuplicateError struct {
	Resource string
}

func (e *DuplicateError) Error() string {
	return "possible duplicate"
}

type CourseFullError struct {
	CourseID int
	Capacity int
}

func (e *CourseFullError) Error() string {
	return fmt.Sprintf("course %d is fully booked (%d places)", e.CourseID, e.Capacity)
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type InvalidTransitionError struct {
	From models.RegistrationStatus
	To   models.RegistrationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change registration status from %q to %q", e.From, e.To)
}

// IsUniqueViolation reports whether err came from a unique constraint.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
