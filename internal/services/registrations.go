package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foraginglink/backend/internal/metrics"
	"github.com/foraginglink/backend/internal/models"
	"github.com/foraginglink/backend/internal/notify"
	"github.com/foraginglink/backend/internal/rules"
)

type RegistrationService struct {
	db       *gorm.DB
	courses  *CourseService
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewRegistrationService(db *gorm.DB, courses *CourseService, notifier notify.Notifier, log *slog.Logger) *RegistrationService {
	return &RegistrationService{
		db:       db,
		courses:  courses,
		notifier: notifier,
		logger:   log.With("component", "registrations"),
	}
}

// Create books a place for the viewer. The course row is locked for the
// duration of the transaction so concurrent bookings cannot exceed capacity.
func (s *RegistrationService) Create(ctx context.Context, viewer Viewer, req models.RegistrationRequest) (*models.CourseRegistration, error) {
	reg := &models.CourseRegistration{
		CourseID: req.CourseID,
		OwnerID:  viewer.UserID,
		Status:   models.StatusConfirmed,
	}
	applyRegistrationFields(reg, req)

	if err := rules.ValidateRegistrationFields(reg); err != nil {
		metrics.RejectedWrites.WithLabelValues("incomplete_registration").Inc()
		return nil, err
	}
	if err := rules.NormalizeRegistration(reg); err != nil {
		return nil, err
	}

	var course models.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&course, reg.CourseID).Error; err != nil {
			return notFound(err, "course", reg.CourseID)
		}

		spaces, err := AvailableSpaces(tx, &course)
		if err != nil {
			return err
		}
		if spaces <= 0 {
			return &rules.CourseFullError{CourseID: course.ID, Capacity: course.MaxCapacity}
		}

		return tx.Create(reg).Error
	})
	if err != nil {
		var full *rules.CourseFullError
		if errors.As(err, &full) {
			metrics.RejectedWrites.WithLabelValues("course_full").Inc()
		}
		return nil, err
	}

	s.courses.Invalidate()
	metrics.Registrations.WithLabelValues("confirmed").Inc()
	s.logger.Info("registration confirmed", "registration_id", reg.ID, "course_id", course.ID)
	s.notify(ctx, reg.Phone, notify.RegistrationConfirmed(&course))

	return reg, nil
}

func (s *RegistrationService) Get(ctx context.Context, id int) (*models.CourseRegistration, error) {
	var reg models.CourseRegistration
	if err := s.db.WithContext(ctx).First(&reg, id).Error; err != nil {
		return nil, notFound(err, "registration", id)
	}
	return &reg, nil
}

func (s *RegistrationService) ListForCourse(ctx context.Context, courseID int) ([]models.CourseRegistration, error) {
	if _, err := s.courses.Get(ctx, courseID); err != nil {
		return nil, err
	}

	regs := []models.CourseRegistration{}
	err := s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("registration_date ASC, id ASC").
		Find(&regs).Error
	return regs, err
}

// Update lets staff correct a confirmed registration and optionally change its status.
// A cancelled registration is frozen.
func (s *RegistrationService) Update(ctx context.Context, id int, req models.RegistrationRequest) (*models.CourseRegistration, error) {
	var (
		reg    models.CourseRegistration
		change statusChange
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&reg, id).Error; err != nil {
			return notFound(err, "registration", id)
		}
		if reg.Status == models.StatusCancelled {
			return &rules.InvalidTransitionError{From: reg.Status, To: lo.Ternary(req.Status == "", reg.Status, req.Status)}
		}
		if req.CourseID != 0 && req.CourseID != reg.CourseID {
			return &rules.ValidationError{Field: "course", Message: "the course of a registration cannot be changed"}
		}

		applyRegistrationFields(&reg, req)
		if err := rules.ValidateRegistrationFields(&reg); err != nil {
			return err
		}
		if err := rules.NormalizeRegistration(&reg); err != nil {
			return err
		}
		if req.Status != "" {
			var err error
			if change, err = transition(&reg, req.Status); err != nil {
				return err
			}
		}

		return tx.Save(&reg).Error
	})
	if err != nil {
		return nil, err
	}

	s.courses.Invalidate()
	s.afterTransition(ctx, &reg, change)
	return &reg, nil
}

// TransitionStatus moves a registration to a new status and persists it in one
// transaction. Cancelling irreversibly replaces the registrant's email, phone
// and emergency contact with placeholders.
func (s *RegistrationService) TransitionStatus(ctx context.Context, id int, to models.RegistrationStatus) (*models.CourseRegistration, error) {
	var (
		reg    models.CourseRegistration
		change statusChange
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&reg, id).Error; err != nil {
			return notFound(err, "registration", id)
		}
		var err error
		if change, err = transition(&reg, to); err != nil {
			return err
		}
		return tx.Save(&reg).Error
	})
	if err != nil {
		return nil, err
	}

	s.courses.Invalidate()
	s.afterTransition(ctx, &reg, change)
	return &reg, nil
}

// statusChange records what a transition did so its side effects can run after commit.
type statusChange struct {
	to      models.RegistrationStatus
	phone   string
	changed bool
}

// transition applies a status change to a locked row. The phone is captured
// before cancellation anonymizes it.
func transition(reg *models.CourseRegistration, to models.RegistrationStatus) (statusChange, error) {
	change := statusChange{to: to, phone: reg.Phone, changed: reg.Status != to}
	if err := rules.TransitionStatus(reg, to); err != nil {
		return statusChange{}, err
	}
	return change, nil
}

func (s *RegistrationService) afterTransition(ctx context.Context, reg *models.CourseRegistration, change statusChange) {
	if !change.changed || change.to != models.StatusCancelled {
		return
	}
	metrics.Registrations.WithLabelValues("cancelled").Inc()
	s.logger.Info("registration cancelled", "registration_id", reg.ID)
	if course, err := s.courses.Get(ctx, reg.CourseID); err == nil {
		s.notify(ctx, change.phone, notify.RegistrationCancelled(&course.Course))
	}
}

// Cancel cancels a registration on behalf of its owner or a staff member.
func (s *RegistrationService) Cancel(ctx context.Context, viewer Viewer, id int) (*models.CourseRegistration, error) {
	reg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.IsStaff && !viewer.Owns(&reg.OwnerID) {
		return nil, rules.ErrForbidden
	}
	return s.TransitionStatus(ctx, id, models.StatusCancelled)
}

func (s *RegistrationService) Delete(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(&models.CourseRegistration{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &rules.NotFoundError{Resource: "registration", ID: id}
	}
	s.courses.Invalidate()
	return nil
}

func (s *RegistrationService) notify(ctx context.Context, to, body string) {
	if err := s.notifier.Send(ctx, to, body); err != nil {
		metrics.SMSFailures.Inc()
		s.logger.Warn("failed to send notification", "error", err)
	}
}

func applyRegistrationFields(reg *models.CourseRegistration, req models.RegistrationRequest) {
	reg.Email = req.Email
	reg.Phone = req.Phone
	reg.HasDietaryRestrictions = req.HasDietaryRestrictions
	reg.DietaryRestrictions = req.DietaryRestrictions
	reg.IsDriver = req.IsDriver
	reg.HasEmergencyContact = req.HasEmergencyContact
	reg.EmergencyContactName = req.EmergencyContactName
	reg.EmergencyContactNumber = req.EmergencyContactNumber
}
