package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/foraginglink/backend/internal/cache"
	"github.com/foraginglink/backend/internal/models"
	"github.com/foraginglink/backend/internal/rules"
)

const (
	upcomingKey   = "courses:upcoming"
	futureKey     = "courses:future"
	upcomingLimit = 3
	dateLayout    = "2006-01-02"
)

type CourseView struct {
	models.Course
	AvailableSpaces int `json:"available_spaces"`
}

type CourseService struct {
	db     *gorm.DB
	cache  *cache.Cache[[]CourseView]
	logger *slog.Logger
}

func NewCourseService(db *gorm.DB, c *cache.Cache[[]CourseView], log *slog.Logger) *CourseService {
	return &CourseService{db: db, cache: c, logger: log.With("component", "courses")}
}

type courseRow struct {
	models.Course
	ConfirmedCount int
}

func (s *CourseService) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("courses").
		Select(`courses.*,
			(SELECT COUNT(*) FROM course_registrations cr
			 WHERE cr.course_id = courses.id AND cr.status = ?) AS confirmed_count`, string(models.StatusConfirmed))
}

func toCourseView(r courseRow) CourseView {
	return CourseView{Course: r.Course, AvailableSpaces: rules.SpacesLeft(r.MaxCapacity, r.ConfirmedCount)}
}

func (s *CourseService) future(ctx context.Context, limit int) ([]CourseView, error) {
	q := s.query(ctx).
		Where("courses.date >= ?", time.Now().UTC().Format(dateLayout)).
		Order("courses.date ASC, courses.id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []courseRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return lo.Map(rows, func(r courseRow, _ int) CourseView { return toCourseView(r) }), nil
}

// Upcoming returns the next three courses that have not yet taken place.
func (s *CourseService) Upcoming(ctx context.Context) ([]CourseView, error) {
	return s.cache.Remember(upcomingKey, func() ([]CourseView, error) {
		return s.future(ctx, upcomingLimit)
	})
}

// ListFuture returns every course from today onwards, soonest first.
func (s *CourseService) ListFuture(ctx context.Context) ([]CourseView, error) {
	return s.cache.Remember(futureKey, func() ([]CourseView, error) {
		return s.future(ctx, 0)
	})
}

func (s *CourseService) Get(ctx context.Context, id int) (*CourseView, error) {
	var rows []courseRow
	if err := s.query(ctx).Where("courses.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &rules.NotFoundError{Resource: "course", ID: id}
	}
	view := toCourseView(rows[0])
	return &view, nil
}

// AvailableSpaces counts the free places on course using the registrations visible to tx.
func AvailableSpaces(tx *gorm.DB, course *models.Course) (int, error) {
	var registrations []models.CourseRegistration
	err := tx.Select("id", "course_id", "status").
		Where("course_id = ?", course.ID).
		Find(&registrations).Error
	if err != nil {
		return 0, err
	}
	return rules.AvailableSpaces(course, registrations), nil
}

func (s *CourseService) Create(ctx context.Context, req models.CourseRequest) (*CourseView, error) {
	course, err := courseFromRequest(req)
	if err != nil {
		return nil, err
	}
	course.MaxCapacity = models.MaxCourseCapacity
	if err := rules.ValidateCourse(course); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(course).Error; err != nil {
		return nil, err
	}
	s.Invalidate()
	s.logger.Info("course created", "course_id", course.ID, "date", course.Date.Format(dateLayout))

	return s.Get(ctx, course.ID)
}

// Update changes the descriptive fields of a course. Capacity is never taken from the request.
func (s *CourseService) Update(ctx context.Context, id int, req models.CourseRequest) (*CourseView, error) {
	var existing models.Course
	if err := s.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		return nil, notFound(err, "course", id)
	}

	course, err := courseFromRequest(req)
	if err != nil {
		return nil, err
	}
	course.ID = existing.ID
	course.MaxCapacity = existing.MaxCapacity
	course.CreatedAt = existing.CreatedAt
	if err := rules.ValidateCourse(course); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(course).Error; err != nil {
		return nil, err
	}
	s.Invalidate()

	return s.Get(ctx, id)
}

func (s *CourseService) Delete(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(&models.Course{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &rules.NotFoundError{Resource: "course", ID: id}
	}
	s.Invalidate()
	return nil
}

// Invalidate drops cached course listings. Registration writes call it because they change availability.
func (s *CourseService) Invalidate() {
	s.cache.Delete(upcomingKey)
	s.cache.Delete(futureKey)
}

func courseFromRequest(req models.CourseRequest) (*models.Course, error) {
	date, err := time.Parse(dateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return nil, &rules.ValidationError{Field: "date", Message: "use the format YYYY-MM-DD"}
	}
	return &models.Course{
		Season:      strings.TrimSpace(req.Season),
		Title:       strings.TrimSpace(req.Title),
		Date:        date,
		Description: req.Description,
		Location:    strings.TrimSpace(req.Location),
	}, nil
}
