package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foraginglink/backend/internal/models"
	"github.com/foraginglink/backend/internal/rules"
)

func TestRegistrationCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	user := f.user(t, "rowan")
	course := f.course(t, "Spring greens", 72*time.Hour)
	require.Equal(t, models.MaxCourseCapacity, course.AvailableSpaces)

	for i := 0; i < models.MaxCourseCapacity; i++ {
		reg, err := f.svcs.Registrations.Create(ctx, user, registrationRequest(course.ID))
		require.NoError(t, err)
		require.Equal(t, models.StatusConfirmed, reg.Status)
		require.Equal(t, "+447700900123", reg.Phone)
	}

	_, err := f.svcs.Registrations.Create(ctx, user, registrationRequest(course.ID))
	var full *rules.CourseFullError
	require.ErrorAs(t, err, &full)
	require.Equal(t, course.ID, full.CourseID)

	view, err := f.svcs.Courses.Get(ctx, course.ID)
	require.NoError(t, err)
	require.Zero(t, view.AvailableSpaces)
	require.EqualValues(t, models.MaxCourseCapacity, f.count(t, &models.CourseRegistration{}))
	require.Len(t, f.notifier.Sent(), models.MaxCourseCapacity)

	regs, err := f.svcs.Registrations.ListForCourse(ctx, course.ID)
	require.NoError(t, err)
	_, err = f.svcs.Registrations.Cancel(ctx, user, regs[0].ID)
	require.NoError(t, err)

	view, err = f.svcs.Courses.Get(ctx, course.ID)
	require.NoError(t, err)
	require.Equal(t, 1, view.AvailableSpaces)

	_, err = f.svcs.Registrations.Create(ctx, user, registrationRequest(course.ID))
	require.NoError(t, err)
}

func TestConcurrentRegistrationsNeverOverbook(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	user := f.user(t, "rowan")
	course := f.course(t, "Autumn fungi", 48*time.Hour)

	const attempts = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svcs.Registrations.Create(ctx, user, registrationRequest(course.ID))
			mu.Lock()
			defer mu.Unlock()
			var full *rules.CourseFullError
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorAs(t, err, &full):
				rejected++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, models.MaxCourseCapacity, succeeded)
	require.Equal(t, attempts-models.MaxCourseCapacity, rejected)

	view, err := f.svcs.Courses.Get(ctx, course.ID)
	require.NoError(t, err)
	require.Zero(t, view.AvailableSpaces)
}

func TestRegistrationRejectsIncompleteDetails(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	user := f.user(t, "rowan")
	course := f.course(t, "Hedgerow jams", 24*time.Hour)

	req := registrationRequest(course.ID)
	req.HasDietaryRestrictions = true
	_, err := f.svcs.Registrations.Create(ctx, user, req)
	var incomplete *rules.IncompleteDetailError
	require.ErrorAs(t, err, &incomplete)
	require.Zero(t, f.count(t, &models.CourseRegistration{}))

	req.DietaryRestrictions = "coeliac"
	_, err = f.svcs.Registrations.Create(ctx, user, req)
	require.NoError(t, err)

	var notFound *rules.NotFoundError
	_, err = f.svcs.Registrations.Create(ctx, user, registrationRequest(9999))
	require.ErrorAs(t, err, &notFound)
}

func TestCancelAnonymizesAndIsFinal(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	owner := f.user(t, "rowan")
	stranger := f.user(t, "hazel")
	course := f.course(t, "Seaweed", 24*time.Hour)

	req := registrationRequest(course.ID)
	req.HasEmergencyContact = true
	req.EmergencyContactName = "Ash"
	req.EmergencyContactNumber = "07700 900456"
	reg, err := f.svcs.Registrations.Create(ctx, owner, req)
	require.NoError(t, err)

	_, err = f.svcs.Registrations.Cancel(ctx, stranger, reg.ID)
	require.ErrorIs(t, err, rules.ErrForbidden)

	cancelled, err := f.svcs.Registrations.Cancel(ctx, owner, reg.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusCancelled, cancelled.Status)

	stored, err := f.svcs.Registrations.Get(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, rules.AnonymizedEmail, stored.Email)
	assert.Equal(t, rules.AnonymizedPhone, stored.Phone)
	assert.Equal(t, rules.AnonymizedName, stored.EmergencyContactName)
	assert.Equal(t, rules.AnonymizedPhone, stored.EmergencyContactNumber)

	sent := f.notifier.Sent()
	require.Len(t, sent, 2)
	require.Equal(t, "+447700900123", sent[1].To)
	require.Contains(t, sent[1].Body, "cancelled")

	var invalid *rules.InvalidTransitionError
	_, err = f.svcs.Registrations.TransitionStatus(ctx, reg.ID, models.StatusConfirmed)
	require.ErrorAs(t, err, &invalid)

	_, err = f.svcs.Registrations.Update(ctx, reg.ID, registrationRequest(course.ID))
	require.ErrorAs(t, err, &invalid)

	stored, err = f.svcs.Registrations.Get(ctx, reg.ID)
	require.NoError(t, err)
	require.Equal(t, rules.AnonymizedEmail, stored.Email)
}

func TestStaffUpdateRegistration(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	owner := f.user(t, "rowan")
	course := f.course(t, "Seaweed", 24*time.Hour)

	reg, err := f.svcs.Registrations.Create(ctx, owner, registrationRequest(course.ID))
	require.NoError(t, err)

	req := registrationRequest(course.ID)
	req.IsDriver = true
	req.Email = "rowan@foraging.example"
	updated, err := f.svcs.Registrations.Update(ctx, reg.ID, req)
	require.NoError(t, err)
	require.True(t, updated.IsDriver)
	require.Equal(t, "rowan@foraging.example", updated.Email)

	req.Status = models.StatusCancelled
	updated, err = f.svcs.Registrations.Update(ctx, reg.ID, req)
	require.NoError(t, err)
	require.Equal(t, rules.AnonymizedEmail, updated.Email)
	require.False(t, updated.HasEmergencyContact)
	require.Empty(t, updated.EmergencyContactName)
	require.NoError(t, rules.ValidateRegistrationFields(updated))

	sent := f.notifier.Sent()
	require.Len(t, sent, 2)
	require.Equal(t, "+447700900123", sent[1].To)
	require.Contains(t, sent[1].Body, "cancelled")

	// a second cancel through Update is rejected and sends nothing
	_, err = f.svcs.Registrations.Update(ctx, reg.ID, req)
	var invalid *rules.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	require.Len(t, f.notifier.Sent(), 2)

	require.NoError(t, f.svcs.Registrations.Delete(ctx, reg.ID))
	require.Zero(t, f.count(t, &models.CourseRegistration{}))
}

func TestCourseListings(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	f.course(t, "Past walk", -72*time.Hour)
	fourth := f.course(t, "Fourth", 96*time.Hour)
	second := f.course(t, "Second", 48*time.Hour)
	first := f.course(t, "First", 24*time.Hour)
	third := f.course(t, "Third", 72*time.Hour)

	upcoming, err := f.svcs.Courses.Upcoming(ctx)
	require.NoError(t, err)
	require.Equal(t, []int{first.ID, second.ID, third.ID}, []int{upcoming[0].ID, upcoming[1].ID, upcoming[2].ID})
	require.Len(t, upcoming, 3)

	future, err := f.svcs.Courses.ListFuture(ctx)
	require.NoError(t, err)
	require.Len(t, future, 4)
	require.Equal(t, fourth.ID, future[3].ID)

	require.NoError(t, f.svcs.Courses.Delete(ctx, first.ID))
	upcoming, err = f.svcs.Courses.Upcoming(ctx)
	require.NoError(t, err)
	require.Equal(t, second.ID, upcoming[0].ID)
}

func TestCourseValidation(t *testing.T) {
	f := newFixture(t)

	var invalid *rules.ValidationError
	_, err := f.svcs.Courses.Create(t.Context(), models.CourseRequest{
		Season: "Winter", Title: "Frost", Date: "2030-01-01", Description: "cold", Location: "Moor",
	})
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "season", invalid.Field)

	_, err = f.svcs.Courses.Create(t.Context(), models.CourseRequest{
		Season: models.SeasonAutumn, Title: "Fungi", Date: "next week", Description: "d", Location: "Wood",
	})
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "date", invalid.Field)
}
