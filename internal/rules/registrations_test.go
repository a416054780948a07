package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foraginglink/backend/internal/models"
)

func validRegistration() *models.CourseRegistration {
	return &models.CourseRegistration{
		CourseID: 1,
		Email:    "rowan@example.com",
		Phone:    "07700 900123",
		Status:   models.StatusConfirmed,
	}
}

func TestAvailableSpaces(t *testing.T) {
	course := &models.Course{ID: 1, MaxCapacity: 10}

	var regs []models.CourseRegistration
	require.Equal(t, 10, AvailableSpaces(course, regs))

	for i := 0; i < 4; i++ {
		regs = append(regs, models.CourseRegistration{CourseID: 1, Status: models.StatusConfirmed})
	}
	regs = append(regs,
		models.CourseRegistration{CourseID: 1, Status: models.StatusCancelled},
		models.CourseRegistration{CourseID: 1, Status: models.StatusCancelled},
		models.CourseRegistration{CourseID: 2, Status: models.StatusConfirmed},
	)
	require.Equal(t, 6, AvailableSpaces(course, regs))

	for i := 0; i < 6; i++ {
		regs = append(regs, models.CourseRegistration{CourseID: 1, Status: models.StatusConfirmed})
	}
	require.Equal(t, 0, AvailableSpaces(course, regs))
}

func TestValidateRegistrationFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(r *models.CourseRegistration)
		field  string
	}{
		{"valid without extras", func(*models.CourseRegistration) {}, ""},
		{"dietary flag without details", func(r *models.CourseRegistration) { r.HasDietaryRestrictions = true }, "dietary_restrictions"},
		{"dietary flag with blank details", func(r *models.CourseRegistration) {
			r.HasDietaryRestrictions = true
			r.DietaryRestrictions = "   "
		}, "dietary_restrictions"},
		{"dietary flag with details", func(r *models.CourseRegistration) {
			r.HasDietaryRestrictions = true
			r.DietaryRestrictions = "vegan"
		}, ""},
		{"dietary details without flag", func(r *models.CourseRegistration) { r.DietaryRestrictions = "vegan" }, "dietary_restrictions"},
		{"emergency flag without name", func(r *models.CourseRegistration) {
			r.HasEmergencyContact = true
			r.EmergencyContactNumber = "07700 900456"
		}, "ice_name"},
		{"emergency flag without number", func(r *models.CourseRegistration) {
			r.HasEmergencyContact = true
			r.EmergencyContactName = "Ash"
		}, "ice_number"},
		{"emergency complete", func(r *models.CourseRegistration) {
			r.HasEmergencyContact = true
			r.EmergencyContactName = "Ash"
			r.EmergencyContactNumber = "07700 900456"
		}, ""},
		{"stale emergency name", func(r *models.CourseRegistration) { r.EmergencyContactName = "Ash" }, "ice_name"},
		{"stale emergency number", func(r *models.CourseRegistration) { r.EmergencyContactNumber = "07700 900456" }, "ice_name"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validRegistration()
			tc.mutate(r)
			err := ValidateRegistrationFields(r)
			if tc.field == "" {
				require.NoError(t, err)
				return
			}
			var incomplete *IncompleteDetailError
			require.ErrorAs(t, err, &incomplete)
			require.Equal(t, tc.field, incomplete.Field)
		})
	}
}

func TestNormalizeRegistration(t *testing.T) {
	r := validRegistration()
	r.HasEmergencyContact = true
	r.EmergencyContactName = " Ash "
	r.EmergencyContactNumber = "+44 7700 900456"

	require.NoError(t, NormalizeRegistration(r))
	assert.Equal(t, "+447700900123", r.Phone)
	assert.Equal(t, "+447700900456", r.EmergencyContactNumber)
	assert.Equal(t, "Ash", r.EmergencyContactName)

	r.Phone = "not a phone"
	var invalid *ValidationError
	require.ErrorAs(t, NormalizeRegistration(r), &invalid)
	require.Equal(t, "phone", invalid.Field)
}

func TestTransitionStatus(t *testing.T) {
	t.Run("cancel anonymizes", func(t *testing.T) {
		r := validRegistration()
		r.HasEmergencyContact = true
		r.EmergencyContactName = "Ash"
		r.EmergencyContactNumber = "+447700900456"

		require.NoError(t, TransitionStatus(r, models.StatusCancelled))
		assert.Equal(t, models.StatusCancelled, r.Status)
		assert.Equal(t, AnonymizedEmail, r.Email)
		assert.Equal(t, AnonymizedPhone, r.Phone)
		assert.Equal(t, AnonymizedName, r.EmergencyContactName)
		assert.Equal(t, AnonymizedPhone, r.EmergencyContactNumber)
	})

	t.Run("cancelled registration keeps flags and details consistent", func(t *testing.T) {
		plain := validRegistration()
		require.NoError(t, TransitionStatus(plain, models.StatusCancelled))
		assert.False(t, plain.HasEmergencyContact)
		assert.Empty(t, plain.EmergencyContactName)
		assert.Empty(t, plain.EmergencyContactNumber)
		require.NoError(t, ValidateRegistrationFields(plain))

		withContact := validRegistration()
		withContact.HasEmergencyContact = true
		withContact.EmergencyContactName = "Ash"
		withContact.EmergencyContactNumber = "+447700900456"
		require.NoError(t, TransitionStatus(withContact, models.StatusCancelled))
		require.NoError(t, ValidateRegistrationFields(withContact))
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		r := validRegistration()
		require.NoError(t, TransitionStatus(r, models.StatusCancelled))

		var invalid *InvalidTransitionError
		require.ErrorAs(t, TransitionStatus(r, models.StatusConfirmed), &invalid)
		assert.Equal(t, models.StatusCancelled, r.Status)
		assert.Equal(t, AnonymizedEmail, r.Email)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		r := validRegistration()
		require.NoError(t, TransitionStatus(r, models.StatusConfirmed))
		assert.Equal(t, "rowan@example.com", r.Email)
	})

	t.Run("unknown status", func(t *testing.T) {
		var invalid *ValidationError
		require.ErrorAs(t, TransitionStatus(validRegistration(), "Pending"), &invalid)
	})
}
