package rules

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
	"github.com/samber/lo"

	"github.com/foraginglink/backend/internal/models"
)

// Values written over personal data when a registration is cancelled.
const (
	AnonymizedEmail = "anonymized@example.com"
	AnonymizedPhone = "0000000000"
	AnonymizedName  = "Anonymized"
)

const DefaultPhoneRegion = "GB"

// AvailableSpaces is the course capacity minus its confirmed registrations.
func AvailableSpaces(course *models.Course, registrations []models.CourseRegistration) int {
	confirmed := lo.CountBy(registrations, func(r models.CourseRegistration) bool {
		return r.CourseID == course.ID && r.Status == models.StatusConfirmed
	})
	return SpacesLeft(course.MaxCapacity, confirmed)
}

func SpacesLeft(capacity, confirmed int) int {
	return capacity - confirmed
}

// ValidateRegistrationFields enforces that every has_X flag agrees with its detail fields.
func ValidateRegistrationFields(r *models.CourseRegistration) error {
	dietary := strings.TrimSpace(r.DietaryRestrictions)
	switch {
	case r.HasDietaryRestrictions && dietary == "":
		return &IncompleteDetailError{Field: "dietary_restrictions", Reason: "please describe your dietary restrictions"}
	case !r.HasDietaryRestrictions && dietary != "":
		return &IncompleteDetailError{Field: "dietary_restrictions", Reason: "must be empty when no dietary restrictions are declared"}
	}

	name := strings.TrimSpace(r.EmergencyContactName)
	number := strings.TrimSpace(r.EmergencyContactNumber)
	if r.HasEmergencyContact {
		if name == "" {
			return &IncompleteDetailError{Field: "ice_name", Reason: "emergency contact name is required"}
		}
		if number == "" {
			return &IncompleteDetailError{Field: "ice_number", Reason: "emergency contact number is required"}
		}
	} else if name != "" || number != "" {
		return &IncompleteDetailError{Field: "ice_name", Reason: "emergency contact details must be empty when no emergency contact is declared"}
	}

	if strings.TrimSpace(r.Email) == "" {
		return &ValidationError{Field: "email", Message: "this field is required"}
	}
	if strings.TrimSpace(r.Phone) == "" {
		return &ValidationError{Field: "phone", Message: "this field is required"}
	}

	return nil
}

// NormalizePhone parses a phone number, assuming a UK number when no country code is given,
// and returns it in E.164 form.
func NormalizePhone(field, raw string) (string, error) {
	num, err := phonenumbers.Parse(raw, DefaultPhoneRegion)
	if err != nil || !phonenumbers.IsPossibleNumber(num) {
		return "", &ValidationError{Field: field, Message: "enter a valid phone number"}
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// NormalizeRegistration trims detail fields and rewrites phone numbers to E.164.
func NormalizeRegistration(r *models.CourseRegistration) error {
	r.Email = strings.TrimSpace(r.Email)
	r.DietaryRestrictions = strings.TrimSpace(r.DietaryRestrictions)
	r.EmergencyContactName = strings.TrimSpace(r.EmergencyContactName)

	phone, err := NormalizePhone("phone", r.Phone)
	if err != nil {
		return err
	}
	r.Phone = phone

	if strings.TrimSpace(r.EmergencyContactNumber) != "" {
		number, err := NormalizePhone("ice_number", r.EmergencyContactNumber)
		if err != nil {
			return err
		}
		r.EmergencyContactNumber = number
	}
	return nil
}

// TransitionStatus moves r to the given status in memory. Moving to Cancelled
// overwrites email, phone and emergency contact details with fixed placeholders;
// the original values are lost and cannot be restored. A cancelled registration
// cannot change status again. The caller persists r.
func TransitionStatus(r *models.CourseRegistration, to models.RegistrationStatus) error {
	if !to.Valid() {
		return &ValidationError{Field: "status", Message: "unknown status " + string(to)}
	}
	if r.Status == to {
		return nil
	}
	if r.Status == models.StatusCancelled {
		return &InvalidTransitionError{From: r.Status, To: to}
	}

	r.Status = to
	if to == models.StatusCancelled {
		Anonymize(r)
	}
	return nil
}

// Anonymize replaces contact details with placeholders. Emergency contact
// fields are only overwritten when a contact was given.
func Anonymize(r *models.CourseRegistration) {
	r.Email = AnonymizedEmail
	r.Phone = AnonymizedPhone
	if r.HasEmergencyContact {
		r.EmergencyContactName = AnonymizedName
		r.EmergencyContactNumber = AnonymizedPhone
	}
}
