package models

import "time"

type RegistrationStatus string

const (
	StatusConfirmed RegistrationStatus = "Confirmed"
	StatusCancelled RegistrationStatus = "Cancelled"
)

func (s RegistrationStatus) Valid() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

type CourseRegistration struct {
	ID                     int                `gorm:"primaryKey" json:"id"`
	CourseID               int                `gorm:"index;not null" json:"course"`
	Course                 *Course            `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	OwnerID                int                `gorm:"index;not null" json:"owner_id"`
	Owner                  *User              `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Email                  string             `gorm:"size:255;not null" json:"email"`
	Phone                  string             `gorm:"size:20;not null" json:"phone"`
	Status                 RegistrationStatus `gorm:"size:50;not null;default:Confirmed;index" json:"status"`
	HasDietaryRestrictions bool               `gorm:"not null;default:false" json:"has_dietary_restrictions"`
	DietaryRestrictions    string             `gorm:"type:text;not null;default:''" json:"dietary_restrictions"`
	IsDriver               bool               `gorm:"not null;default:false" json:"is_driver"`
	HasEmergencyContact    bool               `gorm:"not null;default:false" json:"has_emergency_contact"`
	EmergencyContactName   string             `gorm:"size:255;not null;default:''" json:"ice_name"`
	EmergencyContactNumber string             `gorm:"size:20;not null;default:''" json:"ice_number"`
	RegistrationDate       time.Time          `gorm:"autoUpdateTime" json:"registration_date"`
}

type RegistrationRequest struct {
	CourseID               int                `json:"course" binding:"required"`
	Email                  string             `json:"email" binding:"required,email"`
	Phone                  string             `json:"phone" binding:"required"`
	Status                 RegistrationStatus `json:"status"`
	HasDietaryRestrictions bool               `json:"has_dietary_restrictions"`
	DietaryRestrictions    string             `json:"dietary_restrictions"`
	IsDriver               bool               `json:"is_driver"`
	HasEmergencyContact    bool               `json:"has_emergency_contact"`
	EmergencyContactName   string             `json:"ice_name"`
	EmergencyContactNumber string             `json:"ice_number"`
}
