package models

import "time"

const MaxCourseCapacity = 10

const (
	SeasonSpring = "Spring"
	SeasonSummer = "Summer"
	SeasonAutumn = "Autumn"
)

var Seasons = []string{SeasonSpring, SeasonSummer, SeasonAutumn}

type Course struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Season      string    `gorm:"size:25;not null;default:''" json:"season"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Date        time.Time `gorm:"type:date;not null;index" json:"date"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Location    string    `gorm:"size:255;not null" json:"location"`
	MaxCapacity int       `gorm:"not null;default:10" json:"max_capacity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CourseRequest carries the client-editable course fields. Capacity is not one of them.
type CourseRequest struct {
	Season      string `json:"season" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Description string `json:"description" binding:"required"`
	Location    string `json:"location" binding:"required"`
}
