package rules

import (
	"strings"

	"github.com/foraginglink/backend/internal/models"
)

// NormalizePost validates the month and drops the confusable image when no
// confusable plant is named.
func NormalizePost(p *models.PlantInFocusPost) error {
	if p.MainPlantMonth < 1 || p.MainPlantMonth > 12 {
		return &ValidationError{Field: "main_plant_month", Message: "you must select a valid month for the main plant"}
	}
	if strings.TrimSpace(p.MainPlantName) == "" {
		return &ValidationError{Field: "main_plant_name", Message: "this field is required"}
	}
	if p.ConfusablePlantName == nil || strings.TrimSpace(*p.ConfusablePlantName) == "" {
		p.ConfusablePlantImage = nil
	}
	if p.MainPlantImage == "" {
		p.MainPlantImage = models.DefaultPlantImagePath
	}
	return nil
}
