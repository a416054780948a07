package models

import "time"

const DefaultPlantImagePath = "images/default_plant_image_rvlqpb"

// PlantInFocusPost is the monthly featured plant article written by staff.
type PlantInFocusPost struct {
	ID                         int       `gorm:"primaryKey" json:"id"`
	OwnerID                    *int      `gorm:"index" json:"owner_id"`
	Owner                      *User     `gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT" json:"-"`
	MainPlantName              string    `gorm:"size:255;not null;default:''" json:"main_plant_name"`
	MainPlantMonth             int       `gorm:"not null" json:"main_plant_month"`
	MainPlantEnvironment       string    `gorm:"type:text;not null;default:''" json:"main_plant_environment"`
	CulinaryUses               string    `gorm:"type:text;not null;default:''" json:"culinary_uses"`
	MedicinalUses              *string   `gorm:"type:text" json:"medicinal_uses"`
	HistoryAndFolklore         string    `gorm:"type:text;not null;default:''" json:"history_and_folklore"`
	MainPlantPartsUsed         string    `gorm:"type:text;not null;default:''" json:"main_plant_parts_used"`
	MainPlantWarnings          *string   `gorm:"type:text" json:"main_plant_warnings"`
	MainPlantImage             string    `gorm:"size:255;not null" json:"main_plant_image"`
	ConfusablePlantName        *string   `gorm:"size:255" json:"confusable_plant_name"`
	ConfusablePlantInformation *string   `gorm:"type:text" json:"confusable_plant_information"`
	ConfusablePlantWarnings    *string   `gorm:"type:text" json:"confusable_plant_warnings"`
	ConfusablePlantImage       *string   `gorm:"size:255" json:"confusable_plant_image"`
	CreatedAt                  time.Time `json:"created_at"`
	UpdatedAt                  time.Time `json:"updated_at"`
}

type PostRequest struct {
	MainPlantName              string  `json:"main_plant_name" binding:"required"`
	MainPlantMonth             int     `json:"main_plant_month" binding:"required"`
	MainPlantEnvironment       string  `json:"main_plant_environment"`
	CulinaryUses               string  `json:"culinary_uses"`
	MedicinalUses              *string `json:"medicinal_uses"`
	HistoryAndFolklore         string  `json:"history_and_folklore"`
	MainPlantPartsUsed         string  `json:"main_plant_parts_used"`
	MainPlantWarnings          *string `json:"main_plant_warnings"`
	MainPlantImage             string  `json:"main_plant_image"`
	ConfusablePlantName        *string `json:"confusable_plant_name"`
	ConfusablePlantInformation *string `json:"confusable_plant_information"`
	ConfusablePlantWarnings    *string `json:"confusable_plant_warnings"`
	ConfusablePlantImage       *string `json:"confusable_plant_image"`
}
