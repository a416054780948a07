package models

import "time"

// Like targets exactly one of a post or a comment.
type Like struct {
	ID                 int               `gorm:"primaryKey" json:"id"`
	OwnerID            int               `gorm:"not null;uniqueIndex:idx_like_owner_post;uniqueIndex:idx_like_owner_comment" json:"owner_id"`
	Owner              User              `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	PlantInFocusPostID *int              `gorm:"uniqueIndex:idx_like_owner_post" json:"plant_in_focus_post"`
	PlantInFocusPost   *PlantInFocusPost `gorm:"foreignKey:PlantInFocusPostID;constraint:OnDelete:CASCADE" json:"-"`
	CommentID          *int              `gorm:"uniqueIndex:idx_like_owner_comment" json:"comment"`
	Comment            *Comment          `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt          time.Time         `json:"created_at"`
}

type CreateLikeRequest struct {
	PlantInFocusPostID *int `json:"plant_in_focus_post"`
	CommentID          *int `json:"comment"`
}
