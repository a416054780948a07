package models

import "time"

type Follower struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	OwnerID    int       `gorm:"not null;uniqueIndex:idx_owner_followed" json:"owner_id"`
	Owner      User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	FollowedID int       `gorm:"not null;uniqueIndex:idx_owner_followed" json:"followed"`
	Followed   User      `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateFollowerRequest struct {
	FollowedID int `json:"followed" binding:"required"`
}
