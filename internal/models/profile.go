package models

import "time"

// DefaultAvatarPath is stored on every new profile until the owner uploads an image.
const DefaultAvatarPath = "v1730006283/foraging_link/user_avatars/default_avatar_fqwsjf.jpg"

type Profile struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	OwnerID   int       `gorm:"uniqueIndex;not null" json:"owner_id"`
	Owner     User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Name      string    `gorm:"size:255;not null;default:''" json:"name"`
	Content   string    `gorm:"type:text;not null;default:''" json:"content"`
	Image     string    `gorm:"size:255;not null;default:''" json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileStats is a profile row joined with its aggregate counts.
type ProfileStats struct {
	Profile
	Username       string `json:"owner"`
	CommentsCount  int    `json:"comments_count"`
	FollowersCount int    `json:"followers_count"`
	FollowingCount int    `json:"following_count"`
}
