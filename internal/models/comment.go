package models

import "time"

// Comment is either a root comment on a post or a reply to a root comment.
// A reply's parent never has a parent of its own.
type Comment struct {
	ID                 int               `gorm:"primaryKey" json:"id"`
	OwnerID            *int              `gorm:"index" json:"owner_id"`
	Owner              *User             `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"-"`
	PlantInFocusPostID int               `gorm:"index;not null" json:"plant_in_focus_post"`
	PlantInFocusPost   *PlantInFocusPost `gorm:"foreignKey:PlantInFocusPostID;constraint:OnDelete:CASCADE" json:"-"`
	ReplyingCommentID  *int              `gorm:"index" json:"replying_comment"`
	ReplyingComment    *Comment          `gorm:"foreignKey:ReplyingCommentID;constraint:OnDelete:CASCADE" json:"-"`
	Content            string            `gorm:"type:text;not null" json:"content"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

func (c *Comment) IsReply() bool {
	return c.ReplyingCommentID != nil
}

// CommentRequest is the writable shape of a comment, shared by the create and
// detail endpoints. The detail endpoint reads the post and parent as read-only.
type CommentRequest struct {
	PlantInFocusPostID int    `json:"plant_in_focus_post"`
	ReplyingCommentID  *int   `json:"replying_comment"`
	Content            string `json:"content" binding:"required"`
}
