package models

import "time"

// Comment is a message left on a creator profile. Deletion is soft: the row
// stays but drops out of listings and rejects new replies.
type Comment struct {
	ID              string    `json:"id"`
	ProfileHandle   string    `json:"profileHandle"`
	AuthorHandle    string    `json:"authorHandle"`
	ParentCommentID string    `json:"parentCommentId,omitempty"`
	Content         string    `json:"content"`
	LikedBy         []string  `json:"likedBy"`
	Likes           int       `json:"likes"`
	IsDeleted       bool      `json:"isDeleted"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Clone returns a copy so store internals never alias caller state.
func (c *Comment) Clone() *Comment {
	cp := *c
	if c.LikedBy != nil {
		cp.LikedBy = append([]string(nil), c.LikedBy...)
	}
	return &cp
}

// HasLiked reports whether the given handle already liked the comment.
func (c *Comment) HasLiked(handle string) bool {
	for _, h := range c.LikedBy {
		if h == handle {
			return true
		}
	}
	return false
}
