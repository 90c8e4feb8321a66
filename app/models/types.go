package models

import "time"

// User is an author identity: a display name and an avatar reference,
// which is either a URL/path or an embedded data-URI.
type User struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Reactions maps an emoji to the number of times it was placed.
type Reactions map[string]int

// Comment is a top-level comment or a reply. Only top-level comments
// carry Replies.
type Comment struct {
	ID        int64      `json:"id" validate:"required,gt=0"`
	Author    User       `json:"author"`
	Text      string     `json:"text" validate:"required"`
	CreatedAt time.Time  `json:"time"`
	Reactions Reactions  `json:"reactions" validate:"dive,keys,required,endkeys,gte=0"`
	Replies   []*Comment `json:"replies,omitempty" validate:"-"`
}
