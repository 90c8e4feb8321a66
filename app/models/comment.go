package models

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if strings.TrimSpace(c.Text) == "" {
		return errors.New("text cannot be blank")
	}

	if c.CreatedAt.IsZero() {
		return errors.New("time cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate(now time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = Timestamp(now)
	}
	if c.Reactions == nil {
		c.Reactions = Reactions{}
	}
}

// React increments the counter for emoji.
func (c *Comment) React(emoji string) {
	if c.Reactions == nil {
		c.Reactions = Reactions{}
	}
	c.Reactions[emoji]++
}

// AddReply appends a reply to the comment.
func (c *Comment) AddReply(reply *Comment) error {
	if reply == nil {
		return errors.New("reply cannot be nil")
	}
	if len(reply.Replies) > 0 {
		return errors.New("replies cannot be nested")
	}

	c.Replies = append(c.Replies, reply)
	return nil
}

// Clone returns a deep copy of the comment and its replies.
func (c *Comment) Clone() *Comment {
	if c == nil {
		return nil
	}
	cp := *c
	if c.Reactions != nil {
		cp.Reactions = make(Reactions, len(c.Reactions))
		for emoji, n := range c.Reactions {
			cp.Reactions[emoji] = n
		}
	}
	cp.Replies = nil
	for _, r := range c.Replies {
		cp.Replies = append(cp.Replies, r.Clone())
	}
	return &cp
}

// Timestamp normalizes t to the in-memory time representation: UTC with
// millisecond precision, which survives a JSON round trip unchanged.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
