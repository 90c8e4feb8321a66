package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"commentbox/app/models"
	"commentbox/app/repositories"
)

// CommentStore owns the comment tree and persists it after every mutation.
// It is not safe for concurrent use; callers serialize access.
type CommentStore struct {
	store    repositories.KeyValueStore
	comments []*models.Comment
	now      func() time.Time
	lastID   int64
}

// NewCommentStore creates an empty CommentStore backed by store. Call Load
// to read a previously saved tree.
func NewCommentStore(store repositories.KeyValueStore) *CommentStore {
	return &CommentStore{
		store: store,
		now:   time.Now,
	}
}

// SetClock replaces the time source used for ids and timestamps
func (s *CommentStore) SetClock(now func() time.Time) {
	s.now = now
}

// PostComment appends a top-level comment by author. It returns nil when
// text is blank.
func (s *CommentStore) PostComment(author models.User, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	comment := s.newComment(author, text)
	s.comments = append(s.comments, comment)
	return comment, s.Save()
}

// PostReply appends a reply under the top-level comment parentID. It
// returns nil when text is blank, the parent does not exist or the parent
// is itself a reply.
func (s *CommentStore) PostReply(parentID int64, text string, author models.User) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	parent, depth := s.locate(parentID)
	if parent == nil || depth > 0 {
		return nil, nil
	}

	reply := s.newComment(author, text)
	if err := parent.AddReply(reply); err != nil {
		return nil, nil
	}
	return reply, s.Save()
}

// AddReaction increments the emoji counter on a comment or reply. It
// returns false when the comment does not exist.
func (s *CommentStore) AddReaction(commentID int64, emoji string) (bool, error) {
	if emoji == "" {
		return false, nil
	}
	comment := s.FindComment(commentID)
	if comment == nil {
		return false, nil
	}

	comment.React(emoji)
	return true, s.Save()
}

// EditAuthorName renames the author snapshot of a single comment. Other
// comments by the same author are left untouched.
func (s *CommentStore) EditAuthorName(commentID int64, newName string) (bool, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return false, nil
	}
	comment := s.FindComment(commentID)
	if comment == nil {
		return false, nil
	}

	comment.Author.Name = newName
	return true, s.Save()
}

// FindComment returns the comment or reply with the given id, or nil.
func (s *CommentStore) FindComment(id int64) *models.Comment {
	c, _ := s.locate(id)
	return c
}

// locate searches the tree in pre-order and reports the nesting depth of
// the match (0 for top-level comments).
func (s *CommentStore) locate(id int64) (*models.Comment, int) {
	var found *models.Comment
	var foundDepth int
	s.Walk(func(c *models.Comment, depth int) bool {
		if c.ID == id {
			found, foundDepth = c, depth
			return false
		}
		return true
	})
	return found, foundDepth
}

// Walk visits every comment in pre-order: top-level comments in order,
// each followed by its replies. It stops as soon as fn returns false.
func (s *CommentStore) Walk(fn func(c *models.Comment, depth int) bool) {
	walk(s.comments, 0, fn)
}

func walk(comments []*models.Comment, depth int, fn func(*models.Comment, int) bool) bool {
	for _, c := range comments {
		if !fn(c, depth) {
			return false
		}
		if len(c.Replies) > 0 && !walk(c.Replies, depth+1, fn) {
			return false
		}
	}
	return true
}

// Comments returns a deep copy of the tree.
func (s *CommentStore) Comments() []*models.Comment {
	out := make([]*models.Comment, 0, len(s.comments))
	for _, c := range s.comments {
		out = append(out, c.Clone())
	}
	return out
}

// Len returns the number of comments and replies in the tree.
func (s *CommentStore) Len() int {
	n := 0
	s.Walk(func(*models.Comment, int) bool {
		n++
		return true
	})
	return n
}

// Clear discards every comment and reply and persists the empty tree.
func (s *CommentStore) Clear() error {
	s.comments = nil
	return s.Save()
}

// Save writes the whole tree to the store.
func (s *CommentStore) Save() error {
	data, err := repositories.EncodeTree(s.comments)
	if err != nil {
		return err
	}
	if err := s.store.Set(repositories.CommentsKey, data); err != nil {
		return fmt.Errorf("failed to save comments: %w", err)
	}
	return nil
}

// Load replaces the tree with the stored one. Missing or corrupt data
// yields an empty tree; only store failures are returned.
// On a store failure the current tree is kept.
func (s *CommentStore) Load() error {
	data, err := s.store.Get(repositories.CommentsKey)
	if errors.Is(err, repositories.ErrNotFound) {
		s.comments = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load comments: %w", err)
	}

	tree, err := repositories.DecodeTree(data)
	if err != nil {
		log.Printf("Discarding corrupt comment data: %v", err)
		s.comments = nil
		return nil
	}
	s.comments = s.sanitize(tree)
	return nil
}

// sanitize drops entries that would corrupt the tree: invalid
// comments, duplicate ids and replies nested below the first level.
func (s *CommentStore) sanitize(tree []*models.Comment) []*models.Comment {
	seen := make(map[int64]bool)
	keep := func(c *models.Comment) bool {
		if c == nil {
			return false
		}
		if err := c.Validate(); err != nil {
			log.Printf("Dropping invalid comment %d: %v", c.ID, err)
			return false
		}
		if seen[c.ID] {
			log.Printf("Dropping duplicate comment %d", c.ID)
			return false
		}
		seen[c.ID] = true
		if c.ID > s.lastID {
			s.lastID = c.ID
		}
		if c.Reactions == nil {
			c.Reactions = models.Reactions{}
		}
		return true
	}

	var comments []*models.Comment
	for _, c := range tree {
		if !keep(c) {
			continue
		}
		var replies []*models.Comment
		for _, r := range c.Replies {
			if !keep(r) {
				continue
			}
			if len(r.Replies) > 0 {
				log.Printf("Dropping %d replies nested under reply %d", len(r.Replies), r.ID)
				r.Replies = nil
			}
			replies = append(replies, r)
		}
		c.Replies = replies
		comments = append(comments, c)
	}
	return comments
}

func (s *CommentStore) newComment(author models.User, text string) *models.Comment {
	now := s.now()
	comment := &models.Comment{
		ID:     s.nextID(now),
		Author: author,
		Text:   text,
	}
	comment.BeforeCreate(now)
	return comment
}

// nextID derives an id from the creation time in milliseconds, bumping it
// past the last issued id when the clock has not advanced.
func (s *CommentStore) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
