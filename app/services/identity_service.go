package services

import (
	"errors"
	"fmt"
	"log"

	"commentbox/app/models"
	"commentbox/app/repositories"
)

// IdentityService holds the author identity of the current device and
// persists it under its own key, separately from the comment tree.
type IdentityService struct {
	store repositories.KeyValueStore
	user  models.User
}

// NewIdentityService creates an IdentityService holding the default user
func NewIdentityService(store repositories.KeyValueStore) *IdentityService {
	return &IdentityService{
		store: store,
		user:  models.DefaultUser(),
	}
}

// Load reads the stored identity. Missing or corrupt data yields the
// default user.
func (s *IdentityService) Load() error {
	s.user = models.DefaultUser()

	data, err := s.store.Get(repositories.UserKey)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	user, err := repositories.DecodeUser(data)
	if err != nil {
		log.Printf("Discarding corrupt user data: %v", err)
		return nil
	}
	s.user = user
	return nil
}

// Current returns a copy of the current identity
func (s *IdentityService) Current() models.User {
	return s.user
}

// ReplyAuthor returns the identity to stamp on a reply: the current name
// with avatar, falling back to the user's own avatar when avatar is empty.
func (s *IdentityService) ReplyAuthor(avatar string) models.User {
	return s.user.WithAvatar(avatar)
}

// SetName updates the display name used for new comments.
func (s *IdentityService) SetName(name string) error {
	s.user.Name = name
	return s.save()
}

// SetAvatar updates the avatar used for new comments. An empty ref is
// ignored.
func (s *IdentityService) SetAvatar(ref string) error {
	if ref == "" {
		return nil
	}
	s.user.Avatar = ref
	return s.save()
}

func (s *IdentityService) save() error {
	data, err := repositories.EncodeUser(s.user)
	if err != nil {
		return err
	}
	if err := s.store.Set(repositories.UserKey, data); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}
