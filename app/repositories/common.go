package repositories

import (
	"encoding/json"
	"fmt"

	"commentbox/app/models"
)

const (
	// Keys used by the widget
	CommentsKey = "comments"
	UserKey     = "user"
)

// EncodeTree serializes the comment tree. A nil tree encodes as "[]".
func EncodeTree(tree []*models.Comment) (string, error) {
	if tree == nil {
		tree = []*models.Comment{}
	}
	data, err := marshalEntity(tree)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeTree parses a serialized comment tree.
func DecodeTree(data string) ([]*models.Comment, error) {
	var tree []*models.Comment
	if err := unmarshalEntity([]byte(data), &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// EncodeUser serializes a user identity.
func EncodeUser(user models.User) (string, error) {
	data, err := marshalEntity(user)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeUser parses a serialized user identity. JSON null is rejected so
// callers can fall back to a default.
func DecodeUser(data string) (models.User, error) {
	var user *models.User
	if err := unmarshalEntity([]byte(data), &user); err != nil {
		return models.User{}, err
	}
	if user == nil {
		return models.User{}, fmt.Errorf("failed to unmarshal entity: null user")
	}
	return *user, nil
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %v", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %v", err)
	}
	return nil
}
