package models

// DefaultAvatar is the avatar used until the user uploads one.
const DefaultAvatar = "logo.png"

// DefaultUser returns the identity used when none has been stored yet.
func DefaultUser() User {
	return User{Avatar: DefaultAvatar}
}

// WithAvatar returns a copy of u using avatar, or u's own avatar when
// avatar is empty.
func (u User) WithAvatar(avatar string) User {
	if avatar != "" {
		u.Avatar = avatar
	}
	return u
}
