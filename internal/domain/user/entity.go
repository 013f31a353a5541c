package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type (
	UUID = uuid.UUID
	User struct {
		UUID         UUID
		Name         string
		Email        string
		PasswordHash *string
		ProfilePic   *string
		Role         string

		CreatedAt time.Time
	}
	Users []*User
)

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
