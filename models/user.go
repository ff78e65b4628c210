package models

import (
	"time"

	"github.com/dwoolworth/inkwell"
)

// Role gates admin actions.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// User is an account. Password holds a bcrypt hash and is never serialized to
// JSON. Role may be empty on accounts that have not signed in yet.
type User struct {
	inkwell.Model `bson:",inline"`
	Email         string     `bson:"email"                   json:"email"                   store:"required,unique"`
	Password      string     `bson:"password,omitempty"      json:"-"`
	Role          Role       `bson:"role,omitempty"          json:"role"                    store:"enum=User|Admin,default=User"`
	FirstName     string     `bson:"first_name"              json:"first_name"`
	LastName      string     `bson:"last_name"               json:"last_name"`
	PhoneNumber   string     `bson:"phone_number,omitempty"  json:"phone_number,omitempty"`
	Image         string     `bson:"image,omitempty"         json:"image,omitempty"`
	EmailVerified *time.Time `bson:"emailVerified,omitempty" json:"emailVerified,omitempty"`
}

// FullName joins the first and last name, falling back to the email address.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Email
}

func init() {
	inkwell.MustRegister(&User{}, "users")
}
