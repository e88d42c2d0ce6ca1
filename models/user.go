package models

import (
	"errors"

	goval "github.com/go-passwd/validator"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
)

// User represents a user of the application. A user can act as a
// reporter, a collector, or both; the distinction is per report.
type User struct {
	Model
	Fullname       string         `json:"fullname" binding:"required,min=2"`
	Username       string         `json:"username" binding:"required,min=2"`
	Email          string         `json:"email" gorm:"unique;not null" binding:"required,email"`
	Password       string         `json:"password,omitempty" gorm:"-"`
	HashedPassword string         `json:"-"`
	IsSocial       bool           `json:"-"`
	IsEmailActive  bool           `json:"-"`
	ResetToken     string         `json:"-"`
	Reward         *Reward        `json:"reward,omitempty" gorm:"foreignKey:UserID"`
	Notifications  []Notification `json:"-" gorm:"foreignKey:UserID"`
}

// CreateSocialUserParams represents the parameters required to create a
// user from an identity-provider sign-in.
type CreateSocialUserParams struct {
	Email    string `json:"email"`
	Fullname string `json:"name"`
	IsSocial bool   `json:"is_social"`
}

func ValidatePassword(password string) error {
	passwordValidator := goval.New(goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(20, errors.New("password cant be more than 20 characters")))
	return passwordValidator.Validate(password)
}

// ConformInput trims and normalizes whitespace on tagged string fields.
func ConformInput(data interface{}) error {
	return conform.Strings(data)
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.HashedPassword = string(hashed)
	u.Password = ""
	return nil
}

func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Fullname string `json:"fullname"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
