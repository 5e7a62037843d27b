package user

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/darslyhq/darsly/core"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleLearner = "learner"
)

var AllRoles = []string{RoleAdmin, RoleLearner}

// User is a learner profile. XP only ever grows; Level and RankTitle are
// derived from XP and only ever ratchet upwards.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	XP           int       `json:"xp"`
	Level        int       `json:"level"`
	RankTitle    string    `json:"rank_title"`
	IsActive     *bool     `json:"is_active,omitempty"`
	Roles        []string  `json:"roles,omitempty"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastLogin    time.Time `json:"last_login,omitempty"`
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) SetActive(active bool) {
	u.IsActive = &active
}

func (u *User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}

func (u *User) IsAdmin() bool {
	for _, role := range u.Roles {
		if strings.HasPrefix(role, RoleAdmin) {
			return true
		}
	}
	return false
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Name            string `json:"name"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return validate.Struct(nu)
}

// UpdateProfile defines what profile information a User may change themselves.
type UpdateProfile struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

func (up *UpdateProfile) Validate(validate *validator.Validate) error {
	up.Name = core.CleanString(up.Name)
	up.AvatarURL = core.CleanString(up.AvatarURL)
	return validate.Struct(up)
}

// ResetUserPassword holds the payload of the password reset confirmation step.
type ResetUserPassword struct {
	UID             string `json:"uid" validate:"required"`
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (rp *ResetUserPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(rp)
}
