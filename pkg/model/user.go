package model

import (
	"errors"
	"strings"
	"time"
)

const MinPasswordLength = 6

var (
	ErrNameRequired     = errors.New("name is required")
	ErrEmailRequired    = errors.New("email is required")
	ErrInvalidEmail     = errors.New("email address is not valid")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)

// User is the profile record returned by /profile and embedded in auth responses.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Age       int       `json:"age,omitempty"`
	HeightCm  float64   `json:"heightCm,omitempty"`
	WeightKg  float64   `json:"weightKg,omitempty"`
	Goal      string    `json:"goal,omitempty"`
	TrainerID string    `json:"trainerId,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Validate checks the fields the profile form requires.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrNameRequired
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if u.Age < 0 || u.HeightCm < 0 || u.WeightKg < 0 {
		return ErrNonPositive
	}
	return nil
}

// Credentials are the login form fields.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both fields are filled in.
func (c Credentials) Validate() error {
	if err := ValidateEmail(c.Email); err != nil {
		return err
	}
	if c.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// SignupRequest carries the registration form.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Validate checks required fields, the password length and the role.
func (s SignupRequest) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrNameRequired
	}
	if err := ValidateEmail(s.Email); err != nil {
		return err
	}
	if s.Password == "" {
		return ErrPasswordRequired
	}
	if len(s.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if !s.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// AuthResponse is returned by both /auth/login and /auth/signup.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ValidateEmail performs the same shallow check as the signup form:
// one "@" with something on both sides and a dot in the domain.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return ErrInvalidEmail
	}
	domain := email[at+1:]
	dot := strings.LastIndex(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return ErrInvalidEmail
	}
	if strings.ContainsAny(email, " \t\n") {
		return ErrInvalidEmail
	}
	return nil
}
