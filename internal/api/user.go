package api

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"yamdb/internal/models"
)

const (
	maxUsernameLen = 150
	maxEmailLen    = 254
	minPasswordLen = 8
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// User is the public shape of an account.
type User struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	Bio      string      `json:"bio"`
}

// NewUser converts a stored user to its wire shape.
func NewUser(u models.User) User {
	return User{Username: u.Username, Email: u.Email, Role: u.Role, Bio: u.Bio}
}

// Signup is the self-registration payload.
type Signup struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks username, email and password.
func (s *Signup) Validate() error {
	s.Username = strings.TrimSpace(s.Username)
	s.Email = strings.TrimSpace(s.Email)

	errs := ValidationError{}
	switch {
	case s.Username == "":
		errs.Add("username", msgRequired)
	case utf8.RuneCountInString(s.Username) > maxUsernameLen:
		errs.Add("username", maxLenMsg(maxUsernameLen))
	case !usernamePattern.MatchString(s.Username):
		errs.Add("username", "Enter a valid username. It may contain only letters, numbers, and @/./+/-/_ characters.")
	case strings.EqualFold(s.Username, "me"):
		errs.Add("username", `The username "me" is reserved.`)
	}

	switch {
	case s.Email == "":
		errs.Add("email", msgRequired)
	case len(s.Email) > maxEmailLen:
		errs.Add("email", maxLenMsg(maxEmailLen))
	default:
		if addr, err := mail.ParseAddress(s.Email); err != nil || addr.Address != s.Email {
			errs.Add("email", "Enter a valid email address.")
		}
	}

	if utf8.RuneCountInString(s.Password) < minPasswordLen {
		errs.Add("password", fmt.Sprintf("Ensure this field has at least %d characters.", minPasswordLen))
	}
	return errs.Err()
}

// TokenRequest exchanges credentials for a bearer token.
type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks that both credentials are present.
func (t *TokenRequest) Validate() error {
	errs := ValidationError{}
	if strings.TrimSpace(t.Username) == "" {
		errs.Add("username", msgRequired)
	}
	if t.Password == "" {
		errs.Add("password", msgRequired)
	}
	return errs.Err()
}

// Token is the response to a successful TokenRequest.
type Token struct {
	Token string `json:"token"`
}
