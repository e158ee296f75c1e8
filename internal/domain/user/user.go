package user

import (
	"strings"

	"github.com/google/uuid"

	"github.com/shareit-marketplace/server/internal/domain"
)

// User is the aggregate root for a marketplace account.
type User struct {
	id    uuid.UUID
	name  string
	email string
}

// NewUser creates a new user with validated fields.
func NewUser(name, email string) (*User, error) {
	if name == "" {
		return nil, domain.NewValidationError("user name is required")
	}
	if !validEmail(email) {
		return nil, domain.NewValidationError("email address is not valid")
	}
	return &User{
		id:    uuid.New(),
		name:  name,
		email: email,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(id uuid.UUID, name, email string) *User {
	return &User{id: id, name: name, email: email}
}

func (u *User) ID() uuid.UUID { return u.id }
func (u *User) Name() string { return u.name }
func (u *User) Email() string { return u.email }

// ApplyPatch overlays non-blank fields from a partial update, keeping the
// previous value where the patch leaves a field blank.
func (u *User) ApplyPatch(name, email string) error {
	if name != "" && strings.TrimSpace(name) != "" {
		u.name = name
	}
	if email != "" {
		if !validEmail(email) {
			return domain.NewValidationError("email address is not valid")
		}
		u.email = email
	}
	return nil
}

// validEmail keeps the original's minimal rule: one "@" with a non-empty
// local part and a domain containing a dot.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 || at != strings.LastIndex(email, "@") {
		return false
	}
	dom := email[at+1:]
	dot := strings.Index(dom, ".")
	return dot > 0 && dot < len(dom)-1
}
