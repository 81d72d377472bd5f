package models

import (
	"strings"
	"time"
)

// DefaultRole is granted to every account at registration.
const DefaultRole = "USER"

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`

	Roles []string `db:"-" json:"roles"`
}

// Authorities maps stored role names to authorization tokens: "user" -> "ROLE_USER".
func (u *User) Authorities() []string {
	authorities := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		role = strings.ToUpper(strings.TrimSpace(role))
		if role == "" {
			continue
		}
		authorities = append(authorities, "ROLE_"+role)
	}
	return authorities
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID          int64
	Username    string
	Authorities []string
}

func NewPrincipal(u *User) *Principal {
	return &Principal{
		ID:          u.ID,
		Username:    u.Username,
		Authorities: u.Authorities(),
	}
}

func (p *Principal) HasAuthority(authority string) bool {
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}
