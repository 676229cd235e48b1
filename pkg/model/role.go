// Package model defines the domain records exchanged with the FitCoach backend.
package model

import (
	"errors"
	"strings"
)

var ErrInvalidRole = errors.New("invalid role: must be client or trainer")

// Role is the account type. Trainers and clients see different screen sets
// and the two are mutually exclusive.
type Role int

const (
	RoleUnknown Role = iota
	RoleClient
	RoleTrainer
)

func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleTrainer:
		return "trainer"
	default:
		return "unknown"
	}
}

// ParseRole converts the persisted or wire form of a role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "client":
		return RoleClient, nil
	case "trainer":
		return RoleTrainer, nil
	default:
		return RoleUnknown, ErrInvalidRole
	}
}

// Valid returns true for client and trainer.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleTrainer
}

// MarshalText encodes the role as its string name so JSON payloads read "client"/"trainer".
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return []byte{}, nil
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes "client" or "trainer". An empty value leaves RoleUnknown.
func (r *Role) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = RoleUnknown
		return nil
	}
	role, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}
