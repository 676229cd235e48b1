package model

// Session is the in-memory identity of the logged-in user.
type Session struct {
	UserID     string `json:"userId"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Token      string `json:"-"`
	IsLoggedIn bool   `json:"isLoggedIn"`
}

// IsTrainer reports whether the session belongs to a trainer account.
func (s Session) IsTrainer() bool {
	return s.IsLoggedIn && s.Role == RoleTrainer
}

// IsClient reports whether the session belongs to a client account.
func (s Session) IsClient() bool {
	return s.IsLoggedIn && s.Role == RoleClient
}
