package model

// Role names understood by the identity store.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

// ValidRole reports whether role is one of RoleUser or RoleAdmin.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
