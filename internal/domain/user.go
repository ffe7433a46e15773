package domain

// Role determines which surface and repository scope a user may act on.
type Role string

const (
	RoleClient  Role = "Client"
	RoleSupport Role = "Support"
	RoleAdmin   Role = "Admin"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleClient, RoleSupport, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// User is an account in the identity store. Users are created at registration
// and only ever mutated by password reset.
type User struct {
	Username       string
	CredentialHash string
	Role           Role
}
