package domain

// UserRole controls which operations a user may perform.
type UserRole string

const (
	RoleCreator  UserRole = "CREATOR"
	RoleInvestor UserRole = "INVESTOR"
	RoleAdmin    UserRole = "ADMIN"
)

// User represents an authenticated platform user.
type User struct {
	UserID       string   `json:"userID"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	AuditFields
}
