package user

// Role discriminates which dashboard a user sees and which collections the
// client loads for them. Routing on role happens once, in the dispatcher; the
// rest of the code treats it as an opaque value.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleRider  Role = "rider"
	RoleAdmin  Role = "admin"
)

// ParseRole maps a raw role string onto the closed role set. The legacy
// "user" value from early accounts maps to buyer.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleBuyer, RoleSeller, RoleRider, RoleAdmin:
		return Role(s), true
	}
	if s == "user" {
		return RoleBuyer, true
	}
	return "", false
}

// User represents an account in the system.
type User struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Password      string  `json:"password,omitempty"`
	Role          Role    `json:"role"`
	WalletBalance float64 `json:"walletBalance"`
	CreatedAt     string  `json:"createdAt,omitempty"`
	UpdatedAt     string  `json:"updatedAt,omitempty"`
}

func sanitizeUser(u User) User {
	u.Password = ""
	return u
}
