package model

import "fmt"

// Role gates access to the admin surface.
type Role string

const (
	// RoleClient is the regular dashboard role.
	RoleClient Role = "CLIENT"
	// RoleAdmin unlocks the admin panel.
	RoleAdmin Role = "ADMIN"
)

// UserProfile is the caller's own profile. Email is immutable in the UI;
// only the display name can be edited.
type UserProfile struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"fullName"`
	Role         Role   `json:"role"`
	AuthProvider string `json:"authProvider"`
	CreatedAt    string `json:"createdAt"`
}

// UnlimitedAiLimit marks a per-user daily AI quota with no cap.
const UnlimitedAiLimit = -1

// AdminUser is the admin-scoped view of a user: profile fields plus
// AI-feature flags and a transaction count.
type AdminUser struct {
	UserProfile
	AiEnabled bool `json:"aiEnabled"`
	// AiDailyLimit overrides the global default; nil means "use default",
	// UnlimitedAiLimit means no cap.
	AiDailyLimit *int `json:"aiDailyLimit"`
	Count        struct {
		Transactions int `json:"transactions"`
	} `json:"_count"`
}

// CreateAdminInput is the payload for POST /api/admin/users.
type CreateAdminInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// AiLimitLabel renders a daily quota for display: "∞" for unlimited,
// otherwise "N/hari". A nil override falls back to the global default.
func AiLimitLabel(limit *int, globalDefault int) string {
	n := globalDefault
	if limit != nil {
		n = *limit
	}
	if n == UnlimitedAiLimit {
		return "∞"
	}
	return fmt.Sprintf("%d/hari", n)
}
