package model

// Tier is the account classification that decides which price column
// applies. Anonymous covers browsing without a session.
type Tier string

const (
	TierAnonymous   Tier = "anonymous"
	TierCustomer    Tier = "customer"
	TierVIPCustomer Tier = "vip_customer"
	TierAdmin       Tier = "admin"
)

// ParseTier maps the wire value to a known tier. Unknown or empty values
// collapse to anonymous so price resolution never falls through silently.
func ParseTier(s string) Tier {
	switch Tier(s) {
	case TierCustomer, TierVIPCustomer, TierAdmin:
		return Tier(s)
	default:
		return TierAnonymous
	}
}

type User struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserType Tier   `json:"userType"`
}

// TierOf is nil-safe: a missing user browses as anonymous.
func TierOf(u *User) Tier {
	if u == nil {
		return TierAnonymous
	}
	return ParseTier(string(u.UserType))
}
