package services

// Identity is the authenticated caller, decoded once from a verified token by
// the auth middleware and passed explicitly into service operations.
type Identity struct {
	ID       uint
	Username string
}

// Profile is the public projection of a user.
type Profile struct {
	Username       string `json:"username"`
	FollowersCount int    `json:"followersCount"`
}
