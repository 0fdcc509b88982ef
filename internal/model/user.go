package model

import "time"

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
	RoleOwner     = "owner"
)

// roleRank orders roles by privilege, lowest first.
var roleRank = map[string]int{
	RoleUser:      0,
	RoleModerator: 1,
	RoleAdmin:     2,
	RoleOwner:     3,
}

func ValidRole(role string) bool {
	_, ok := roleRank[role]
	return ok
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	RefreshToken *string   `json:"-"`
	Avatar       string    `json:"avatar"`
	Bio          string    `json:"bio"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the subset of a user safe to hand to other users,
// e.g. in follower lists and notification payloads.
type PublicUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Avatar    string `json:"avatar"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role,omitempty"`
}

type AuthClaims struct {
	UserID    string `json:"sub"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Avatar    string `json:"avatar"`
	Type      string `json:"typ"`
	TokenID   string `json:"jti"`
}

// Session is the state snapshot a client needs to rehydrate after a
// login or refresh: identity, follow graph and recent inbox, plus the
// freshly minted access token.
type Session struct {
	ID            string         `json:"id"`
	FirstName     string         `json:"firstName"`
	LastName      string         `json:"lastName"`
	Username      string         `json:"username"`
	Avatar        string         `json:"avatar"`
	Role          string         `json:"role"`
	TotalPosts    int            `json:"totalPosts"`
	Following     []string       `json:"following"`
	Followers     []string       `json:"followers"`
	Notifications []Notification `json:"notifications"`
	AccessToken   string         `json:"accessToken,omitempty"`
}
