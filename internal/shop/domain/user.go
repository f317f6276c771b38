package domain

import "time"

// Roles a user can hold. The product endpoints gate admin operations on a
// straight equality check against RoleAdmin.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID           string
	Username     string
	Email        string // stored lowercase
	PasswordHash string // argon2 encoded, never serialized
	Role         string // "customer" or "admin"
	CartItems    []CartItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// CartItem is a product reference with a quantity, owned by a user.
type CartItem struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// UserView is the sanitized user representation returned to clients. It never
// carries the password hash.
type UserView struct {
	ID        string     `json:"_id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	CartItems []CartItem `json:"cartItems"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// View builds the sanitized representation of u.
func (u User) View() UserView {
	items := u.CartItems
	if items == nil {
		items = []CartItem{}
	}
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CartItems: items,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
