package store

import (
	"context"
	"errors"

	"github.com/wattlecart/storefront/internal/shop/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Products() Products
	CartItems() CartItems

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by id, cart items included.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks a user up by their (lowercase) email address.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email or username is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// DeleteUser cascades to cart_items (per schema).
	DeleteUser(ctx context.Context, userID string) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Products interface {
	// GetProductByID returns a product by id.
	GetProductByID(ctx context.Context, id string) (domain.Product, error)

	// ListProducts returns the whole catalog, newest first.
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// ListProductsByCategory filters on the category column.
	ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)

	// ListFeaturedProducts returns products with is_featured set, newest first.
	ListFeaturedProducts(ctx context.Context) ([]domain.Product, error)

	// SampleProducts returns up to n random products.
	SampleProducts(ctx context.Context, n int) ([]domain.Product, error)

	// CreateProduct inserts a new product (id is ULID).
	CreateProduct(ctx context.Context, p domain.Product) error

	// SetProductFeatured flips the is_featured flag and bumps updated_at.
	SetProductFeatured(ctx context.Context, productID string, featured bool) error

	// DeleteProduct cascades to cart_items (per schema).
	DeleteProduct(ctx context.Context, productID string) error
}

type CartItems interface {
	// ListCartItems returns the cart rows for a user.
	ListCartItems(ctx context.Context, userID string) ([]domain.CartItem, error)

	// UpsertCartItem sets the quantity for a (user, product) pair,
	// inserting the row if it does not exist.
	UpsertCartItem(ctx context.Context, userID, productID string, quantity int) error

	// DeleteCartItem removes a single cart row.
	DeleteCartItem(ctx context.Context, userID, productID string) error
}
