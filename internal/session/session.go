// Package session owns per-user state: the cart and the current selection.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/GTDGit/catalog_assistant/internal/cart"
)

// Session is the state of one user's interaction.
type Session struct {
	ID               string     `json:"id"`
	Cart             *cart.Cart `json:"cart"`
	SelectedCategory string     `json:"selectedCategory,omitempty"`
	SelectedProduct  string     `json:"selectedProduct,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// New starts a session with a fresh id and an empty cart.
func New() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New().String(),
		Cart:      cart.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Store persists sessions for at most their TTL.
type Store interface {
	// Get returns utils.ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
