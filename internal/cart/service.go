package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jvitormendess/jaci-api/internal/catalog"
	"github.com/jvitormendess/jaci-api/internal/obs"
	"github.com/jvitormendess/jaci-api/internal/pricing"
	"github.com/jvitormendess/jaci-api/internal/session"
)

// ErrInvalidInput is returned when the provided identifiers are invalid.
var ErrInvalidInput = errors.New("invalid input")

// Service loads, mutates, and persists one cart per session. Every
// mutation writes the cart back to the key/value store so that a
// session survives restarts.
type Service struct {
	KV  session.Store
	TTL time.Duration
}

func (s *Service) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.TTL
}

func (s *Service) load(ctx context.Context, sessionID string) (*Cart, error) {
	data, ok, err := s.KV.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if !ok {
		return New(), nil
	}
	c, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return c, nil
}

func (s *Service) save(ctx context.Context, sessionID string, c *Cart) error {
	data, err := Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.KV.Set(ctx, sessionID, data, s.ttl()); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func observeMutation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	obs.ObserveCartMutation(op, result)
}

func (s *Service) guard(sessionID string) error {
	if s == nil || s.KV == nil {
		return errors.New("cart service not configured")
	}
	if sessionID == "" {
		return fmt.Errorf("session id required: %w", ErrInvalidInput)
	}
	return nil
}

// Get returns the session's current cart.
func (s *Service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	if err := s.guard(sessionID); err != nil {
		return nil, err
	}
	return s.load(ctx, sessionID)
}

// AddItem adds product p to the session's cart and persists the result.
// Unit-merge semantics live in Cart.Add.
func (s *Service) AddItem(ctx context.Context, sessionID string, p catalog.Product, qty decimal.Decimal, unit pricing.Unit) (_ *Cart, err error) {
	defer func() { observeMutation("add", err) }()
	if err := s.guard(sessionID); err != nil {
		return nil, err
	}
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.Add(p, qty, unit)
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateQuantity sets the quantity of one cart line and persists. A
// non-positive quantity removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, key string, qty decimal.Decimal) (_ *Cart, err error) {
	defer func() { observeMutation("update", err) }()
	if err := s.guard(sessionID); err != nil {
		return nil, err
	}
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.UpdateQuantity(key, qty)
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem deletes one cart line and persists. Unknown keys are a
// no-op.
func (s *Service) RemoveItem(ctx context.Context, sessionID, key string) (_ *Cart, err error) {
	defer func() { observeMutation("remove", err) }()
	if err := s.guard(sessionID); err != nil {
		return nil, err
	}
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.Remove(key)
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear empties the session's cart and persists the empty state.
func (s *Service) Clear(ctx context.Context, sessionID string) (err error) {
	defer func() { observeMutation("clear", err) }()
	if err := s.guard(sessionID); err != nil {
		return err
	}
	return s.save(ctx, sessionID, New())
}
