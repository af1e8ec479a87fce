// Package checkout turns a session cart plus delivery details into an
// order message and hands it off for WhatsApp delivery.
package checkout

import (
	"context"
	"errors"
	"fmt"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/jvitormendess/jaci-api/internal/cart"
	"github.com/jvitormendess/jaci-api/internal/notify"
	"github.com/jvitormendess/jaci-api/internal/obs"
	"github.com/jvitormendess/jaci-api/internal/order"
)

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrInvalidInput = errors.New("invalid input")
)

// Input is the checkout payload sent by the storefront.
type Input struct {
	Name          string `json:"name" validate:"required,min=1"`
	Address       string `json:"address" validate:"required,min=1"`
	PaymentMethod string `json:"paymentMethod" validate:"required,min=1"`
}

// Output is returned to the storefront after a successful checkout. The
// client opens WhatsAppURL to hand the conversation to the shopkeeper.
type Output struct {
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsappUrl"`
}

// Dispatcher queues a message for asynchronous delivery.
type Dispatcher interface {
	Enqueue(ctx context.Context, destination, text string) error
}

type Service struct {
	Cart       *cart.Service
	Validate   *validator.Validate
	Dispatch   Dispatcher
	Sink       notify.Sink
	StoreName  string
	StorePhone string
	Log        zerolog.Logger
}

// Submit renders the order message for the session's cart, dispatches it
// when a delivery path is configured, and clears the cart. The message and
// wa.me link are returned either way so the storefront can always open the
// WhatsApp conversation itself.
func (s *Service) Submit(ctx context.Context, sessionID string, in Input) (_ Output, err error) {
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		obs.ObserveOrderSubmitted(result)
	}()
	if s == nil || s.Cart == nil {
		return Output{}, errors.New("checkout service not configured")
	}
	if s.Validate != nil {
		if err := s.Validate.Struct(in); err != nil {
			return Output{}, fmt.Errorf("%w: %s", ErrInvalidInput, validationDetail(err))
		}
	}
	c, err := s.Cart.Get(ctx, sessionID)
	if err != nil {
		return Output{}, err
	}
	if c.Len() == 0 {
		return Output{}, ErrEmptyCart
	}
	msg := order.Format(c.Entries(), order.Details{
		Name:          in.Name,
		Address:       in.Address,
		PaymentMethod: in.PaymentMethod,
	}, s.StoreName)

	if err := s.dispatch(ctx, msg); err != nil {
		// Delivery is best effort. The wa.me link still reaches the
		// shopkeeper when the gateway is down.
		s.Log.Error().Err(err).Msg("order message dispatch failed")
	}
	if err := s.Cart.Clear(ctx, sessionID); err != nil {
		return Output{}, err
	}
	return Output{
		Message:     msg,
		WhatsAppURL: notify.WhatsAppLink(s.StorePhone, msg),
	}, nil
}

func (s *Service) dispatch(ctx context.Context, msg string) error {
	if s.Dispatch != nil {
		return s.Dispatch.Enqueue(ctx, s.StorePhone, msg)
	}
	if s.Sink != nil {
		err := s.Sink.Send(ctx, s.StorePhone, msg)
		result := "ok"
		if err != nil {
			result = "error"
		}
		obs.ObserveOrderMessageDelivery(result)
		return err
	}
	return nil
}

func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Sprintf("field %s failed %s", verrs[0].Field(), verrs[0].Tag())
	}
	return err.Error()
}
