package cartclient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// MutationState tracks where the latest mutating call sits in the
// optimistic-update lifecycle.
type MutationState int

const (
	StateIdle MutationState = iota
	StateOptimistic
	StateConfirmed
	StateRolledBack
)

func (s MutationState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOptimistic:
		return "optimistic"
	case StateConfirmed:
		return "confirmed"
	case StateRolledBack:
		return "rolled-back"
	default:
		return "unknown"
	}
}

// API is the cart backend surface the controller drives.
// Consumers define this interface, not the HTTP client.
type API interface {
	GetCart(ctx context.Context, sessionID string) (*Cart, error)
	AddItem(ctx context.Context, sessionID string, req AddItemRequest) (*Cart, error)
	UpdateItem(ctx context.Context, sessionID, itemID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (*Cart, error)
	ClearCart(ctx context.Context, sessionID string) (*Cart, error)
}

// Notifier receives user-facing failure messages.
type Notifier func(message string)

// Controller holds the local mirror of a session's cart. Quantity
// updates, removals and clears mutate the mirror before the network call
// settles and roll back to a snapshot on failure; adds wait for the
// server because the merge-with-existing-line outcome cannot be
// predicted locally. The mirror is a cache: on any success the server's
// item list replaces it wholesale.
//
// The controller models a single UI flow and is not safe for concurrent
// use.
type Controller struct {
	api       API
	store     SessionStore
	notify    Notifier
	sessionID string
	items     []Item
	state     MutationState
}

func NewController(api API, store SessionStore, notify Notifier) *Controller {
	if notify == nil {
		notify = func(string) {}
	}
	return &Controller{
		api:    api,
		store:  store,
		notify: notify,
		state:  StateIdle,
	}
}

// Load restores persisted state, minting a session id on first run, and
// refreshes the mirror from the server. A fetch failure leaves the
// persisted mirror in place so the UI still has something to show.
func (c *Controller) Load(ctx context.Context) error {
	state, err := c.store.Load()
	if err != nil {
		return err
	}

	c.sessionID = state.SessionID
	c.items = state.Items
	if c.sessionID == "" {
		c.sessionID = uuid.NewString()
		if err := c.save(); err != nil {
			return err
		}
	}

	cart, err := c.api.GetCart(ctx, c.sessionID)
	if err != nil {
		c.notify(failureMessage(err))
		return err
	}

	c.items = cart.Items
	return c.save()
}

// SessionID returns the persistent session identity.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Items returns the current local mirror.
func (c *Controller) Items() []Item {
	return c.items
}

// State reports the lifecycle position of the last mutation.
func (c *Controller) State() MutationState {
	return c.state
}

// AddItem sends an add mutation and waits for the authoritative cart.
// No optimistic update here: the server may merge into an existing line.
func (c *Controller) AddItem(ctx context.Context, productID, variantID string, quantity int) error {
	cart, err := c.api.AddItem(ctx, c.sessionID, AddItemRequest{
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
	})
	if err != nil {
		c.state = StateIdle
		c.notify(failureMessage(err))
		return err
	}

	c.items = cart.Items
	c.state = StateConfirmed
	return c.save()
}

// UpdateQuantity optimistically sets the line's quantity, then reconciles
// with the server or rolls back.
func (c *Controller) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	return c.optimistic(ctx,
		func(items []Item) []Item {
			for i := range items {
				if items[i].ID == itemID {
					items[i].Quantity = quantity
				}
			}
			return items
		},
		func(ctx context.Context) (*Cart, error) {
			return c.api.UpdateItem(ctx, c.sessionID, itemID, quantity)
		},
	)
}

// RemoveItem optimistically drops the line, then reconciles or rolls back.
func (c *Controller) RemoveItem(ctx context.Context, itemID string) error {
	return c.optimistic(ctx,
		func(items []Item) []Item {
			kept := items[:0]
			for _, item := range items {
				if item.ID != itemID {
					kept = append(kept, item)
				}
			}
			return kept
		},
		func(ctx context.Context) (*Cart, error) {
			return c.api.RemoveItem(ctx, c.sessionID, itemID)
		},
	)
}

// ClearCart optimistically empties the mirror, then reconciles or rolls
// back.
func (c *Controller) ClearCart(ctx context.Context) error {
	return c.optimistic(ctx,
		func([]Item) []Item { return []Item{} },
		func(ctx context.Context) (*Cart, error) {
			return c.api.ClearCart(ctx, c.sessionID)
		},
	)
}

// optimistic runs the Idle → Optimistic → {Confirmed | RolledBack}
// machine: snapshot, local apply, network call, then either replace the
// mirror with the server's answer or restore the snapshot. The snapshot
// is held until the call settles.
func (c *Controller) optimistic(ctx context.Context, apply func([]Item) []Item, call func(context.Context) (*Cart, error)) error {
	snapshot := cloneItems(c.items)

	c.items = apply(cloneItems(c.items))
	c.state = StateOptimistic

	cart, err := call(ctx)
	if err != nil {
		c.items = snapshot
		c.state = StateRolledBack
		c.notify(failureMessage(err))
		return err
	}

	c.items = cart.Items
	c.state = StateConfirmed
	return c.save()
}

// ItemCount is the total quantity across all lines.
func (c *Controller) ItemCount() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// Subtotal sums resolved variant price × quantity. Lines whose product or
// variant no longer resolves contribute nothing.
func (c *Controller) Subtotal() float64 {
	total := 0.0
	for _, item := range c.items {
		if item.Product == nil {
			continue
		}
		for _, variant := range item.Product.Variants {
			if variant.ID == item.VariantID {
				total += variant.Price * float64(item.Quantity)
				break
			}
		}
	}
	return total
}

// Save persists the session id and mirror.
func (c *Controller) Save() error {
	return c.save()
}

func (c *Controller) save() error {
	return c.store.Save(State{
		SessionID: c.sessionID,
		Items:     c.items,
	})
}

func cloneItems(items []Item) []Item {
	cloned := make([]Item, len(items))
	copy(cloned, items)
	return cloned
}

func failureMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Something went wrong updating your cart. Please try again."
}
