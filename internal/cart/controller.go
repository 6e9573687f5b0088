package cart

import (
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Subscriber receives every accepted cart state, in the order it was applied.
// Subscribers run while the controller is locked and must not call back into it.
type Subscriber func(State)

// Recorder observes dispatched actions. The result is "accepted" or "rejected".
type Recorder interface {
	ObserveAction(action, result string)
}

const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
)

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	Recorder Recorder
	Now      func() time.Time
}

// Controller owns the current cart state for one session and republishes every
// accepted transition to its subscribers.
type Controller struct {
	mu          sync.Mutex
	state       State
	subscribers map[int]Subscriber
	nextSubID   int
	recorder    Recorder
	now         func() time.Time
	lastTouched time.Time
}

func NewController(opts ControllerOptions) *Controller {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		state:       EmptyState(),
		subscribers: map[int]Subscriber{},
		recorder:    opts.Recorder,
		now:         now,
		lastTouched: now(),
	}
}

// AddItem adds exactly one unit of item. Any amount set on item is ignored.
func (c *Controller) AddItem(item LineItem) (State, error) {
	item.Amount = 1
	return c.Dispatch(Add{Item: item})
}

// RemoveItem removes one unit of the item with id.
func (c *Controller) RemoveItem(id string) (State, error) {
	return c.Dispatch(Remove{ID: id})
}

// ClearCart resets the cart to its empty state.
func (c *Controller) ClearCart() (State, error) {
	return c.Dispatch(Clear{})
}

// Dispatch applies action to the current state. Accepted transitions replace
// the stored state and are published once; rejected ones change nothing.
func (c *Controller) Dispatch(action Action) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastTouched = c.now()

	next, err := Transition(c.state, action)
	kind := kindOf(action)
	if err != nil {
		c.observe(kind, ResultRejected)
		return c.state, err
	}

	c.state = next
	c.observe(kind, ResultAccepted)
	for _, id := range c.subscriberIDs() {
		c.subscribers[id](next)
	}
	return next, nil
}

// Subscribe registers fn for future states and returns a function that removes it.
func (c *Controller) Subscribe(fn Subscriber) func() {
	_, unsubscribe := c.SubscribeWithSnapshot(fn)
	return unsubscribe
}

// SubscribeWithSnapshot registers fn and returns the state current at
// registration. fn sees exactly the states published after that snapshot.
func (c *Controller) SubscribeWithSnapshot(fn Subscriber) (State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn

	c.lastTouched = c.now()

	var once sync.Once
	return c.state, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subscribers, id)
			c.lastTouched = c.now()
			c.mu.Unlock()
		})
	}
}

// SubscriberCount reports how many subscribers are registered.
func (c *Controller) SubscriberCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subscribers)
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Items returns a copy of the current line items.
func (c *Controller) Items() []LineItem {
	return c.Snapshot().clone().Items
}

func (c *Controller) TotalAmount() decimal.Decimal {
	return c.Snapshot().TotalAmount
}

// FormattedTotal returns the total as a two-decimal currency string.
func (c *Controller) FormattedTotal() string {
	return FormatAmount(c.TotalAmount())
}

func (c *Controller) HasItems() bool {
	return c.Snapshot().HasItems()
}

// Find returns the line item with id, if present.
func (c *Controller) Find(id string) (LineItem, bool) {
	state := c.Snapshot()
	if idx := state.indexOf(id); idx >= 0 {
		return state.Items[idx], true
	}
	return LineItem{}, false
}

// IdleSince reports when the controller was last dispatched to or touched.
func (c *Controller) IdleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastTouched
}

// Touch marks the controller as in use without changing its state.
func (c *Controller) Touch() {
	c.mu.Lock()
	c.lastTouched = c.now()
	c.mu.Unlock()
}

// subscriberIDs returns registration order so publication is deterministic.
func (c *Controller) subscriberIDs() []int {
	ids := make([]int, 0, len(c.subscribers))
	for id := range c.subscribers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (c *Controller) observe(kind, result string) {
	if c.recorder != nil {
		c.recorder.ObserveAction(kind, result)
	}
}

// kindOf labels action for metrics. Pointer and nil actions are unknown.
func kindOf(action Action) string {
	switch action.(type) {
	case Add:
		return ActionAdd
	case Remove:
		return ActionRemove
	case Clear:
		return ActionClear
	}
	return "unknown"
}
