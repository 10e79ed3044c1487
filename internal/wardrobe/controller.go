// Package wardrobe owns the in-memory garment collection and mediates
// all reads and writes between callers and the durable store. Mutations
// are applied to memory synchronously and persisted through a debounced
// full-rewrite, so rapid interactions coalesce into a single write.
package wardrobe

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/closetlab/wairdrobe/internal/apperr"
	"github.com/closetlab/wairdrobe/internal/garment"
	"github.com/closetlab/wairdrobe/internal/store"
)

// ErrNotReady is returned by mutations attempted before Load completes.
var ErrNotReady = errors.New("wardrobe: not ready")

// DefaultDebounce is the persistence coalescing window.
const DefaultDebounce = 800 * time.Millisecond

// State tracks controller initialization.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

// Events carries the callbacks fired after controller activity. Either
// field may be nil. Callbacks run outside the controller lock.
type Events struct {
	// Garment is called with kind "created", "updated", "deleted", or
	// "imported" (id empty for imports, which replace the collection).
	Garment func(kind, id string)
	// Saving signals the transient saving indicator around each write.
	Saving func(active bool)
}

// Controller is the single source of truth for the garment collection.
type Controller struct {
	store  store.GarmentStore // nil when storage is unavailable
	logger *slog.Logger
	events Events

	debounce time.Duration
	now      func() time.Time

	mu     sync.Mutex
	state  State
	items  []garment.Garment
	lastID string
	timer  *time.Timer

	// saveMu serializes writes: the snapshot is taken while holding it,
	// so snapshots commit in the order they are taken.
	saveMu sync.Mutex
}

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce overrides the persistence coalescing window.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounce = d }
}

// WithClock overrides the time source (used by tests).
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithEvents sets the event callbacks.
func WithEvents(ev Events) Option {
	return func(c *Controller) { c.events = ev }
}

// New creates a Controller. st may be nil, in which case the collection
// lives in memory only and every save is skipped with a warning.
func New(st store.GarmentStore, logger *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		store:    st,
		logger:   logger,
		debounce: DefaultDebounce,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads the stored collection once, sorts it by id descending
// (newest-created first), and transitions the controller to Ready.
// A load failure still transitions to Ready with an empty collection:
// unavailable storage must not take down the session.
func (c *Controller) Load() error {
	c.mu.Lock()
	if c.state != StateUninitialized {
		c.mu.Unlock()
		return fmt.Errorf("wardrobe: already initialized")
	}
	c.state = StateLoading
	c.mu.Unlock()

	var items []garment.Garment
	if c.store != nil {
		loaded, err := c.store.LoadAll()
		if err != nil {
			c.logger.Warn("wardrobe: load failed, starting empty", slog.String("error", err.Error()))
		} else {
			items = loaded
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ID > items[j].ID
	})

	c.mu.Lock()
	c.items = items
	c.state = StateReady
	c.mu.Unlock()

	c.logger.Info("wardrobe: loaded", slog.Int("items", len(items)))
	return nil
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Items returns a snapshot copy of the collection in memory order.
func (c *Controller) Items() []garment.Garment {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]garment.Garment, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the garment with the given id.
func (c *Controller) Get(id string) (garment.Garment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, g := range c.items {
		if g.ID == id {
			return g, nil
		}
	}
	return garment.Garment{}, apperr.ErrNotFound
}

// Add constructs a garment with a freshly generated id and prepends it,
// so the newest item comes first. The id is a timestamp token guaranteed
// to sort after every previously generated one.
func (c *Controller) Add(fields garment.Garment) (garment.Garment, error) {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return garment.Garment{}, ErrNotReady
	}

	g := fields
	g.ID = c.nextIDLocked()
	g.LastWorn = ""
	if g.Uses == nil {
		g.Uses = []string{}
	}
	c.items = append([]garment.Garment{g}, c.items...)
	c.scheduleSaveLocked()
	c.mu.Unlock()

	c.emit("created", g.ID)
	return g, nil
}

// Update replaces the entry whose id matches. Unknown ids are reported
// with apperr.ErrNotFound and leave the collection unchanged. The id
// itself is immutable.
func (c *Controller) Update(g garment.Garment) (garment.Garment, error) {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return garment.Garment{}, ErrNotReady
	}

	found := false
	for i := range c.items {
		if c.items[i].ID == g.ID {
			if g.Uses == nil {
				g.Uses = []string{}
			}
			c.items[i] = g
			found = true
			break
		}
	}
	if !found {
		c.mu.Unlock()
		return garment.Garment{}, apperr.ErrNotFound
	}
	c.scheduleSaveLocked()
	c.mu.Unlock()

	c.emit("updated", g.ID)
	return g, nil
}

// Delete removes the matching entry. Ids are compared as strings, so a
// numeric id that survived an old import still matches its textual form.
func (c *Controller) Delete(id string) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotReady
	}

	kept := c.items[:0]
	found := false
	for _, g := range c.items {
		if g.ID == id {
			found = true
			continue
		}
		kept = append(kept, g)
	}
	if !found {
		c.mu.Unlock()
		return apperr.ErrNotFound
	}
	c.items = kept
	c.scheduleSaveLocked()
	c.mu.Unlock()

	c.emit("deleted", id)
	return nil
}

// ToggleWornToday sets the garment's lastWorn to the local calendar date,
// or clears it when it already equals today. Repeated same-day toggles
// are an involution; marking on a later day always overwrites.
func (c *Controller) ToggleWornToday(id string) (garment.Garment, error) {
	today := c.now().Format("2006-01-02")

	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return garment.Garment{}, ErrNotReady
	}

	var updated garment.Garment
	found := false
	for i := range c.items {
		if c.items[i].ID != id {
			continue
		}
		if c.items[i].LastWorn == today {
			c.items[i].LastWorn = ""
		} else {
			c.items[i].LastWorn = today
		}
		updated = c.items[i]
		found = true
		break
	}
	if !found {
		c.mu.Unlock()
		return garment.Garment{}, apperr.ErrNotFound
	}
	c.scheduleSaveLocked()
	c.mu.Unlock()

	c.emit("updated", id)
	return updated, nil
}

// ExportSnapshot serializes the collection to pretty-printed JSON and
// returns it with the dated backup filename. An empty wardrobe yields
// apperr.ErrEmptyWardrobe instead of an empty file.
func (c *Controller) ExportSnapshot() ([]byte, string, error) {
	c.mu.Lock()
	items := make([]garment.Garment, len(c.items))
	copy(items, c.items)
	c.mu.Unlock()

	if len(items) == 0 {
		return nil, "", apperr.ErrEmptyWardrobe
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("wardrobe: marshal snapshot: %w", err)
	}
	name := fmt.Sprintf("wardrobe_backup_%s.json", c.now().Format("2006-01-02"))
	return data, name, nil
}

// ImportSnapshot parses raw as a garment list, normalizes every record,
// and replaces the entire collection with the result. Nothing is merged:
// the snapshot becomes the new truth. The previous collection is left
// untouched when raw is not a JSON array.
func (c *Controller) ImportSnapshot(raw []byte) (int, error) {
	items, err := garment.ParseSnapshot(raw)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return 0, ErrNotReady
	}
	c.items = items
	c.scheduleSaveLocked()
	c.mu.Unlock()

	c.emit("imported", "")
	c.logger.Info("wardrobe: snapshot imported", slog.Int("items", len(items)))
	return len(items), nil
}

// Flush cancels any pending debounce timer and writes the current
// collection immediately. Used at shutdown so the last mutations inside
// the debounce window are not lost.
func (c *Controller) Flush() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.save()
}

// nextIDLocked generates a creation-order token: an RFC 3339 timestamp
// with nanosecond precision, bumped when the clock has not advanced past
// the previous token.
func (c *Controller) nextIDLocked() string {
	id := c.now().UTC().Format("2006-01-02T15:04:05.000000000Z")
	if id <= c.lastID {
		id = c.lastID + "0"
	}
	c.lastID = id
	return id
}

// scheduleSaveLocked resets the debounce timer. Only the state as of the
// last mutation within the window is ever written: the timer is reset,
// never stacked.
func (c *Controller) scheduleSaveLocked() {
	if c.store == nil {
		return
	}
	if c.timer == nil {
		c.timer = time.AfterFunc(c.debounce, c.save)
		return
	}
	c.timer.Reset(c.debounce)
}

// save writes the full collection. A slow in-flight write cannot land
// after a newer one: saveMu is held from snapshot to commit, so writes
// reach the store in snapshot order. Failures are logged and do not roll
// back memory: the in-memory state stays authoritative and the next
// successful write captures the current truth.
func (c *Controller) save() {
	if c.store == nil {
		c.logger.Warn("wardrobe: save skipped, storage unavailable")
		return
	}

	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	items := make([]garment.Garment, len(c.items))
	copy(items, c.items)
	c.mu.Unlock()

	if c.events.Saving != nil {
		c.events.Saving(true)
	}
	if err := c.store.ReplaceAll(items); err != nil {
		c.logger.Warn("wardrobe: save failed", slog.String("error", err.Error()))
	} else {
		c.logger.Debug("wardrobe: saved", slog.Int("items", len(items)))
	}
	if c.events.Saving != nil {
		c.events.Saving(false)
	}
}

func (c *Controller) emit(kind, id string) {
	if c.events.Garment != nil {
		c.events.Garment(kind, id)
	}
}
