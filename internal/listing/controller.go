// Package listing holds the paged, filtered view state of one backend
// resource and reconciles it with confirmed mutations.
package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/domain"
	apperrors "github.com/spec-kit/ticket-console/pkg/util/errorutil"
)

// Resource is the remote collection a controller manages. P is the payload
// accepted by Create and Update.
type Resource[T any, P any] interface {
	List(ctx context.Context, page, size int) (domain.Page[T], error)
	Create(ctx context.Context, payload P) (T, error)
	Update(ctx context.Context, id string, payload P) (T, error)
	Remove(ctx context.Context, id string) error
}

// Descriptor extracts the identity and the filterable display text of an item.
type Descriptor[T any] struct {
	ID      func(T) string
	Display func(T) string
}

// Options tunes a controller instance.
type Options struct {
	PageSize int
	// FilterResetsPage moves back to page one whenever the filter text changes.
	FilterResetsPage bool
}

// Panel is the side panel currently shown next to the list.
type Panel int

const (
	PanelNone Panel = iota
	PanelView
	PanelEdit
	PanelCreate
)

func (p Panel) String() string {
	switch p {
	case PanelView:
		return "view"
	case PanelEdit:
		return "edit"
	case PanelCreate:
		return "create"
	default:
		return "none"
	}
}

// Controller owns the view state of one resource list. Methods may be called
// from concurrent requests; the lock is never held while a network call is
// in flight.
type Controller[T any, P any] struct {
	resource Resource[T, P]
	desc     Descriptor[T]
	opts     Options
	logger   *zap.Logger

	mu         sync.Mutex
	items      []T
	page       int
	totalCount int
	filterText string
	selected   *T
	panel      Panel
	notice     string
	loaded     bool
	seq        uint64
}

// New creates a controller positioned on page one with nothing loaded.
func New[T any, P any](resource Resource[T, P], desc Descriptor[T], opts Options, logger *zap.Logger) *Controller[T, P] {
	if opts.PageSize < 1 {
		opts.PageSize = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller[T, P]{
		resource: resource,
		desc:     desc,
		opts:     opts,
		logger:   logger,
		page:     1,
	}
}

// Mount fetches the current page.
func (c *Controller[T, P]) Mount(ctx context.Context) error {
	c.mu.Lock()
	page := c.page
	c.mu.Unlock()
	return c.fetch(ctx, page)
}

// GoTo fetches page, clamped to the known page range.
func (c *Controller[T, P]) GoTo(ctx context.Context, page int) error {
	c.mu.Lock()
	page = c.clamp(page)
	c.mu.Unlock()
	return c.fetch(ctx, page)
}

// Next moves one page forward. It is a no-op on the last page.
func (c *Controller[T, P]) Next(ctx context.Context) error {
	c.mu.Lock()
	if c.page >= domain.TotalPages(c.totalCount, c.opts.PageSize) {
		c.mu.Unlock()
		return nil
	}
	page := c.page + 1
	c.mu.Unlock()
	return c.fetch(ctx, page)
}

// Prev moves one page back. It is a no-op on page one.
func (c *Controller[T, P]) Prev(ctx context.Context) error {
	c.mu.Lock()
	if c.page <= 1 {
		c.mu.Unlock()
		return nil
	}
	page := c.page - 1
	c.mu.Unlock()
	return c.fetch(ctx, page)
}

// clamp must be called with mu held. Before the first successful fetch the
// page count is unknown, so only the lower bound applies here and fetch
// enforces the upper one.
func (c *Controller[T, P]) clamp(page int) int {
	if page < 1 {
		return 1
	}
	if c.loaded {
		if last := domain.TotalPages(c.totalCount, c.opts.PageSize); page > last {
			return last
		}
	}
	return page
}

// fetch loads page and replaces items and totalCount wholesale. A response is
// applied only when no later fetch was issued by this controller. When the
// backend's total puts page past the end, the last page is fetched instead.
func (c *Controller[T, P]) fetch(ctx context.Context, page int) error {
	for {
		c.mu.Lock()
		c.seq++
		seq := c.seq
		size := c.opts.PageSize
		c.mu.Unlock()

		result, err := c.resource.List(ctx, page, size)

		c.mu.Lock()
		if seq != c.seq {
			c.logger.Debug("discarding superseded list response", zap.Uint64("seq", seq), zap.Uint64("latest", c.seq), zap.Int("page", page))
			c.mu.Unlock()
			return nil
		}
		if err != nil {
			c.notice = apperrors.UserMessage(err)
			c.mu.Unlock()
			return err
		}
		if last := domain.TotalPages(result.TotalCount, size); page > last {
			c.mu.Unlock()
			c.logger.Debug("requested page past the end", zap.Int("page", page), zap.Int("last", last))
			page = last
			continue
		}
		c.items = result.Items
		c.totalCount = result.TotalCount
		c.page = page
		c.loaded = true
		c.mu.Unlock()
		return nil
	}
}

// SetFilter changes the filter text. Items are never touched; when the
// controller resets the page on filter changes and is not on page one, page
// one is fetched.
func (c *Controller[T, P]) SetFilter(ctx context.Context, text string) error {
	c.mu.Lock()
	changed := c.filterText != text
	c.filterText = text
	refetch := changed && c.opts.FilterResetsPage && c.loaded && c.page != 1
	c.mu.Unlock()
	if !refetch {
		return nil
	}
	return c.fetch(ctx, 1)
}

// Visible returns the loaded items matching the filter text.
func (c *Controller[T, P]) Visible() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible()
}

func (c *Controller[T, P]) visible() []T {
	needle := strings.ToLower(strings.TrimSpace(c.filterText))
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if needle == "" || strings.Contains(strings.ToLower(c.desc.Display(item)), needle) {
			out = append(out, item)
		}
	}
	return out
}

// Find returns the loaded item with identity id.
func (c *Controller[T, P]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

func (c *Controller[T, P]) indexOf(id string) int {
	for i, item := range c.items {
		if c.desc.ID(item) == id {
			return i
		}
	}
	return -1
}

// Remove deletes id remotely and, once confirmed, drops it from the loaded
// items. The page is not refetched, so totalCount may overstate until the
// next fetch.
func (c *Controller[T, P]) Remove(ctx context.Context, id string) error {
	if id == "" {
		return c.report(apperrors.NewValidationError("missing identity for delete", nil))
	}
	if err := c.resource.Remove(ctx, id); err != nil {
		return c.report(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		c.items = append(c.items[:i:i], c.items[i+1:]...)
	}
	if c.selected != nil && c.desc.ID(*c.selected) == id {
		c.selected = nil
		c.panel = PanelNone
	}
	return nil
}

// Save updates existing when it is set and creates a new item otherwise. On
// success the panel closes; on failure items and panel stay as they were.
func (c *Controller[T, P]) Save(ctx context.Context, payload P, existing *T) (T, error) {
	var zero T
	if existing == nil {
		created, err := c.resource.Create(ctx, payload)
		if err != nil {
			return zero, c.report(err)
		}
		if c.desc.ID(created) == "" {
			return zero, c.report(&apperrors.DecodeError{Op: "create", Err: errors.New("created item has no identity")})
		}
		c.mu.Lock()
		c.items = append(c.items, created)
		// The page is not refetched after a create, so the pager counts the
		// new item until the next fetch replaces totalCount with the backend's.
		c.totalCount++
		c.closePanel()
		c.mu.Unlock()
		return created, nil
	}

	id := c.desc.ID(*existing)
	if id == "" {
		return zero, c.report(apperrors.NewValidationError("missing identity for update", nil))
	}
	updated, err := c.resource.Update(ctx, id, payload)
	if err != nil {
		return zero, c.report(err)
	}
	if got := c.desc.ID(updated); got != id {
		return zero, c.report(&apperrors.DecodeError{Op: "update", Err: fmt.Errorf("response identity %q does not match %q", got, id)})
	}

	c.mu.Lock()
	if i := c.indexOf(id); i >= 0 {
		c.items[i] = updated
	}
	c.closePanel()
	c.mu.Unlock()
	return updated, nil
}

// SelectForView opens the detail panel for item.
func (c *Controller[T, P]) SelectForView(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = &item
	c.panel = PanelView
}

// SelectForEdit opens the edit form for item.
func (c *Controller[T, P]) SelectForEdit(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = &item
	c.panel = PanelEdit
}

// Open selects the loaded item id and shows it in panel. It reports false
// when no loaded item has that identity.
func (c *Controller[T, P]) Open(id string, panel Panel) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	item := c.items[i]
	c.selected = &item
	c.panel = panel
	return true
}

// OpenCreate opens an empty create form.
func (c *Controller[T, P]) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
	c.panel = PanelCreate
}

// ClosePanel hides any panel and clears the selection.
func (c *Controller[T, P]) ClosePanel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closePanel()
}

func (c *Controller[T, P]) closePanel() {
	c.selected = nil
	c.panel = PanelNone
}

// Report records err as the notice shown with the list and returns it.
func (c *Controller[T, P]) Report(err error) error {
	return c.report(err)
}

func (c *Controller[T, P]) report(err error) error {
	c.mu.Lock()
	c.notice = apperrors.UserMessage(err)
	c.mu.Unlock()
	return err
}

// TakeNotice returns the pending notice and clears it.
func (c *Controller[T, P]) TakeNotice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.notice
	c.notice = ""
	return n
}

// Snapshot is a point-in-time copy of a controller's state for rendering.
type Snapshot[T any] struct {
	Items      []T
	Visible    []T
	Page       int
	PageSize   int
	TotalCount int
	TotalPages int
	FilterText string
	Selected   *T
	Panel      Panel
	Notice     string
	Loaded     bool
}

// HasPrev reports whether Prev would move.
func (s Snapshot[T]) HasPrev() bool { return s.Page > 1 }

// HasNext reports whether Next would move.
func (s Snapshot[T]) HasNext() bool { return s.Page < s.TotalPages }

// Snapshot copies the current state. The pending notice is left in place.
func (c *Controller[T, P]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot[T]{
		Items:      append([]T(nil), c.items...),
		Visible:    c.visible(),
		Page:       c.page,
		PageSize:   c.opts.PageSize,
		TotalCount: c.totalCount,
		TotalPages: domain.TotalPages(c.totalCount, c.opts.PageSize),
		FilterText: c.filterText,
		Panel:      c.panel,
		Notice:     c.notice,
		Loaded:     c.loaded,
	}
	if c.selected != nil {
		sel := *c.selected
		snap.Selected = &sel
	}
	return snap
}
