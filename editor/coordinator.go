// Package editor coordinates a host with an embedded block editor that can
// only hand back its content asynchronously.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gutenbridge/post"
)

var (
	ErrContentTimeout = errors.New("editor did not return content before the deadline")
	ErrStopped        = errors.New("coordinator stopped")
)

const (
	DefaultContentTimeout = 10 * time.Second
	eventBacklog          = 64
)

type Option func(*Coordinator)

func WithNavigationBar(nav NavigationBar) Option {
	return func(c *Coordinator) { c.nav = nav }
}

func WithMediaPicker(picker MediaPicker) Option {
	return func(c *Coordinator) { c.picker = picker }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithContentTimeout sets how long a content request may stay pending.
// Non-positive durations keep DefaultContentTimeout.
func WithContentTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithSingleSiteMode disables the blog picker button.
func WithSingleSiteMode(single bool) Option {
	return func(c *Coordinator) { c.singleSite = single }
}

// Coordinator brokers host intents and editor content. Every entry point is
// queued and handled in order on the goroutine running Run, so pending
// state is only ever touched there.
type Coordinator struct {
	surface    Surface
	flows      Flows
	nav        NavigationBar
	picker     MediaPicker
	logger     *zap.Logger
	timeout    time.Duration
	singleSite bool

	mu    sync.RWMutex
	post  *post.Post
	state *StateContext

	removeOnDismiss bool

	events   chan func()
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	pending   atomic.Int32
	requestID string
	deadline  *time.Timer
}

// NewCoordinator is the only way to build a Coordinator.
func NewCoordinator(p *post.Post, surface Surface, flows Flows, opts ...Option) *Coordinator {
	c := &Coordinator{
		surface:         surface,
		flows:           flows,
		nav:             nopNavigationBar{},
		logger:          zap.NewNop(),
		timeout:         DefaultContentTimeout,
		post:            p,
		removeOnDismiss: p.HasNeverAttemptedToUpload(),
		events:          make(chan func(), eventBacklog),
		stop:            make(chan struct{}),
		done:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state = NewStateContext(p, c)
	return c
}

// Run handles queued events until ctx ends or Stop is called, then
// invalidates the surface. Run must be called once.
func (c *Coordinator) Run(ctx context.Context) error {
	defer close(c.done)
	defer c.surface.Invalidate()
	defer c.disarm()

	c.refreshInterface()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stop:
			return nil
		case fn := <-c.events:
			fn()
		}
	}
}

func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Done is closed once Run has returned.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Flush blocks until every event queued before it has been handled.
func (c *Coordinator) Flush(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case c.events <- func() { close(ack) }:
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) enqueue(fn func()) {
	select {
	case c.events <- fn:
	case <-c.done:
	}
}

func (c *Coordinator) PublishPressed() {
	c.enqueue(func() { c.requestHTML(ReasonPublish) })
}

func (c *Coordinator) ClosePressed() {
	c.enqueue(func() { c.requestHTML(ReasonClose) })
}

func (c *Coordinator) MorePressed() {
	c.enqueue(func() { c.requestHTML(ReasonMore) })
}

// CancelPending forgets an in-flight request without running any flow.
// A later response still updates the post.
func (c *Coordinator) CancelPending() {
	c.enqueue(func() {
		if r := c.Pending(); r != ReasonNone {
			c.logger.Debug("content request cancelled",
				zap.String("reason", r.String()),
				zap.String("request_id", c.requestID))
		}
		c.clearPending()
	})
}

// ContentProvided delivers a snapshot from the surface.
func (c *Coordinator) ContentProvided(html string, changed bool) {
	c.enqueue(func() { c.receiveHTML(html, changed) })
}

// MediaRequested forwards a surface's picker request; callback carries the
// selection back to the surface.
func (c *Coordinator) MediaRequested(callback MediaCallback) {
	c.enqueue(func() {
		if c.picker == nil {
			c.logger.Warn("media requested without a picker")
			return
		}
		c.picker.PresentPicker(c.Post(), MediaLibrary, callback)
	})
}

// SetPost swaps the edited post and rebuilds its state context.
func (c *Coordinator) SetPost(p *post.Post) {
	c.enqueue(func() {
		c.mu.Lock()
		c.post = p
		c.state = NewStateContext(p, c)
		c.mu.Unlock()
		c.refreshInterface()
	})
}

// Pending is the reason awaiting a response, ReasonNone when idle.
func (c *Coordinator) Pending() Reason {
	return Reason(c.pending.Load())
}

func (c *Coordinator) Post() *post.Post {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.post
}

func (c *Coordinator) StateContext() *StateContext {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Coordinator) HTML() string {
	return c.Post().Content()
}

func (c *Coordinator) SetHTML(html string) {
	c.Post().SetContent(html)
}

func (c *Coordinator) PublishButtonText() string {
	return c.StateContext().PublishButtonText()
}

// PublishButtonEnabled is always true: the surface does not report every
// edit, so the state context cannot know when content changed.
func (c *Coordinator) PublishButtonEnabled() bool {
	return true
}

// ShouldRemovePostOnDismiss reports whether dismissing should discard a
// post that only ever existed locally.
func (c *Coordinator) ShouldRemovePostOnDismiss() bool {
	return c.removeOnDismiss
}

func (c *Coordinator) DidChangeAction(_ *StateContext, _ Action) {
	c.reloadPublishButton()
}

func (c *Coordinator) DidChangeActionAllowed(_ *StateContext, _ bool) {
	c.reloadPublishButton()
}

func (c *Coordinator) requestHTML(reason Reason) {
	c.disarm()
	id := uuid.NewString()
	c.pending.Store(int32(reason))
	c.requestID = id

	if err := c.surface.RequestHTML(id); err != nil {
		c.logger.Warn("content request failed",
			zap.String("reason", reason.String()),
			zap.String("request_id", id),
			zap.Error(err))
		c.clearPending()
		c.flows.ContentUnavailable(reason, fmt.Errorf("request content: %w", err))
		return
	}
	c.logger.Debug("content requested",
		zap.String("reason", reason.String()),
		zap.String("request_id", id))

	c.deadline = time.AfterFunc(c.timeout, func() {
		c.enqueue(func() { c.expire(id) })
	})
}

func (c *Coordinator) receiveHTML(html string, changed bool) {
	reason := c.Pending()
	c.clearPending()

	c.Post().SetContent(html)
	c.StateContext().UpdatedHasContent(html != "")

	c.logger.Debug("content received",
		zap.String("reason", reason.String()),
		zap.Bool("changed", changed),
		zap.Int("bytes", len(html)))

	switch reason {
	case ReasonPublish:
		c.flows.Publish()
	case ReasonClose:
		c.flows.Cancel()
	case ReasonMore:
		c.flows.DisplayMoreSheet()
	}
}

func (c *Coordinator) expire(id string) {
	reason := c.Pending()
	if reason == ReasonNone || c.requestID != id {
		return
	}
	c.logger.Warn("content request timed out",
		zap.String("reason", reason.String()),
		zap.String("request_id", id),
		zap.Duration("timeout", c.timeout))
	c.clearPending()
	c.flows.ContentUnavailable(reason, ErrContentTimeout)
}

func (c *Coordinator) clearPending() {
	c.pending.Store(int32(ReasonNone))
	c.requestID = ""
	c.disarm()
}

func (c *Coordinator) disarm() {
	if c.deadline != nil {
		c.deadline.Stop()
		c.deadline = nil
	}
}

func (c *Coordinator) refreshInterface() {
	c.reloadBlogPickerButton()
	c.reloadPublishButton()
}

func (c *Coordinator) reloadBlogPickerButton() {
	c.nav.ReloadBlogPickerButton(c.Post().Blog().DisplayName(), !c.singleSite)
}

func (c *Coordinator) reloadPublishButton() {
	c.nav.ReloadPublishButton(c.PublishButtonText(), c.PublishButtonEnabled())
}
