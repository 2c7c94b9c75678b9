package editor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"gutenbridge/post"
)

var (
	ErrNotFound       = errors.New("editor session not found")
	ErrNoSurface      = errors.New("no editor surface attached")
	ErrNoMediaRequest = errors.New("no media request pending")
)

// Outcome records what the flows did, for hosts polling the session.
type Outcome struct {
	Published   int    `json:"published"`
	MoreSheets  int    `json:"more_sheets"`
	Dismissed   bool   `json:"dismissed"`
	Discarded   bool   `json:"discarded"`
	LastFailure string `json:"last_failure,omitempty"`
}

// Session is one open editor: a post, the coordinator driving it, and the
// slot for the connected editor surface. At most one surface is attached at
// a time; attaching a new one displaces the old.
type Session struct {
	ID        string
	CreatedAt time.Time

	coord     *Coordinator
	nav       *RecordingNavBar
	logger    *zap.Logger
	onDismiss func(id string)

	mu            sync.Mutex
	surface       Surface
	kick          chan struct{}
	mediaCallback MediaCallback
	outcome       Outcome
}

// View is the JSON shape of a session.
type View struct {
	ID             string      `json:"id"`
	CreatedAt      time.Time   `json:"created_at"`
	Connected      bool        `json:"connected"`
	Title          string      `json:"title"`
	Content        string      `json:"content"`
	Status         post.Status `json:"status"`
	Blog           post.Blog   `json:"blog"`
	Pending        string      `json:"pending"`
	Action         Action      `json:"action"`
	NavBar         NavBarState `json:"nav_bar"`
	MediaRequested bool        `json:"media_requested"`
	Outcome        Outcome     `json:"outcome"`
}

func (s *Session) Coordinator() *Coordinator {
	return s.coord
}

// Done is closed once the session's coordinator has stopped.
func (s *Session) Done() <-chan struct{} {
	return s.coord.Done()
}

func (s *Session) View() View {
	p := s.coord.Post()
	s.mu.Lock()
	connected := s.surface != nil
	mediaRequested := s.mediaCallback != nil
	outcome := s.outcome
	s.mu.Unlock()

	return View{
		ID:             s.ID,
		CreatedAt:      s.CreatedAt,
		Connected:      connected,
		Title:          p.Title(),
		Content:        p.Content(),
		Status:         p.Status(),
		Blog:           p.Blog(),
		Pending:        s.coord.Pending().String(),
		Action:         s.coord.StateContext().Action(),
		NavBar:         s.nav.State(),
		MediaRequested: mediaRequested,
		Outcome:        outcome,
	}
}

// AttachSurface makes surface the session's editor. A previously attached
// surface is displaced: its kick channel is closed so its transport can hang
// up, and any media request it made is dropped. Returns the kick channel for
// this surface.
func (s *Session) AttachSurface(surface Surface) <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kick != nil {
		close(s.kick)
	}
	if s.surface != nil {
		s.mediaCallback = nil
	}
	kick := make(chan struct{})
	s.kick = kick
	s.surface = surface
	return kick
}

// DetachSurface clears the slot only if surface still owns it, so a
// displaced connection cannot detach its replacement. The surface's media
// request goes with it.
func (s *Session) DetachSurface(surface Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.surface == surface {
		s.surface = nil
		s.kick = nil
		s.mediaCallback = nil
	}
}

// SelectMedia completes the surface's pending media request.
func (s *Session) SelectMedia(media []Media) error {
	s.mu.Lock()
	cb := s.mediaCallback
	s.mediaCallback = nil
	s.mu.Unlock()

	if cb == nil {
		return ErrNoMediaRequest
	}
	if err := cb(media); err != nil {
		return fmt.Errorf("deliver media: %w", err)
	}
	return nil
}

func (s *Session) RequestHTML(requestID string) error {
	s.mu.Lock()
	surface := s.surface
	s.mu.Unlock()
	if surface == nil {
		return ErrNoSurface
	}
	return surface.RequestHTML(requestID)
}

func (s *Session) Invalidate() {
	s.mu.Lock()
	surface := s.surface
	s.surface = nil
	s.kick = nil
	s.mediaCallback = nil
	s.mu.Unlock()
	if surface != nil {
		surface.Invalidate()
	}
}

// PresentPicker parks the callback until a host answers with SelectMedia.
func (s *Session) PresentPicker(_ *post.Post, _ MediaSource, callback MediaCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mediaCallback = callback
}

func (s *Session) Publish() {
	p := s.coord.Post()
	if s.coord.StateContext().Action() == ActionPublish {
		p.SetStatus(post.StatusPublished)
	}
	p.MarkUploadAttempted()
	s.coord.StateContext().UpdatedStatus(p.Status())

	s.mu.Lock()
	s.outcome.Published++
	s.mu.Unlock()
	s.logger.Info("post published", zap.String("status", string(p.Status())))
}

func (s *Session) Cancel() {
	discard := s.coord.ShouldRemovePostOnDismiss() && s.coord.Post().HasNeverAttemptedToUpload()
	s.mu.Lock()
	s.outcome.Dismissed = true
	s.outcome.Discarded = discard
	s.mu.Unlock()
	s.logger.Info("editor dismissed", zap.Bool("discarded", discard))

	if s.onDismiss != nil {
		s.onDismiss(s.ID)
	}
}

func (s *Session) DisplayMoreSheet() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcome.MoreSheets++
}

func (s *Session) ContentUnavailable(reason Reason, err error) {
	s.mu.Lock()
	s.outcome.LastFailure = err.Error()
	s.mu.Unlock()
	s.logger.Warn("content unavailable", zap.String("reason", reason.String()), zap.Error(err))
}
