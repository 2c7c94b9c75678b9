package editor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gutenbridge/editor"
	"gutenbridge/post"
)

func newTestManager(t *testing.T, opts ...editor.Option) *editor.Manager {
	t.Helper()
	m := editor.NewManager(nil, opts...)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		require.NoError(t, m.Shutdown(ctx))
	})
	return m
}

func flushSession(t *testing.T, s *editor.Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Coordinator().Flush(ctx))
}

func TestCreateAndGet(t *testing.T) {
	m := newTestManager(t)
	s := m.Create(draftPost())

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	flushSession(t, s)
	view := s.View()
	assert.Equal(t, "Hello", view.Title)
	assert.Equal(t, "Publish", view.NavBar.Publish.Title)
	assert.Equal(t, "My Blog", view.NavBar.BlogPicker.Title)
	assert.False(t, view.Connected)
}

func TestListOldestFirst(t *testing.T) {
	m := newTestManager(t)
	first := m.Create(draftPost())
	time.Sleep(time.Millisecond)
	second := m.Create(draftPost())

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
}

func TestCloseSession(t *testing.T) {
	m := newTestManager(t)
	s := m.Create(draftPost())
	surface := &fakeSurface{}
	s.AttachSurface(surface)

	require.NoError(t, m.Close(s.ID))
	<-s.Done()

	_, ok := m.Get(s.ID)
	assert.False(t, ok)
	surface.mu.Lock()
	assert.Equal(t, 1, surface.invalidated)
	surface.mu.Unlock()
}

func TestCloseNotFound(t *testing.T) {
	m := newTestManager(t)
	assert.ErrorIs(t, m.Close("nonexistent"), editor.ErrNotFound)
}

func TestGetNotFound(t *testing.T) {
	m := newTestManager(t)
	_, ok := m.Get("nonexistent")
	assert.False(t, ok)
}

func TestRequestWithoutSurface(t *testing.T) {
	m := newTestManager(t)
	s := m.Create(draftPost())

	s.Coordinator().PublishPressed()
	flushSession(t, s)

	view := s.View()
	assert.Equal(t, "none", view.Pending)
	assert.Contains(t, view.Outcome.LastFailure, editor.ErrNoSurface.Error())
}

func TestCloseFlowDismissesSession(t *testing.T) {
	m := newTestManager(t)
	s := m.Create(draftPost())
	s.AttachSurface(&fakeSurface{})

	s.Coordinator().ClosePressed()
	s.Coordinator().ContentProvided("<p>draft</p>", true)

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session was not dismissed")
	}
	_, ok := m.Get(s.ID)
	assert.False(t, ok)

	view := s.View()
	assert.True(t, view.Outcome.Dismissed)
	assert.True(t, view.Outcome.Discarded)
	assert.Equal(t, "<p>draft</p>", view.Content)
}

func TestPublishFlow(t *testing.T) {
	m := newTestManager(t)
	s := m.Create(draftPost())
	s.AttachSurface(&fakeSurface{})

	s.Coordinator().PublishPressed()
	s.Coordinator().ContentProvided("<p>ready</p>", true)
	flushSession(t, s)

	view := s.View()
	assert.Equal(t, 1, view.Outcome.Published)
	assert.Equal(t, post.StatusPublished, view.Status)
	assert.Equal(t, editor.ActionUpdate, view.Action)
	assert.Equal(t, "Update", view.NavBar.Publish.Title)
	assert.False(t, s.Coordinator().Post().HasNeverAttemptedToUpload())
}

func TestMoreFlow(t *testing.T) {
	m := newTestManager(t)
	s := m.Create(draftPost())
	s.AttachSurface(&fakeSurface{})

	s.Coordinator().MorePressed()
	s.Coordinator().ContentProvided("<p>x</p>", false)
	flushSession(t, s)
	assert.Equal(t, 1, s.View().Outcome.MoreSheets)
}

func TestAttachDisplacesPrior(t *testing.T) {
	m := newTestManager(t)
	s := m.Create(draftPost())

	first := &fakeSurface{}
	kick1 := s.AttachSurface(first)
	second := &fakeSurface{}
	_ = s.AttachSurface(second)

	select {
	case <-kick1:
	default:
		t.Fatal("first surface's kick channel was not closed on displacement")
	}

	// The displaced surface must not detach its replacement.
	s.DetachSurface(first)
	assert.True(t, s.View().Connected)

	s.Coordinator().ClosePressed()
	flushSession(t, s)
	assert.Zero(t, first.requestCount())
	assert.Equal(t, 1, second.requestCount())

	s.DetachSurface(second)
	assert.False(t, s.View().Connected)
}

func TestSelectMedia(t *testing.T) {
	m := newTestManager(t)
	s := m.Create(draftPost())

	assert.ErrorIs(t, s.SelectMedia(nil), editor.ErrNoMediaRequest)

	got := make(chan []editor.Media, 1)
	s.Coordinator().MediaRequested(func(media []editor.Media) error {
		got <- media
		return nil
	})
	flushSession(t, s)
	assert.True(t, s.View().MediaRequested)

	selection := []editor.Media{{ID: "1", URL: "https://example.com/1.jpg"}}
	require.NoError(t, s.SelectMedia(selection))
	assert.Equal(t, selection, <-got)
	assert.False(t, s.View().MediaRequested)
}

func TestManagerOptionsApply(t *testing.T) {
	m := newTestManager(t, editor.WithSingleSiteMode(true))
	s := m.Create(draftPost())
	flushSession(t, s)
	assert.False(t, s.View().NavBar.BlogPicker.Enabled)
}

func requestMedia(t *testing.T, s *editor.Session, cb editor.MediaCallback) {
	t.Helper()
	s.Coordinator().MediaRequested(cb)
	flushSession(t, s)
	require.True(t, s.View().MediaRequested)
}

func TestMediaRequestDroppedOnDisplacement(t *testing.T) {
	m := newTestManager(t)
	s := m.Create(draftPost())
	s.AttachSurface(&fakeSurface{})

	called := false
	requestMedia(t, s, func([]editor.Media) error {
		called = true
		return nil
	})

	s.AttachSurface(&fakeSurface{})
	assert.False(t, s.View().MediaRequested)
	assert.ErrorIs(t, s.SelectMedia([]editor.Media{{ID: "1"}}), editor.ErrNoMediaRequest)
	assert.False(t, called)
}

func TestMediaRequestDroppedOnDetach(t *testing.T) {
	m := newTestManager(t)
	s := m.Create(draftPost())
	surface := &fakeSurface{}
	s.AttachSurface(surface)

	requestMedia(t, s, func([]editor.Media) error { return nil })

	s.DetachSurface(surface)
	assert.False(t, s.View().MediaRequested)
	assert.ErrorIs(t, s.SelectMedia(nil), editor.ErrNoMediaRequest)
}

func TestSelectMediaReportsDeliveryFailure(t *testing.T) {
	m := newTestManager(t)
	s := m.Create(draftPost())

	errGone := errors.New("connection gone")
	requestMedia(t, s, func([]editor.Media) error { return errGone })

	assert.ErrorIs(t, s.SelectMedia([]editor.Media{{ID: "1"}}), errGone)
	assert.False(t, s.View().MediaRequested)
}

func TestViewReportsPendingReason(t *testing.T) {
	m := newTestManager(t)
	s := m.Create(draftPost())
	s.AttachSurface(&fakeSurface{})

	s.Coordinator().ClosePressed()
	flushSession(t, s)
	assert.Equal(t, editor.ReasonClose.String(), s.View().Pending)
}
