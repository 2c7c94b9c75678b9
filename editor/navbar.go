package editor

import "sync"

type ButtonState struct {
	Title   string `json:"title"`
	Enabled bool   `json:"enabled"`
	Renders int    `json:"renders"`
}

// NavBarState is what the host's navigation bar currently shows.
type NavBarState struct {
	Publish    ButtonState `json:"publish"`
	BlogPicker ButtonState `json:"blog_picker"`
}

// RecordingNavBar keeps the last rendered state of each button and how many
// times it was rendered. Sessions expose it to REST clients, which draw the
// real chrome.
type RecordingNavBar struct {
	mu    sync.Mutex
	state NavBarState
}

func (n *RecordingNavBar) ReloadPublishButton(text string, enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state.Publish.Title = text
	n.state.Publish.Enabled = enabled
	n.state.Publish.Renders++
}

func (n *RecordingNavBar) ReloadBlogPickerButton(title string, enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state.BlogPicker.Title = title
	n.state.BlogPicker.Enabled = enabled
	n.state.BlogPicker.Renders++
}

func (n *RecordingNavBar) State() NavBarState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}
