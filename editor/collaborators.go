package editor

import "gutenbridge/post"

// Surface is the embedded editor. It is queried, not commanded: RequestHTML
// only asks for a snapshot, which arrives later through
// Coordinator.ContentProvided.
type Surface interface {
	RequestHTML(requestID string) error
	Invalidate()
}

// Flows are the follow-up actions run once requested content arrives.
type Flows interface {
	Publish()
	Cancel()
	DisplayMoreSheet()
	// ContentUnavailable runs instead of the flow above when a request
	// could not be sent or its deadline passed.
	ContentUnavailable(reason Reason, err error)
}

// NavigationBar renders the host's buttons.
type NavigationBar interface {
	ReloadPublishButton(text string, enabled bool)
	ReloadBlogPickerButton(title string, enabled bool)
}

type MediaSource string

const MediaLibrary MediaSource = "mediaLibrary"

// Media is an item chosen in the picker. The coordinator passes it through
// untouched.
type Media struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

// MediaCallback receives the picker's selection; nil means nothing chosen.
// It returns an error when the selection could not reach the surface.
type MediaCallback func(media []Media) error

type MediaPicker interface {
	PresentPicker(p *post.Post, source MediaSource, callback MediaCallback)
}

type nopNavigationBar struct{}

func (nopNavigationBar) ReloadPublishButton(string, bool)    {}
func (nopNavigationBar) ReloadBlogPickerButton(string, bool) {}
