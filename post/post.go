// Package post holds the content model edited through the bridge.
package post

import "sync"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusPrivate   Status = "private"
	StatusPublished Status = "publish"
	StatusScheduled Status = "future"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusPrivate, StatusPublished, StatusScheduled:
		return true
	}
	return false
}

// Blog identifies the site a post belongs to. Used for display only.
type Blog struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DisplayName is the blog name, or its URL when the name is empty.
func (b Blog) DisplayName() string {
	if b.Name != "" {
		return b.Name
	}
	return b.URL
}

// Post is safe for concurrent use.
type Post struct {
	mu            sync.RWMutex
	title         string
	content       string
	status        Status
	blog          Blog
	neverUploaded bool
}

// New returns a local post that has never been uploaded. An empty status
// means draft.
func New(title, content string, status Status, blog Blog) *Post {
	if status == "" {
		status = StatusDraft
	}
	return &Post{
		title:         title,
		content:       content,
		status:        status,
		blog:          blog,
		neverUploaded: true,
	}
}

func (p *Post) Title() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.title
}

func (p *Post) Content() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.content
}

func (p *Post) SetContent(content string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.content = content
}

func (p *Post) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

func (p *Post) SetStatus(status Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
}

func (p *Post) Blog() Blog {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.blog
}

// HasNeverAttemptedToUpload reports whether the post exists only locally.
func (p *Post) HasNeverAttemptedToUpload() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.neverUploaded
}

// MarkUploadAttempted records that an upload of the post has been tried.
func (p *Post) MarkUploadAttempted() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.neverUploaded = false
}
