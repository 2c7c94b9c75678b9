package editor

import (
	"sync"

	"gutenbridge/post"
)

// Action is what the publish button does for the current post.
type Action string

const (
	ActionPublish         Action = "publish"
	ActionSchedule        Action = "schedule"
	ActionUpdate          Action = "update"
	ActionSave            Action = "save"
	ActionSubmitForReview Action = "submitForReview"
)

// ButtonText is the publish button label for a.
func (a Action) ButtonText() string {
	switch a {
	case ActionSchedule:
		return "Schedule"
	case ActionUpdate:
		return "Update"
	case ActionSave:
		return "Save"
	case ActionSubmitForReview:
		return "Submit for Review"
	default:
		return "Publish"
	}
}

// ActionFor maps a post status to its publish button action.
func ActionFor(status post.Status) Action {
	switch status {
	case post.StatusPublished, post.StatusPrivate:
		return ActionUpdate
	case post.StatusScheduled:
		return ActionSchedule
	case post.StatusPending:
		return ActionSubmitForReview
	default:
		return ActionPublish
	}
}

type StateContextDelegate interface {
	DidChangeAction(sc *StateContext, action Action)
	DidChangeActionAllowed(sc *StateContext, allowed bool)
}

// StateContext tracks the publish button's action and whether it is allowed.
// The delegate hears about each change separately and only on change.
type StateContext struct {
	mu         sync.Mutex
	delegate   StateContextDelegate
	action     Action
	allowed    bool
	hasContent bool
	hasChanges bool
}

func NewStateContext(p *post.Post, delegate StateContextDelegate) *StateContext {
	sc := &StateContext{
		delegate:   delegate,
		action:     ActionFor(p.Status()),
		hasContent: p.Content() != "",
	}
	sc.allowed = sc.computeAllowed()
	return sc
}

func (sc *StateContext) Action() Action {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.action
}

func (sc *StateContext) ActionAllowed() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.allowed
}

func (sc *StateContext) PublishButtonText() string {
	return sc.Action().ButtonText()
}

func (sc *StateContext) UpdatedHasContent(hasContent bool) {
	sc.update(func() { sc.hasContent = hasContent })
}

func (sc *StateContext) UpdatedHasChanges(hasChanges bool) {
	sc.update(func() { sc.hasChanges = hasChanges })
}

func (sc *StateContext) UpdatedStatus(status post.Status) {
	sc.update(func() { sc.action = ActionFor(status) })
}

// computeAllowed: an update needs changes to send; everything else only
// needs content. Caller must hold sc.mu.
func (sc *StateContext) computeAllowed() bool {
	if sc.action == ActionUpdate {
		return sc.hasContent && sc.hasChanges
	}
	return sc.hasContent
}

// update applies fn and notifies the delegate outside the lock.
func (sc *StateContext) update(fn func()) {
	sc.mu.Lock()
	prevAction, prevAllowed := sc.action, sc.allowed
	fn()
	sc.allowed = sc.computeAllowed()
	action, allowed := sc.action, sc.allowed
	sc.mu.Unlock()

	if sc.delegate == nil {
		return
	}
	if action != prevAction {
		sc.delegate.DidChangeAction(sc, action)
	}
	if allowed != prevAllowed {
		sc.delegate.DidChangeActionAllowed(sc, allowed)
	}
}
