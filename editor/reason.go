package editor

// Reason records why the coordinator last asked the surface for content.
type Reason int32

const (
	ReasonNone Reason = iota
	ReasonPublish
	ReasonClose
	ReasonMore
)

func (r Reason) String() string {
	switch r {
	case ReasonPublish:
		return "publish"
	case ReasonClose:
		return "close"
	case ReasonMore:
		return "more"
	default:
		return "none"
	}
}
