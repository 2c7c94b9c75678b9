package settings

// Flag names a process-wide feature gate.
type Flag string

const FlagNativeEditor Flag = "nativeEditor"

// FlagResolver answers whether a feature flag is on. Implementations are
// read-only from the store's point of view.
type FlagResolver interface {
	Enabled(flag Flag) bool
}

// Flags is a static resolver. Missing flags are disabled.
type Flags map[Flag]bool

func (f Flags) Enabled(flag Flag) bool {
	return f[flag]
}
