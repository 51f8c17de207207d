package asset

import "strconv"

// Handle refers to one requested asset. The zero Handle refers to nothing.
type Handle struct {
	id uint64
}

func (h Handle) ID() uint64 {
	return h.id
}

func (h Handle) IsZero() bool {
	return h.id == 0
}

func (h Handle) String() string {
	return "asset#" + strconv.FormatUint(h.id, 10)
}

// LoadState is the server's view of a handle.
type LoadState int

const (
	// NotLoaded: the handle is unknown or its load has not started.
	NotLoaded LoadState = iota
	Loading
	Loaded
	Failed
	// Unloaded: every reference was released and the data was evicted.
	Unloaded
)

func (s LoadState) String() string {
	switch s {
	case NotLoaded:
		return "not_loaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	case Unloaded:
		return "unloaded"
	}
	return "load_state(" + strconv.Itoa(int(s)) + ")"
}

// Pending reports whether the state can still change on its own.
func (s LoadState) Pending() bool {
	return s == NotLoaded || s == Loading
}
