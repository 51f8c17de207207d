package component

// TTL is a frame-based time-to-live. Entities carrying it are destroyed by
// the TTL system once Frames reaches zero.
type TTL struct {
	Frames int
}

var TTLComponent = NewComponent[TTL]()
