package component

// Tag is a free-form label attached by metadata scripts.
type Tag struct {
	Name string
}

var TagComponent = NewComponent[Tag]()
