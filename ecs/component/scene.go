package component

// Name is the authored name of a scene node.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()

// Extras holds the raw metadata document the authoring tool attached to a
// node, as JSON text. Entities without metadata have no Extras component.
type Extras struct {
	Value string
}

var ExtrasComponent = NewComponent[Extras]()

// Node links an entity back to the glTF node it was built from. Parent is -1
// for scene roots.
type Node struct {
	Index  int
	Parent int
}

var NodeComponent = NewComponent[Node]()

// SceneMember marks entities spawned from a loaded scene into a host world.
type SceneMember struct {
	Path string
}

var SceneMemberComponent = NewComponent[SceneMember]()
