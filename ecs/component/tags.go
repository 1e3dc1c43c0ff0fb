package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()

// LevelGeometryTag marks static level pieces so a reload can find them.
type LevelGeometryTag struct {
	Name string
}

var LevelGeometryTagComponent = NewComponent[LevelGeometryTag]()
