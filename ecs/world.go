package ecs

import "github.com/milk9111/piggysouls/ecs/component"

// World owns entities, component stores, and the per-tick context shared by
// systems: the tick delta, the physics world, and the player/camera handles.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue

	physicsWorld *PhysicsWorld

	player Entity
	camera Entity

	dt   float64
	tick uint64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes all of an entity's components and frees its id.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e.id())
	}
	if w.physicsWorld != nil {
		w.physicsWorld.Remove(e)
	}
	if w.player == e {
		w.player = 0
	}
	if w.camera == e {
		w.camera = 0
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Entities returns every live entity.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// Query returns the live entities that own every listed component kind.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k.ID(), false)
		if s == nil {
			return nil
		}
		sets = append(sets, s)
	}
	ids := intersectIDs(sets...)
	out := make([]Entity, 0, len(ids))
	for _, id := range ids {
		if e, ok := w.entities.handle(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// First returns any live entity owning the component kind.
func (w *World) First(kind component.Kind) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	s := w.store(kind.ID(), false)
	for _, id := range s.ids() {
		if e, ok := w.entities.handle(id); ok {
			return e, true
		}
	}
	return 0, false
}

// SetPlayer records the player handle used by controller systems.
func (w *World) SetPlayer(e Entity) {
	if w != nil {
		w.player = e
	}
}

// Player returns the player handle if it is still alive.
func (w *World) Player() (Entity, bool) {
	if w == nil || !w.IsAlive(w.player) {
		return 0, false
	}
	return w.player, true
}

// SetCamera records the third-person camera handle.
func (w *World) SetCamera(e Entity) {
	if w != nil {
		w.camera = e
	}
}

// Camera returns the camera handle if it is still alive.
func (w *World) Camera() (Entity, bool) {
	if w == nil || !w.IsAlive(w.camera) {
		return 0, false
	}
	return w.camera, true
}

// Delta is the fixed timestep of the tick being run, in seconds.
func (w *World) Delta() float64 {
	if w == nil {
		return 0
	}
	return w.dt
}

// TickCount is the number of ticks completed so far.
func (w *World) TickCount() uint64 {
	if w == nil {
		return 0
	}
	return w.tick
}

// Tick runs the scheduler once with the given timestep.
func (w *World) Tick(s *Scheduler, dt float64) {
	if w == nil || s == nil {
		return
	}
	w.dt = dt
	s.Update(w)
	w.tick++
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// SetPhysicsWorld attaches a physics world to this ECS world.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	if w == nil {
		return
	}
	w.physicsWorld = pw
}

// PhysicsWorld returns the attached physics world, if any.
func (w *World) PhysicsWorld() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physicsWorld
}
