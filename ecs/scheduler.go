package ecs

import (
	"sort"
	"strconv"
)

// System updates a world once per tick.
type System interface {
	Update(w *World)
}

// Stage orders systems within a tick. Later stages read what earlier ones
// wrote in the same tick.
type Stage int

const (
	StageInput Stage = iota
	StageState
	StagePhysics
	StageCamera
	StagePresentation
)

func (s Stage) String() string {
	switch s {
	case StageInput:
		return "input"
	case StageState:
		return "state"
	case StagePhysics:
		return "physics"
	case StageCamera:
		return "camera"
	case StagePresentation:
		return "presentation"
	default:
		return "stage(" + strconv.Itoa(int(s)) + ")"
	}
}

type scheduled struct {
	stage  Stage
	system System
}

// Scheduler runs systems by stage, and in insertion order within a stage.
type Scheduler struct {
	systems []scheduled
}

// NewScheduler runs systems in the given order, all in the first stage.
func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.AddTo(StageInput, system)
	}
	return s
}

// AddTo schedules system after everything already in stage and before any
// later stage.
func (s *Scheduler) AddTo(stage Stage, system System) {
	if system == nil {
		return
	}
	i := sort.Search(len(s.systems), func(i int) bool {
		return s.systems[i].stage > stage
	})
	s.systems = append(s.systems, scheduled{})
	copy(s.systems[i+1:], s.systems[i:])
	s.systems[i] = scheduled{stage: stage, system: system}
}

func (s *Scheduler) Update(w *World) {
	for _, sc := range s.systems {
		sc.system.Update(w)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	for _, sc := range s.systems {
		systems = append(systems, sc.system)
	}
	return systems
}

// StageOf reports which stage a scheduled system runs in.
func (s *Scheduler) StageOf(system System) (Stage, bool) {
	for _, sc := range s.systems {
		if sc.system == system {
			return sc.stage, true
		}
	}
	return 0, false
}
