package model

import "sync"

// MoveMode describes how an entity is currently moving.
type MoveMode int32

const (
	// MoveIdle - entity is standing still (also the "no route" outcome)
	MoveIdle MoveMode = iota
	// MoveDirect - entity moves in a straight line toward Target
	MoveDirect
	// MovePath - entity follows the Waypoints sequence in order
	MovePath
)

// String returns human-readable movement mode name
func (m MoveMode) String() string {
	switch m {
	case MoveIdle:
		return "IDLE"
	case MoveDirect:
		return "DIRECT"
	case MovePath:
		return "PATH"
	default:
		return "UNKNOWN"
	}
}

// MovementState is the single movement directive of one entity.
// Exactly one state is published per handled move intent: direct motion,
// path motion, or idle. The per-frame integrator consumes it; the
// navigation subsystem never reads it back.
type MovementState struct {
	Mode      MoveMode
	Target    Vec3   // valid when Mode == MoveDirect
	Waypoints []Vec3 // valid when Mode == MovePath, ordered start-exclusive
}

// Idle returns the idle/no-route state.
func Idle() MovementState {
	return MovementState{Mode: MoveIdle}
}

// DirectTo returns a direct-motion state toward the given point.
func DirectTo(target Vec3) MovementState {
	return MovementState{Mode: MoveDirect, Target: target}
}

// AlongPath returns a path-motion state following the given waypoints.
func AlongPath(waypoints []Vec3) MovementState {
	return MovementState{Mode: MovePath, Waypoints: waypoints}
}

// MovementStore holds the current movement state of every entity.
// One mutable state per entity: when two intents for the same entity are
// handled in the same frame, the second transition overwrites the first
// (last-write-wins).
//
// Thread-safe: uses RWMutex for concurrent access.
type MovementStore struct {
	mu     sync.RWMutex
	states map[EntityID]MovementState
}

// NewMovementStore creates an empty MovementStore.
func NewMovementStore() *MovementStore {
	return &MovementStore{states: make(map[EntityID]MovementState)}
}

// SetMovement publishes a movement-state transition for the entity.
// Thread-safe: acquires write lock.
func (s *MovementStore) SetMovement(id EntityID, state MovementState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[id] = state
}

// Movement returns the current movement state of the entity.
// Entities without a published state report idle.
// Thread-safe: acquires read lock.
func (s *MovementStore) Movement(id EntityID) MovementState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[id]
}

// Remove drops the movement state of a despawned entity.
// Thread-safe: acquires write lock.
func (s *MovementStore) Remove(id EntityID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, id)
}
