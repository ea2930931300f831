package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovementStoreDefaultsToIdle(t *testing.T) {
	store := NewMovementStore()

	st := store.Movement(42)
	assert.Equal(t, MoveIdle, st.Mode, "unknown entity reports idle")
	assert.Empty(t, st.Waypoints)
}

func TestMovementStoreLastWriteWins(t *testing.T) {
	store := NewMovementStore()

	store.SetMovement(1, AlongPath([]Vec3{{X: 1}, {X: 2}}))
	store.SetMovement(1, DirectTo(Vec3{X: 5, Z: 5}))

	st := store.Movement(1)
	assert.Equal(t, MoveDirect, st.Mode, "second transition in the same frame wins")
	assert.Equal(t, Vec3{X: 5, Z: 5}, st.Target)
	assert.Nil(t, st.Waypoints)
}

func TestMovementStoreRemove(t *testing.T) {
	store := NewMovementStore()

	store.SetMovement(1, DirectTo(Vec3{X: 1}))
	store.Remove(1)

	assert.Equal(t, MoveIdle, store.Movement(1).Mode)
}

func TestMovementStoreConcurrentWrites(t *testing.T) {
	store := NewMovementStore()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			store.SetMovement(EntityID(n%4), DirectTo(Vec3{X: float64(n)}))
			store.Movement(EntityID(n % 4))
		}(i)
	}
	wg.Wait()

	for id := EntityID(0); id < 4; id++ {
		assert.Equal(t, MoveDirect, store.Movement(id).Mode)
	}
}

func TestMoveModeString(t *testing.T) {
	assert.Equal(t, "IDLE", MoveIdle.String())
	assert.Equal(t, "DIRECT", MoveDirect.String())
	assert.Equal(t, "PATH", MovePath.String())
	assert.Equal(t, "UNKNOWN", MoveMode(99).String())
}
