package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collectLine(it *LineIterator) []Cell {
	var cells []Cell
	for it.Next() {
		cells = append(cells, Cell{X: it.X(), Z: it.Z()})
	}
	return cells
}

func TestLineIteratorHorizontal(t *testing.T) {
	cells := collectLine(NewLineIterator(0, 0, 5, 0))

	assert.Equal(t, 6, len(cells), "should visit 6 cells (0..5)")
	assert.Equal(t, Cell{X: 0, Z: 0}, cells[0])
	assert.Equal(t, Cell{X: 5, Z: 0}, cells[5])
	for _, c := range cells {
		assert.Equal(t, 0, c.Z)
	}
}

func TestLineIteratorVertical(t *testing.T) {
	cells := collectLine(NewLineIterator(0, 0, 0, 3))

	assert.Equal(t, 4, len(cells))
	assert.Equal(t, 0, cells[0].Z)
	assert.Equal(t, 3, cells[3].Z)
}

func TestLineIteratorDiagonal(t *testing.T) {
	cells := collectLine(NewLineIterator(0, 0, 3, 3))

	assert.Equal(t, Cell{X: 0, Z: 0}, cells[0])
	assert.Equal(t, Cell{X: 3, Z: 3}, cells[len(cells)-1])
}

func TestLineIteratorNegativeDirection(t *testing.T) {
	cells := collectLine(NewLineIterator(5, 5, 2, 2))

	assert.Equal(t, Cell{X: 5, Z: 5}, cells[0])
	assert.Equal(t, Cell{X: 2, Z: 2}, cells[len(cells)-1])
}

func TestLineIteratorSinglePoint(t *testing.T) {
	cells := collectLine(NewLineIterator(3, 3, 3, 3))
	assert.Equal(t, []Cell{{X: 3, Z: 3}}, cells)
}

// TestLineIteratorAdjacency verifies the walk never jumps more than one
// cell per axis between steps.
func TestLineIteratorAdjacency(t *testing.T) {
	cells := collectLine(NewLineIterator(0, 0, 7, 3))

	for i := 1; i < len(cells); i++ {
		assert.LessOrEqual(t, absInt(cells[i].X-cells[i-1].X), 1)
		assert.LessOrEqual(t, absInt(cells[i].Z-cells[i-1].Z), 1)
	}
}
