package nav

// LineIterator implements the Bresenham line algorithm over grid cells.
// It visits every cell the discrete line from start to end passes
// through, start and end included.
type LineIterator struct {
	currentX, currentZ int
	targetX, targetZ   int
	deltaX, deltaZ     int
	stepX, stepZ       int
	err                int
	started            bool
}

// NewLineIterator creates a cell line iterator from (sx, sz) to (ex, ez).
func NewLineIterator(sx, sz, ex, ez int) *LineIterator {
	it := &LineIterator{
		currentX: sx, currentZ: sz,
		targetX: ex, targetZ: ez,
	}

	it.deltaX = absInt(ex - sx)
	it.deltaZ = absInt(ez - sz)

	if sx < ex {
		it.stepX = 1
	} else {
		it.stepX = -1
	}
	if sz < ez {
		it.stepZ = 1
	} else {
		it.stepZ = -1
	}

	it.err = it.deltaX - it.deltaZ
	return it
}

// Next advances the iterator to the next cell.
// Returns false once the target has been passed.
func (it *LineIterator) Next() bool {
	if !it.started {
		it.started = true
		return true // start cell
	}

	if it.currentX == it.targetX && it.currentZ == it.targetZ {
		return false
	}

	e2 := 2 * it.err
	if e2 > -it.deltaZ {
		it.err -= it.deltaZ
		it.currentX += it.stepX
	}
	if e2 < it.deltaX {
		it.err += it.deltaX
		it.currentZ += it.stepZ
	}

	return true
}

// X returns the current cell X index.
func (it *LineIterator) X() int { return it.currentX }

// Z returns the current cell Z index.
func (it *LineIterator) Z() int { return it.currentZ }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
