package theater

import "math"

// Grid is a rows-by-cols arrangement of equally sized cells.
type Grid struct {
	Rows, Cols int
}

// BestGrid chooses the grid for n plots of aspect ratio aspect (width over
// height) in a w-by-h viewport. Every row count k in [1,n] is tried with
// ceil(n/k) columns; the winner maximizes the cell area that fits both the
// width and the height constraint, ties keeping the smallest k. n is
// expected to be small, so brute force is fine.
func BestGrid(n int, w, h, aspect float64) Grid {
	if n <= 0 {
		return Grid{}
	}
	best := Grid{}
	bestArea := math.Inf(-1)
	for k := 1; k <= n; k++ {
		cols := (n + k - 1) / k
		cw := w / float64(cols)
		ch := h / float64(k)
		area := math.Min(cw*cw/aspect, ch*ch*aspect)
		if area > bestArea {
			bestArea = area
			best = Grid{Rows: k, Cols: cols}
		}
	}
	return best
}
