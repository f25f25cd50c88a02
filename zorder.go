package mapoverlay

// ZOrder is the process-wide stacking counter shared by all floating panels.
// It only ever moves up, so a value handed out once is never handed out again
// and an older panel can never end up above a newer one.
type ZOrder struct {
	top int
}

// Seed raises the counter to at least n. It never lowers it.
func (z *ZOrder) Seed(n int) {
	if n > z.top {
		z.top = n
	}
}

// Next advances the counter and returns the new front-most value.
func (z *ZOrder) Next() int {
	z.top++
	return z.top
}

// Top returns the most recently issued value.
func (z *ZOrder) Top() int {
	return z.top
}
