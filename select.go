package facecrop

// Selector picks the face among the candidates returned by a Detector.
// It reports false when there is no candidate to pick.
type Selector func(candidates []Rect) (Rect, bool)

// FirstCandidate selects the first candidate in detection order.
// Overlapping or nested candidates are not resolved, later ones are discarded.
func FirstCandidate(candidates []Rect) (Rect, bool) {
	if len(candidates) == 0 {
		return Rect{}, false
	}
	return candidates[0], true
}

// LargestCandidate selects the candidate covering the largest area.
// On equal areas the earliest candidate wins.
func LargestCandidate(candidates []Rect) (Rect, bool) {
	if len(candidates) == 0 {
		return Rect{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Area() > best.Area() {
			best = c
		}
	}
	return best, true
}
