package physics

// VisualMapping converts a formula result into the distance an animated
// element travels along its track. The offset is proportional to the
// result and saturates at ±TrackLength once |result| reaches MaxResult.
type VisualMapping struct {
	TrackLength float64 `json:"track_length" yaml:"track_length"`
	MaxResult   float64 `json:"max_result"   yaml:"max_result"`
}

// Offset returns the visual offset for result.
func (m VisualMapping) Offset(result float64) float64 {
	if m.MaxResult == 0 {
		return 0
	}

	ratio := result / m.MaxResult
	if ratio > 1 {
		ratio = 1
	}
	if ratio < -1 {
		ratio = -1
	}

	return ratio * m.TrackLength
}
