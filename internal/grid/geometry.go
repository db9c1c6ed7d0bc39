package grid

import "math"

// DefaultUnitsPerHour is used when a caller passes a non-positive scale.
const DefaultUnitsPerHour = 60

// Geometry places a spanning block inside the day column: Offset is measured
// from the top of the starting slot, Extent is the block height. Both are in
// units where one hour row is unitsPerHour tall.
type Geometry struct {
	Offset int
	Extent int
}

// Span returns the block geometry for a start occupant. Continuation slots
// have no geometry of their own and yield false.
func Span(occ *Occupant, unitsPerHour int) (Geometry, bool) {
	if occ == nil {
		return Geometry{}, false
	}
	if unitsPerHour <= 0 {
		unitsPerHour = DefaultUnitsPerHour
	}

	switch occ.Kind {
	case SessionStart:
		return Geometry{
			Offset: scale(occ.Segment.Start.Minute(), unitsPerHour),
			Extent: scale(occ.Session.DurationMinutes, unitsPerHour),
		}, true
	case EventStart:
		seg := occ.Segment
		hours := int(math.Ceil(seg.End.Sub(seg.Start).Hours()))
		if hours < 1 {
			hours = 1
		}
		return Geometry{
			Offset: scale(seg.Start.Minute(), unitsPerHour),
			Extent: hours * unitsPerHour,
		}, true
	default:
		return Geometry{}, false
	}
}

func scale(minutes, unitsPerHour int) int {
	return minutes * unitsPerHour / 60
}
