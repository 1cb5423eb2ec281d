package domain

// OverlapKind classifies how two intervals intersect.
type OverlapKind string

const (
	// OverlapIdentical means both bounds coincide exactly.
	OverlapIdentical OverlapKind = "identical"
	// OverlapFullContainment means one interval is a strict subset of the other.
	OverlapFullContainment OverlapKind = "full_containment"
	// OverlapPartial covers every other intersection.
	OverlapPartial OverlapKind = "partial_overlap"
)

// Conflict records an overlap between a candidate interval and an existing
// confirmed event or pending proposal. Conflicts are computed at parse time
// and live only inside their owning ParseResponse.
type Conflict struct {
	ConflictingID       string      `json:"conflicting_id"`
	ConflictingInterval Interval    `json:"conflicting_interval"`
	Kind                OverlapKind `json:"overlap_kind"`
}
