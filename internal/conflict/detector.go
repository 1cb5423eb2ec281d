// Package conflict implements the interval-overlap detector. Detection is a
// pure function over a snapshot of confirmed events and pending proposals;
// it never mutates state.
package conflict

import "github.com/evcal/event-lifecycle-service/internal/domain"

// Detect returns every confirmed event and pending proposal whose interval
// overlaps the candidate, excluding the entry identified by excludeID.
// Matches keep the creation order of their source collections, confirmed
// events first. Candidate validation is the caller's job; a malformed
// candidate yields no matches rather than an error.
func Detect(
	candidate domain.Interval,
	excludeID string,
	confirmed []domain.Event,
	proposals []domain.ParseResponse,
) []domain.Conflict {
	var conflicts []domain.Conflict

	for _, event := range confirmed {
		if event.ID == excludeID {
			continue
		}
		if candidate.Overlaps(event.Interval()) {
			conflicts = append(conflicts, domain.Conflict{
				ConflictingID:       event.ID,
				ConflictingInterval: event.Interval(),
				Kind:                Classify(candidate, event.Interval()),
			})
		}
	}

	for _, pr := range proposals {
		if pr.ID == excludeID || pr.Status != domain.ProposalStatusPending {
			continue
		}
		if candidate.Overlaps(pr.Proposed.Interval()) {
			conflicts = append(conflicts, domain.Conflict{
				ConflictingID:       pr.ID,
				ConflictingInterval: pr.Proposed.Interval(),
				Kind:                Classify(candidate, pr.Proposed.Interval()),
			})
		}
	}

	return conflicts
}

// Classify names the kind of overlap between two intervals that are already
// known to overlap: identical bounds first, then strict containment either
// way, otherwise a partial overlap.
func Classify(a, b domain.Interval) domain.OverlapKind {
	if a.Equal(b) {
		return domain.OverlapIdentical
	}
	if a.Contains(b) || b.Contains(a) {
		return domain.OverlapFullContainment
	}
	return domain.OverlapPartial
}
