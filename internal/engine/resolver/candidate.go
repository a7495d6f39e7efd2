package resolver

import "go.trai.ch/buildfinder/internal/core/domain"

// candidate pairs a Build's canonical metadata with the RemoteArchive that
// matched the query, so the selector can attribute discarded matches to
// DuplicateArchives without a second lookup.
type candidate struct {
	build   *domain.Build
	archive domain.RemoteArchive
}

// SelectBuild implements §4.4's candidate-selection policy: given a list of
// candidates, choose the single build a checksum should attribute to.
// alreadyOutput reports whether a build id is already present in the output
// map; logWarn reports the no-COMPLETE-candidate fallback of rule 3.
func SelectBuild(candidates []candidate, alreadyOutput func(id int64) (*domain.Build, bool), logWarn func(msg string, args ...any)) *domain.Build {
	if len(candidates) == 0 {
		return nil
	}

	// Rule 1: if any candidate id already exists in the output map, mark
	// all non-selected matching archives as duplicates on the highest-id
	// already-cached candidate.
	var cachedCandidates []candidate
	for _, c := range candidates {
		if _, ok := alreadyOutput(c.build.Info.ID); ok {
			cachedCandidates = append(cachedCandidates, c)
		}
	}
	if len(cachedCandidates) > 0 {
		winner, _ := alreadyOutput(highestID(cachedCandidates).build.Info.ID)
		for _, c := range candidates {
			if c.build.Info.ID == winner.Info.ID {
				continue
			}
			winner.DuplicateArchives = append(winner.DuplicateArchives, c.archive)
		}
		return winner
	}

	// Rule 2: filter to COMPLETE candidates.
	var complete []candidate
	for _, c := range candidates {
		if c.build.Info.State == domain.StateComplete {
			complete = append(complete, c)
		}
	}
	if len(complete) > 0 {
		// 2a: tagged and not-import, highest id.
		if best := highestIDWhere(complete, func(c candidate) bool {
			return len(c.build.Tags) > 0 && !c.archive.IsImport
		}); best != nil {
			return best.build
		}
		// 2b: tagged regardless of import, highest id.
		if best := highestIDWhere(complete, func(c candidate) bool {
			return len(c.build.Tags) > 0
		}); best != nil {
			return best.build
		}
		// 2c: highest-id complete candidate.
		return highestID(complete).build
	}

	// Rule 3: no complete candidate; return the highest-id candidate
	// overall, logged as a warning.
	logWarn("no COMPLETE candidate; selecting highest-id candidate overall", "count", len(candidates))
	return highestID(candidates).build
}

func highestIDWhere(candidates []candidate, pred func(candidate) bool) *candidate {
	var best *candidate
	for i := range candidates {
		c := candidates[i]
		if !pred(c) {
			continue
		}
		if best == nil || c.build.Info.ID > best.build.Info.ID {
			best = &c
		}
	}
	return best
}

func highestID(candidates []candidate) candidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.build.Info.ID > best.build.Info.ID {
			best = c
		}
	}
	return best
}

// SelectPncArtifact implements the PNC analogue of §4.4: pick the artifact
// with the greatest quality score, breaking ties by "has at least one build
// record id", else the first.
func SelectPncArtifact(artifacts []domain.PncArtifact) domain.PncArtifact {
	best := artifacts[0]
	for _, a := range artifacts[1:] {
		if a.Quality.Rank() > best.Quality.Rank() {
			best = a
			continue
		}
		if a.Quality.Rank() == best.Quality.Rank() {
			if len(a.BuildRecordIDs) > 0 && len(best.BuildRecordIDs) == 0 {
				best = a
			}
		}
	}
	return best
}
