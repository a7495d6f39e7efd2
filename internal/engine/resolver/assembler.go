package resolver

import (
	"sort"

	"go.trai.ch/buildfinder/internal/core/domain"
)

// Result is the immutable view ResultAssembler produces once the analyzer's
// queue is drained and the sentinel received, per §4.7.
type Result struct {
	// All is every entry in the output map, sorted by numeric build id
	// ascending, including the synthetic (NONE, 0) bucket.
	All []*domain.Build
	// Found excludes the synthetic (NONE, 0) bucket.
	Found []*domain.Build
	// FoundChecksums maps a found checksum's hex value to the filenames
	// it was found under.
	FoundChecksums map[string][]string
	// NotFoundChecksums maps an unresolved checksum's hex value to the
	// filenames it was reported under.
	NotFoundChecksums map[string][]string
}

// Assemble builds the final Result from the Resolver's output map and its
// per-checksum bookkeeping.
func Assemble(output map[domain.BuildSystemKey]*domain.Build, foundChecksums, notFoundChecksums map[string][]string) Result {
	all := make([]*domain.Build, 0, len(output))
	for _, b := range output {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Info.ID < all[j].Info.ID })

	found := make([]*domain.Build, 0, len(all))
	for _, b := range all {
		if b.Key == domain.NotFoundKey {
			continue
		}
		sort.Slice(b.Archives, func(i, j int) bool {
			return b.Archives[i].SortKey() < b.Archives[j].SortKey()
		})
		found = append(found, b)
	}

	return Result{
		All:               all,
		Found:             found,
		FoundChecksums:    foundChecksums,
		NotFoundChecksums: notFoundChecksums,
	}
}

// NotFoundFilenames flattens the synthetic bucket's archives into a single
// filename list, used by callers reporting on unresolved content directly
// from a Result rather than the checksum indices.
func (r Result) NotFoundFilenames() []string {
	for _, b := range r.All {
		if b.Key != domain.NotFoundKey {
			continue
		}
		var names []string
		for _, a := range b.Archives {
			names = append(names, a.Filenames...)
		}
		return names
	}
	return nil
}
