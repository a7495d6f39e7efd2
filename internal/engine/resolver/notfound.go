package resolver

import (
	"strings"

	"go.trai.ch/buildfinder/internal/core/domain"
)

// NotFoundTracker owns the synthetic (NONE, 0) bucket and nested-archive
// parent attribution, per §4.5.
type NotFoundTracker struct {
	bucket *domain.Build
	output map[domain.BuildSystemKey]*domain.Build
}

// NewNotFoundTracker creates the tracker over the (NONE, 0) bucket already
// present in output (created at Resolver construction, per §3's lifecycle).
func NewNotFoundTracker(output map[domain.BuildSystemKey]*domain.Build) *NotFoundTracker {
	bucket := output[domain.NotFoundKey]
	return &NotFoundTracker{bucket: bucket, output: output}
}

// AddWithoutBuild records a checksum with no matching remote archive. If a
// LocalArchive in bucket 0 already carries this checksum, its filenames are
// extended; otherwise a synthetic archive is created with a strictly
// negative id.
func (t *NotFoundTracker) AddWithoutBuild(checksum domain.Checksum, filenames []string) {
	for i := range t.bucket.Archives {
		a := &t.bucket.Archives[i]
		if hasChecksum(a.Checksums, checksum) {
			a.Filenames = unionStrings(a.Filenames, filenames)
			return
		}
	}

	syntheticID := -(int64(len(t.bucket.Archives)) + 1)
	t.bucket.Archives = append(t.bucket.Archives, domain.LocalArchive{
		Archive: &domain.RemoteArchive{
			ArchiveID: syntheticID,
			BuildID:   0,
			Filename:  "not found",
		},
		Filenames: append([]string(nil), filenames...),
		Checksums: []domain.Checksum{checksum},
	})
}

// AddErroredFilename records a filename the analyzer could not hash at all
// (§4.6.j), as a checksum-less bucket-0 entry keyed only by filename.
func (t *NotFoundTracker) AddErroredFilename(filename string) {
	for i := range t.bucket.Archives {
		a := &t.bucket.Archives[i]
		if a.Archive != nil && a.Archive.Filename == "not found" && len(a.Checksums) == 0 {
			a.Filenames = unionStrings(a.Filenames, []string{filename})
			return
		}
	}
	syntheticID := -(int64(len(t.bucket.Archives)) + 1)
	t.bucket.Archives = append(t.bucket.Archives, domain.LocalArchive{
		Archive: &domain.RemoteArchive{
			ArchiveID: syntheticID,
			BuildID:   0,
			Filename:  "not found",
		},
		Filenames: []string{filename},
	})
}

// Promote removes any LocalArchive in bucket 0 whose checksums include
// checksum, called after any successful resolution (invariant #3, §3).
func (t *NotFoundTracker) Promote(checksum domain.Checksum) {
	kept := t.bucket.Archives[:0]
	for _, a := range t.bucket.Archives {
		if hasChecksum(a.Checksums, checksum) {
			continue
		}
		kept = append(kept, a)
	}
	t.bucket.Archives = kept
}

// ResolveParent implements the nested-archive walk of §4.5: for filenames of
// the form "outer!/inner" (possibly nested), walk upward splitting on the
// last "!/" and search the output map. If an enclosing archive is found,
// filename is recorded in that archive's UnmatchedFilenames and the parent
// filename is returned. Returns "" if no enclosing archive exists.
func (t *NotFoundTracker) ResolveParent(filename string) string {
	remaining := filename
	for {
		idx := strings.LastIndex(remaining, "!/")
		if idx < 0 {
			return ""
		}
		parent := remaining[:idx]
		if build, archive := t.findArchiveByFilename(parent); build != nil {
			archive.UnmatchedFilenames = unionStrings(archive.UnmatchedFilenames, []string{filename})
			return parent
		}
		remaining = parent
	}
}

func (t *NotFoundTracker) findArchiveByFilename(filename string) (*domain.Build, *domain.LocalArchive) {
	for key, build := range t.output {
		if key == domain.NotFoundKey {
			continue
		}
		for i := range build.Archives {
			a := &build.Archives[i]
			for _, f := range a.Filenames {
				if f == filename {
					return build, a
				}
			}
		}
	}
	return nil, nil
}

func hasChecksum(checksums []domain.Checksum, target domain.Checksum) bool {
	for _, c := range checksums {
		if c.Type == target.Type && c.Value == target.Value {
			return true
		}
	}
	return false
}

func unionStrings(existing []string, add []string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		seen[s] = struct{}{}
	}
	result := existing
	for _, s := range add {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		result = append(result, s)
	}
	return result
}
