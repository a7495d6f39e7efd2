package resolver

import (
	"context"
	"sync"

	"go.trai.ch/buildfinder/internal/core/domain"
	"go.trai.ch/buildfinder/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolver is the top-level orchestrator described in §4.6: it drains the
// analyzer's queue, partitions and resolves checksums against KOJI and PNC,
// and mutates the output map under the Resolver goroutine only. Worker
// goroutines return values; they never touch shared state directly (§5).
type Resolver struct {
	config domain.BuildConfig
	koji   ports.RemoteCatalog
	pnc    ports.PncCatalog
	cache  ports.Cache
	queue  ports.ChecksumQueue
	logger ports.Logger
	tracer ports.Tracer

	gate     *Gate
	gateOnce sync.Once
	gateErr  error

	output            map[domain.BuildSystemKey]*domain.Build
	notFound          *NotFoundTracker
	foundChecksums    map[string][]string
	notFoundChecksums map[string][]string
	fileChecksums     map[string][]domain.Checksum
}

// New constructs a Resolver with the (NONE, 0) synthetic bucket already
// populated in the output map, per §3's lifecycle rule.
func New(config domain.BuildConfig, koji ports.RemoteCatalog, pnc ports.PncCatalog, cache ports.Cache, queue ports.ChecksumQueue, logger ports.Logger, tracer ports.Tracer) *Resolver {
	output := map[domain.BuildSystemKey]*domain.Build{
		domain.NotFoundKey: domain.NewSyntheticBuild(),
	}
	return &Resolver{
		config:            config,
		koji:              koji,
		pnc:               pnc,
		cache:             cache,
		queue:             queue,
		logger:            logger,
		tracer:            tracer,
		output:            output,
		notFound:          NewNotFoundTracker(output),
		foundChecksums:    make(map[string][]string),
		notFoundChecksums: make(map[string][]string),
		fileChecksums:     make(map[string][]domain.Checksum),
	}
}

// Run drains the analyzer's queue until the sentinel arrives, resolving each
// drained batch in order, and returns the assembled Result. If the queue
// wait is interrupted (ctx canceled) between batches, the loop restores no
// special flag (Go's context model has none to restore) and simply stops at
// the next opportunity, returning whatever ctx.Err() reports.
func (r *Resolver) Run(ctx context.Context) (Result, error) {
	for {
		entries, err := r.queue.Take()
		if err != nil {
			return Result{}, zerr.Wrap(err, "failed to read from checksum queue")
		}

		batch, erroredFilenames, sentinel := splitEntries(entries)

		if len(batch) > 0 || len(erroredFilenames) > 0 {
			if err := r.resolveBatch(ctx, batch, erroredFilenames); err != nil {
				return Result{}, err
			}
		}

		if sentinel {
			break
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
	}

	return Assemble(r.output, r.foundChecksums, r.notFoundChecksums), nil
}

// splitEntries separates a drained batch into resolvable checksums,
// analyzer-reported errored filenames, and whether the sentinel was seen.
func splitEntries(entries []ports.QueueEntry) (checksums []domain.Checksum, erroredFilenames []string, sentinel bool) {
	for _, e := range entries {
		switch {
		case e.Sentinel:
			sentinel = true
		case e.ErroredFilename != "":
			erroredFilenames = append(erroredFilenames, e.ErroredFilename)
		default:
			checksums = append(checksums, e.Checksum)
		}
	}
	return checksums, erroredFilenames, sentinel
}

// resolveBatch implements the per-batch dispatch of §4.6: md5-typed entries
// are accumulated into a multimap and resolved via PNC first (if
// configured), falling through to KOJI for anything PNC left unresolved.
func (r *Resolver) resolveBatch(ctx context.Context, checksums []domain.Checksum, erroredFilenames []string) error {
	ctx, span := r.tracer.Start(ctx, "resolver.resolve_batch")
	defer span.End()
	span.SetAttribute("checksum_count", len(checksums))

	multimap := make(map[domain.Checksum][]string)
	for _, c := range checksums {
		r.fileChecksums[c.Filename] = append(r.fileChecksums[c.Filename], c)
		if c.Type != domain.MD5 {
			continue
		}
		multimap[c] = unionStrings(multimap[c], []string{c.Filename})
	}

	var err error
	if r.config.UsesPNC() {
		var remaining map[domain.Checksum][]string
		remaining, err = r.findBuildsPnc(ctx, multimap)
		if err == nil && len(remaining) > 0 {
			err = r.findBuilds(ctx, remaining)
		}
	} else {
		err = r.findBuilds(ctx, multimap)
	}
	if err != nil {
		span.RecordError(err)
		return err
	}

	for _, fn := range erroredFilenames {
		r.notFound.AddErroredFilename(fn)
	}
	r.resolveNestedArchives()

	return nil
}

// resolveNestedArchives implements §4.6.k: for each filename still in
// bucket 0, attempt to attribute it to an enclosing archive already present
// in the output map.
func (r *Resolver) resolveNestedArchives() {
	bucket := r.output[domain.NotFoundKey]
	kept := bucket.Archives[:0]
	for _, a := range bucket.Archives {
		var survivingFilenames []string
		for _, f := range a.Filenames {
			if parent := r.notFound.ResolveParent(f); parent != "" {
				continue // attributed to an enclosing archive; drop from bucket 0
			}
			survivingFilenames = append(survivingFilenames, f)
		}
		if len(survivingFilenames) == 0 {
			continue // now-empty LocalArchive is removed
		}
		a.Filenames = survivingFilenames
		kept = append(kept, a)
	}
	bucket.Archives = kept
}

// ensureGate lazily initializes archiveExtensions via RemoteCatalog, per
// §4.6.a. Only ever called from the Resolver goroutine, so sync.Once is
// belt-and-braces rather than load-bearing.
func (r *Resolver) ensureGate(ctx context.Context) (*Gate, error) {
	r.gateOnce.Do(func() {
		catalogExt, err := r.koji.ArchiveExtensions(ctx)
		if err != nil {
			r.gateErr = zerr.Wrap(err, "failed to fetch archive extensions")
			return
		}
		r.gate = NewGate(catalogExt, r.config.ArchiveExtensions)
	})
	return r.gate, r.gateErr
}

// getOrCreateBuild returns the Build already in the output map for key, or
// nil if absent.
func (r *Resolver) getOrCreateBuild(key domain.BuildSystemKey) (*domain.Build, bool) {
	b, ok := r.output[key]
	return b, ok
}

// promoteBuild inserts build into the output map under key, satisfying
// invariant #2 of §3: metadata must already be populated by the caller.
func (r *Resolver) promoteBuild(key domain.BuildSystemKey, build *domain.Build) {
	build.Key = key
	r.output[key] = build
}

// addArchiveToBuild implements §4.6's addArchiveToBuild: unions filenames
// into an existing LocalArchive sharing the archive id, or creates a new
// one seeded from the analyzer's file-to-checksums map, then re-sorts the
// build's archives by filename ascending.
func addArchiveToBuild(build *domain.Build, archive domain.RemoteArchive, filenames []string, fileChecksums map[string][]domain.Checksum) {
	for i := range build.Archives {
		a := &build.Archives[i]
		if a.Archive != nil && a.Archive.ArchiveID == archive.ArchiveID {
			a.Filenames = unionStrings(a.Filenames, filenames)
			return
		}
	}

	var checksums []domain.Checksum
	for _, f := range filenames {
		checksums = append(checksums, fileChecksums[f]...)
	}

	build.Archives = append(build.Archives, domain.LocalArchive{
		Archive:   &archive,
		Filenames: append([]string(nil), filenames...),
		Checksums: checksums,
	})
	sortArchivesByFilename(build)
}

// addRpmToBuild is addArchiveToBuild's RPM analogue, keyed by rpm id.
func addRpmToBuild(build *domain.Build, rpm domain.RpmInfo, filenames []string, fileChecksums map[string][]domain.Checksum) {
	for i := range build.Archives {
		a := &build.Archives[i]
		if a.Rpm != nil && a.Rpm.ID == rpm.ID {
			a.Filenames = unionStrings(a.Filenames, filenames)
			return
		}
	}

	var checksums []domain.Checksum
	for _, f := range filenames {
		checksums = append(checksums, fileChecksums[f]...)
	}

	build.Archives = append(build.Archives, domain.LocalArchive{
		Rpm:             &rpm,
		Filenames:       append([]string(nil), filenames...),
		Checksums:       checksums,
		BuiltFromSource: true,
	})
	sortArchivesByFilename(build)
}

func sortArchivesByFilename(build *domain.Build) {
	archives := build.Archives
	for i := 1; i < len(archives); i++ {
		for j := i; j > 0 && archives[j-1].SortKey() > archives[j].SortKey(); j-- {
			archives[j-1], archives[j] = archives[j], archives[j-1]
		}
	}
}

// recordFound updates the found-checksum index and NotFoundTracker for a
// checksum that was successfully attributed to a build.
func (r *Resolver) recordFound(checksum domain.Checksum, filenames []string) {
	r.foundChecksums[checksum.Value] = unionStrings(r.foundChecksums[checksum.Value], filenames)
	delete(r.notFoundChecksums, checksum.Value)
	r.notFound.Promote(checksum)
}

// recordNotFound updates the not-found-checksum index and bucket 0 for a
// checksum with no matching remote content.
func (r *Resolver) recordNotFound(checksum domain.Checksum, filenames []string) {
	if _, ok := r.foundChecksums[checksum.Value]; ok {
		return
	}
	r.notFoundChecksums[checksum.Value] = unionStrings(r.notFoundChecksums[checksum.Value], filenames)
	r.notFound.AddWithoutBuild(checksum, filenames)
}
