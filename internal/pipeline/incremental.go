package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/source"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	RunID     string
	CacheHits int
	Reparsed  int
	Removed   int
}

// LoadWithCache discovers a tenant's files, diffs them against the cache,
// parses only changed files, and returns the combined result set. Files
// that disappeared since the last run are purged from the cache.
func LoadWithCache(dataDir, tenantID string, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	started := time.Now()

	files, err := source.ScanDir(dataDir, tenantID)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dataDir, err)
	}

	result := &CachedLoadResult{
		LoadResult: LoadResult{
			TenantID:   tenantID,
			TotalFiles: len(files),
		},
	}
	loadCashflow(&result.LoadResult, dataDir, tenantID)

	tracked, err := cache.GetTrackedFiles(tenantID)
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	// Diff: partition into changed and unchanged
	var toReparse []source.DiscoveredFile
	unchanged := make(map[string]struct{})
	seen := make(map[string]struct{}, len(files))

	for _, f := range files {
		seen[f.Path] = struct{}{}
		info, err := os.Stat(f.Path)
		if err != nil {
			continue
		}

		cached, ok := tracked[f.Path]
		if ok && cached.Kind == string(f.Kind) &&
			cached.MtimeNs == info.ModTime().UnixNano() && cached.SizeBytes == info.Size() {
			unchanged[f.Path] = struct{}{}
		} else {
			toReparse = append(toReparse, f)
		}
	}

	for path := range tracked {
		if _, ok := seen[path]; ok {
			continue
		}
		if err := cache.DeleteFile(path); err != nil {
			return nil, fmt.Errorf("purging %s: %w", path, err)
		}
		result.Removed++
	}

	result.CacheHits = len(unchanged)
	result.Reparsed = len(toReparse)

	var cached map[string]*store.Records
	if len(unchanged) > 0 {
		cached, err = cache.LoadTenant(tenantID)
		if err != nil {
			return nil, fmt.Errorf("loading cached records: %w", err)
		}
	}

	parsed := make(map[string]source.ParseResult, len(toReparse))
	if len(toReparse) > 0 {
		for i, pr := range parseAll(toReparse, result.CacheHits, result.TotalFiles, progressFn) {
			parsed[toReparse[i].Path] = pr
		}
	}

	// Merge in scan order so cross-file dedup matches an uncached load.
	for _, f := range files {
		if _, ok := unchanged[f.Path]; ok {
			result.ParsedFiles++
			if recs, ok := cached[f.Path]; ok {
				result.add(recs.Executions, recs.Transactions, recs.Messages)
			}
			continue
		}

		pr, ok := parsed[f.Path]
		if !ok {
			continue
		}
		if pr.Err != nil {
			result.FileErrors++
			continue
		}
		result.ParsedFiles++
		result.ParseErrors += pr.ParseErrors
		result.add(pr.Executions, pr.Transactions, pr.Messages)

		info, err := os.Stat(f.Path)
		if err == nil {
			recs := store.Records{
				Executions:   pr.Executions,
				Transactions: pr.Transactions,
				Messages:     pr.Messages,
			}
			_ = cache.SaveFile(tenantID, string(f.Kind), f.Path, recs, info.ModTime().UnixNano(), info.Size())
		}
	}
	result.dedup()

	run, err := cache.RecordRun(store.IngestRun{
		TenantID:    tenantID,
		StartedAt:   started,
		FinishedAt:  time.Now(),
		TotalFiles:  result.TotalFiles,
		CacheHits:   result.CacheHits,
		Reparsed:    result.Reparsed,
		ParseErrors: result.ParseErrors,
		FileErrors:  result.FileErrors,
	})
	if err != nil {
		return nil, err
	}
	result.RunID = run.ID

	return result, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "armonyco")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "armonyco")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "records.db")
}
