package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/vivilo-commits/armonyco-v1-sub000/internal/model"
	"github.com/vivilo-commits/armonyco-v1-sub000/internal/source"
)

// LoadResult holds the output of the full data loading pipeline.
type LoadResult struct {
	TenantID     string
	Executions   []model.ExecutionRecord
	Transactions []model.TransactionRecord
	Messages     []model.ChatMessage
	Cashflow     *model.CashflowSummary

	TotalFiles  int
	ParsedFiles int
	ParseErrors int
	FileErrors  int
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses every export file of one tenant.
// It uses a bounded worker pool for parallel parsing.
func Load(dataDir, tenantID string, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(dataDir, tenantID)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dataDir, err)
	}

	result := &LoadResult{
		TenantID:   tenantID,
		TotalFiles: len(files),
	}
	loadCashflow(result, dataDir, tenantID)

	if len(files) == 0 {
		return result, nil
	}

	for _, pr := range parseAll(files, 0, len(files), progressFn) {
		if pr.Err != nil {
			result.FileErrors++
			continue
		}
		result.ParsedFiles++
		result.ParseErrors += pr.ParseErrors
		result.add(pr.Executions, pr.Transactions, pr.Messages)
	}
	result.dedup()

	return result, nil
}

// parseAll parses files with a bounded worker pool. Results keep the order
// of files. Progress is reported offset by done out of total.
func parseAll(files []source.DiscoveredFile, done, total int, progressFn ProgressFunc) []source.ParseResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]source.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n)+done, total)
				}
			}
		}()
	}

	wg.Wait()
	return results
}

func loadCashflow(result *LoadResult, dataDir, tenantID string) {
	path, ok := source.FindCashflow(dataDir, tenantID)
	if !ok {
		return
	}
	cf, err := source.ParseCashflow(path)
	if err != nil {
		result.FileErrors++
		return
	}
	result.Cashflow = cf
}

func (r *LoadResult) add(execs []model.ExecutionRecord, txs []model.TransactionRecord, msgs []model.ChatMessage) {
	r.Executions = append(r.Executions, execs...)
	r.Transactions = append(r.Transactions, txs...)
	r.Messages = append(r.Messages, msgs...)
}

// dedup drops execution and transaction ids repeated across files, keeping
// the one from the last file in scan order.
func (r *LoadResult) dedup() {
	r.Executions = dedupByID(r.Executions, func(e model.ExecutionRecord) string { return e.ID })
	r.Transactions = dedupByID(r.Transactions, func(t model.TransactionRecord) string { return t.ID })
}

func dedupByID[T any](items []T, id func(T) string) []T {
	idx := make(map[string]int, len(items))
	out := items[:0:0]
	for _, it := range items {
		key := id(it)
		if key == "" {
			out = append(out, it)
			continue
		}
		if i, ok := idx[key]; ok {
			out[i] = it
			continue
		}
		idx[key] = len(out)
		out = append(out, it)
	}
	return out
}
