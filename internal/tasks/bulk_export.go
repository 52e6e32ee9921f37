package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/sinewave/internal/client"
	"github.com/desertthunder/sinewave/internal/formatter"
	"github.com/desertthunder/sinewave/internal/models"
	"github.com/desertthunder/sinewave/internal/shared"
	"golang.org/x/time/rate"
)

const (
	DefaultWorkers   = 5
	MaxWorkers       = 10
	DefaultRateLimit = 5.0
)

// ExportOpts contains configuration for bulk playlist exports.
type ExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: sinewave_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5, max: 10)
	RateLimit  float64 // Requests per second shared by all workers (default: 5)
}

type exportJob struct {
	index int
	id    int64
}

type indexedResult struct {
	index  int
	result formatter.ExportResult
}

// Export exports playlists concurrently with rate limiting and progress tracking.
//
// Each worker fetches a playlist through the authenticated client and writes it
// in the requested format. Failures are recorded per playlist. Results keep the
// order of ids. A manifest is written to {OutputDir}/export_manifest.json even
// when some playlists fail.
func (e *LibraryEngine) Export(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []int64,
	opts ExportOpts,
) (*formatter.BulkExportResult, error) {
	if e.playlists == nil {
		return nil, fmt.Errorf("%w: playlist service not initialized", shared.ErrServiceUnavailable)
	}

	opts = opts.withDefaults()
	if !formatter.ValidFormat(opts.Format) {
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, opts.Format)
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &formatter.BulkExportResult{
		TotalPlaylists:  len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]formatter.ExportResult, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	// The first session-ended failure stops every worker.
	wctx, stop := context.WithCancelCause(ctx)
	defer stop(nil)

	jobs := make(chan exportJob, len(ids))
	results := make(chan indexedResult, len(ids))

	for i, id := range ids {
		jobs <- exportJob{index: i, id: id}
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(wctx, stop, &wg, limiter, jobs, results, opts)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	e.sendProgress(prog, exportStartedUpdate(len(ids)))

	completed := 0
	for res := range results {
		completed++
		result.Results[res.index] = res.result

		if res.result.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.result.PlaylistName, len(res.result.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(ids), res.result.PlaylistName, res.result.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	e.sendProgress(prog, manifestUpdate(manifestPath))
	if err := formatter.WriteBulkExportManifest(result, opts.Format, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (o ExportOpts) withDefaults() ExportOpts {
	if o.Format == "" {
		o.Format = formatter.FormatJSON
	}
	if o.OutputDir == "" {
		o.OutputDir = fmt.Sprintf("sinewave_export_%d", time.Now().Unix())
	}
	if o.NumWorkers <= 0 {
		o.NumWorkers = DefaultWorkers
	}
	if o.NumWorkers > MaxWorkers {
		o.NumWorkers = MaxWorkers
	}
	if o.RateLimit <= 0 {
		o.RateLimit = DefaultRateLimit
	}
	return o
}

// exportWorker drains jobs, producing exactly one result per job.
func (e *LibraryEngine) exportWorker(
	ctx context.Context,
	stop context.CancelCauseFunc,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan exportJob,
	results chan<- indexedResult,
	opts ExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		res := e.exportPlaylist(ctx, limiter, job.id, opts)
		if client.IsSessionEnded(res.Error) {
			stop(res.Error)
		}
		results <- indexedResult{index: job.index, result: res}
	}
}

func (e *LibraryEngine) exportPlaylist(ctx context.Context, limiter *rate.Limiter, id int64, opts ExportOpts) formatter.ExportResult {
	result := formatter.ExportResult{
		PlaylistID:   id,
		PlaylistName: fmt.Sprintf("Unknown (%d)", id),
	}

	if err := limiter.Wait(ctx); err != nil {
		result.Error = context.Cause(ctx)
		if result.Error == nil {
			result.Error = err
		}
		return result
	}

	p, err := e.playlists.Get(ctx, id)
	if err != nil {
		switch {
		case client.IsSessionEnded(err):
			result.Error = err
		case client.IsSessionEnded(context.Cause(ctx)):
			result.Error = context.Cause(ctx)
		default:
			result.Error = fmt.Errorf("failed to fetch playlist: %w", err)
		}
		return result
	}
	result.PlaylistName = p.Name
	e.cachePlaylist(p)

	files, err := writePlaylist(p, opts)
	if err != nil {
		result.Error = err
		return result
	}
	result.Files = files
	result.Success = true
	return result
}

func writePlaylist(p *models.Playlist, opts ExportOpts) ([]string, error) {
	base := filepath.Join(opts.OutputDir, formatter.BaseName(p))

	switch opts.Format {
	case formatter.FormatCSV:
		res, err := formatter.WriteCSVExport(p, base)
		if err != nil {
			return nil, fmt.Errorf("CSV export failed: %w", err)
		}
		return []string{res.SongsFile, res.MetadataFile}, nil
	case formatter.FormatMarkdown:
		res, err := formatter.WriteMarkdownExport(p, base)
		if err != nil {
			return nil, fmt.Errorf("markdown export failed: %w", err)
		}
		return res.Files, nil
	case formatter.FormatText:
		path, err := formatter.WriteTextExport(p, base+"_songs.txt")
		if err != nil {
			return nil, fmt.Errorf("text export failed: %w", err)
		}
		return []string{path}, nil
	default:
		path, err := formatter.WriteJSONExport(p, base+".json")
		if err != nil {
			return nil, fmt.Errorf("JSON export failed: %w", err)
		}
		return []string{path}, nil
	}
}
