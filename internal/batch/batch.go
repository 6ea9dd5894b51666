// Package batch orchestrates whole-target runs: enumerate a channel or
// user's catalog, filter it, and process the remaining items one at a
// time, persisting each outcome before the next item starts.
package batch

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"readvideo/internal/errclass"
	"readvideo/internal/model"
	"readvideo/internal/platform"
	"readvideo/internal/store"
	"readvideo/internal/targets"
)

// Processor handles one enumerated item. Satisfied by the platform
// handlers.
type Processor interface {
	ProcessItem(item model.ContentItem, outputDir string, opts platform.Options) (model.ProcessingResult, error)
}

// Lister enumerates a target URL into content items.
type Lister func(sourceURL, proxy string) ([]model.ContentItem, error)

// Options tune one batch run.
type Options struct {
	// StartDate drops items published before this date (YYYY-MM-DD).
	// Items with no known date are dropped when a cutoff is set.
	StartDate string
	// MaxItems keeps at most the N earliest items after date filtering.
	// Zero means no cap.
	MaxItems int

	Language      string
	KeepTempFiles bool
}

// Orchestrator drives one target through the run states: enumerate,
// filter, process, summarize. Items run strictly sequentially; only a
// Fatal error aborts a run.
type Orchestrator struct {
	OutputDir string
	Proxy     string
	List      Lister
	Processor Processor
	Progress  io.Writer

	now      func() time.Time
	newRunID func() string
}

func NewOrchestrator(outputDir, proxy string, list Lister, processor Processor, progress io.Writer) *Orchestrator {
	if progress == nil {
		progress = io.Discard
	}
	return &Orchestrator{
		OutputDir: outputDir,
		Proxy:     proxy,
		List:      list,
		Processor: processor,
		Progress:  progress,
		now:       time.Now,
		newRunID:  uuid.NewString,
	}
}

// Run executes one batch against the target. The returned error is
// non-nil only for Fatal conditions (enumeration failure, locked target,
// missing collaborators); per-item failures land in the summary.
func (o *Orchestrator) Run(target model.TargetInfo, opts Options) (model.BatchSummary, error) {
	if o.List == nil || o.Processor == nil {
		return model.BatchSummary{}, errclass.Configuration("batch.run", "lister and processor are required")
	}

	dir := targets.Dir(o.OutputDir, target)
	lock, err := store.AcquireTargetLock(dir)
	if err != nil {
		return model.BatchSummary{}, err
	}
	defer lock.Release()

	status, err := store.OpenStatus(dir)
	if err != nil {
		return model.BatchSummary{}, err
	}

	startedAt := o.stamp()
	fmt.Fprintf(o.Progress, "enumerating %s (%s)\n", target.DisplayName, target.URL)
	items, err := o.List(target.URL, o.Proxy)
	if err != nil {
		return model.BatchSummary{}, fmt.Errorf("enumerate %s: %w", target.DisplayName, err)
	}
	if err := store.SaveCatalogSnapshot(dir, target, items); err != nil {
		return model.BatchSummary{}, err
	}

	selected := FilterItems(items, opts.StartDate, opts.MaxItems)
	fmt.Fprintf(o.Progress, "%d items enumerated, %d selected\n", len(items), len(selected))

	summary := model.BatchSummary{
		RunID:     o.runID(),
		Target:    target,
		Requested: len(selected),
		StartedAt: startedAt,
	}
	for i, item := range selected {
		if status.IsCompleted(item.ID) {
			summary.Skipped++
			fmt.Fprintf(o.Progress, "[%d/%d] %s: already completed, skipping\n", i+1, len(selected), item.ID)
			continue
		}
		if status.IsSkipped(item.ID) {
			summary.Skipped++
			fmt.Fprintf(o.Progress, "[%d/%d] %s: marked skipped, not attempting\n", i+1, len(selected), item.ID)
			continue
		}

		if item.URL == "" {
			item.URL = itemURL(target.Platform, item.ID)
		}
		fmt.Fprintf(o.Progress, "[%d/%d] %s %s\n", i+1, len(selected), item.ID, item.Title)

		res, err := o.Processor.ProcessItem(item, dir, platform.Options{
			Language:      opts.Language,
			KeepTempFiles: opts.KeepTempFiles,
		})
		if err != nil {
			return summary, err
		}

		summary.Processed++
		summary.Results = append(summary.Results, res)
		if res.Success {
			summary.Completed++
			if err := status.MarkCompleted(item.ID); err != nil {
				return summary, err
			}
			fmt.Fprintf(o.Progress, "  ok via %s -> %s\n", res.Method, res.OutputFile)
		} else {
			summary.Failed++
			if err := status.MarkFailed(item.ID); err != nil {
				return summary, err
			}
			fmt.Fprintf(o.Progress, "  failed: %s\n", res.Error)
		}
	}

	summary.FinishedAt = o.stamp()
	if err := store.SaveSummary(dir, summary); err != nil {
		return summary, err
	}
	fmt.Fprintf(o.Progress, "done: %d completed, %d failed, %d skipped\n",
		summary.Completed, summary.Failed, summary.Skipped)
	return summary, nil
}

// FilterItems applies the date cutoff, orders the survivors oldest first,
// and caps them at maxItems. Runs against the same catalog always select
// the same items in the same order.
func FilterItems(items []model.ContentItem, startDate string, maxItems int) []model.ContentItem {
	out := make([]model.ContentItem, 0, len(items))
	for _, item := range items {
		if startDate != "" && (item.UploadDate == "" || item.UploadDate < startDate) {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].UploadDate, out[j].UploadDate
		if a == "" || b == "" {
			// Undated items sort after dated ones.
			return b == "" && a != ""
		}
		return a < b
	})
	if maxItems > 0 && len(out) > maxItems {
		out = out[:maxItems]
	}
	return out
}

func itemURL(platformName, id string) string {
	switch platformName {
	case "bilibili":
		return "https://www.bilibili.com/video/" + id
	default:
		return "https://www.youtube.com/watch?v=" + id
	}
}

func (o *Orchestrator) stamp() string {
	now := time.Now
	if o.now != nil {
		now = o.now
	}
	return now().UTC().Format(time.RFC3339)
}

func (o *Orchestrator) runID() string {
	if o.newRunID != nil {
		return o.newRunID()
	}
	return uuid.NewString()
}
