package store

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"readvideo/internal/model"
)

const (
	catalogFileName = "video_list.json"
	summaryFileName = "processing_summary.json"
)

func CatalogPath(targetDir string) string {
	return filepath.Join(targetDir, catalogFileName)
}

func SummaryPath(targetDir string) string {
	return filepath.Join(targetDir, summaryFileName)
}

// SaveCatalogSnapshot records the enumerated item list at enumeration
// time. The snapshot is a point-in-time record; resume never re-validates
// it against the live source.
func SaveCatalogSnapshot(targetDir string, target model.TargetInfo, items []model.ContentItem) error {
	snap := model.CatalogSnapshot{
		Target:      target,
		TotalItems:  len(items),
		Items:       items,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	return WriteJSON(CatalogPath(targetDir), snap)
}

func LoadCatalogSnapshot(targetDir string) (model.CatalogSnapshot, error) {
	var snap model.CatalogSnapshot
	if err := ReadJSON(CatalogPath(targetDir), &snap); err != nil {
		return model.CatalogSnapshot{}, err
	}
	return snap, nil
}

func SaveSummary(targetDir string, summary model.BatchSummary) error {
	return WriteJSON(SummaryPath(targetDir), summary)
}

func LoadSummary(targetDir string) (model.BatchSummary, error) {
	var summary model.BatchSummary
	if err := ReadJSON(SummaryPath(targetDir), &summary); err != nil {
		return model.BatchSummary{}, err
	}
	return summary, nil
}

// ListTargetDirs returns the batch target directories under root: any
// subdirectory holding a catalog snapshot or a status record.
func ListTargetDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	dirs := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if fileExists(CatalogPath(dir)) || fileExists(StatusPath(dir)) {
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
