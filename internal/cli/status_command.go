package cli

import (
	"flag"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"readvideo/internal/config"
	"readvideo/internal/model"
	"readvideo/internal/store"
)

type targetStatusRow struct {
	Target     string             `json:"target"`
	Completed  int                `json:"completed"`
	Failed     int                `json:"failed"`
	Skipped    int                `json:"skipped"`
	LastUpdate string             `json:"last_update,omitempty"`
	Record     model.StatusRecord `json:"-"`
}

func runStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultPath(), "config file path")
	outputDir := fs.String("output", "", "output directory (default from config)")
	targetName := fs.String("target", "", "target directory name (e.g. youtube_@somechannel)")
	skipID := fs.String("skip", "", "mark an item skipped so batches stop attempting it (requires --target)")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	root := cfg.OutputDir
	if strings.TrimSpace(*outputDir) != "" {
		root = strings.TrimSpace(*outputDir)
	}

	if strings.TrimSpace(*targetName) != "" {
		return statusForTarget(filepath.Join(root, strings.TrimSpace(*targetName)), strings.TrimSpace(*skipID), *jsonOut)
	}
	if strings.TrimSpace(*skipID) != "" {
		return fmt.Errorf("--skip requires --target")
	}
	return statusRollup(root, *jsonOut)
}

func statusRollup(root string, jsonOut bool) error {
	dirs, err := store.ListTargetDirs(root)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		if jsonOut {
			return printJSON([]targetStatusRow{})
		}
		fmt.Println("no batch targets found")
		fmt.Println("start here:")
		fmt.Println("  readvideo channel @somechannel")
		fmt.Println("  readvideo user <bilibili-uid>")
		return nil
	}

	rows := make([]targetStatusRow, 0, len(dirs))
	for _, dir := range dirs {
		status, err := store.OpenStatus(dir)
		if err != nil {
			return err
		}
		rec := status.Record()
		rows = append(rows, targetStatusRow{
			Target:     filepath.Base(dir),
			Completed:  len(rec.Completed),
			Failed:     len(rec.Failed),
			Skipped:    len(rec.Skipped),
			LastUpdate: rec.LastUpdate,
			Record:     rec,
		})
	}
	if jsonOut {
		return printJSON(rows)
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"TARGET", "COMPLETED", "FAILED", "SKIPPED", "LAST UPDATE"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row.Target, row.Completed, row.Failed, row.Skipped, row.LastUpdate})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	fmt.Println(tw.Render())
	return nil
}

func statusForTarget(dir, skipID string, jsonOut bool) error {
	status, err := store.OpenStatus(dir)
	if err != nil {
		return err
	}

	if skipID != "" {
		if status.IsCompleted(skipID) {
			return fmt.Errorf("item %s is already completed; not marking skipped", skipID)
		}
		if err := status.MarkSkipped(skipID); err != nil {
			return err
		}
		if !jsonOut {
			fmt.Printf("marked skipped: %s\n", skipID)
		}
	}

	rec := status.Record()
	if jsonOut {
		return printJSON(rec)
	}

	fmt.Printf("target: %s\n", filepath.Base(dir))
	fmt.Printf("completed: %d\n", len(rec.Completed))
	fmt.Printf("failed: %d\n", len(rec.Failed))
	fmt.Printf("skipped: %d\n", len(rec.Skipped))
	if rec.LastUpdate != "" {
		fmt.Printf("last_update: %s\n", rec.LastUpdate)
	}
	if len(rec.Failed) > 0 {
		fmt.Println("failed items:")
		for _, id := range rec.Failed {
			fmt.Printf("  - %s\n", id)
		}
	}

	if summary, err := store.LoadSummary(dir); err == nil {
		fmt.Printf("last run: %s (%s requested, finished %s)\n",
			summary.RunID, strconv.Itoa(summary.Requested), summary.FinishedAt)
	}
	return nil
}
