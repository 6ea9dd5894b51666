package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"readvideo/internal/batch"
	"readvideo/internal/config"
	"readvideo/internal/model"
	"readvideo/internal/platform"
	"readvideo/internal/targets"
	"readvideo/internal/tools"
)

type batchFlags struct {
	configPath string
	outputDir  string
	startDate  string
	maxItems   int
	language   string
	keepTemp   bool
	jsonOut    bool
}

func bindBatchFlags(fs *flag.FlagSet) *batchFlags {
	bf := &batchFlags{}
	fs.StringVar(&bf.configPath, "config", config.DefaultPath(), "config file path")
	fs.StringVar(&bf.outputDir, "output", "", "output directory (default from config)")
	fs.StringVar(&bf.startDate, "start-date", "", "only process items published on/after this date (YYYY-MM-DD)")
	fs.IntVar(&bf.maxItems, "max-items", 0, "cap on items to process (0 = no cap)")
	fs.StringVar(&bf.language, "language", "", "force transcription language (empty = auto-detect)")
	fs.BoolVar(&bf.keepTemp, "keep-temp", false, "keep downloaded audio and intermediates")
	fs.BoolVar(&bf.jsonOut, "json", false, "print JSON output")
	return bf
}

func runChannel(args []string) error {
	fs := flag.NewFlagSet("channel", flag.ContinueOnError)
	bf := bindBatchFlags(fs)
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	raw := strings.TrimSpace(fs.Arg(0))
	if raw == "" {
		var err error
		raw, err = promptRequired("channel handle or URL")
		if err != nil {
			return err
		}
	}
	target, err := targets.ParseYouTubeChannel(raw)
	if err != nil {
		return err
	}
	return runBatch(target, bf)
}

func runUser(args []string) error {
	fs := flag.NewFlagSet("user", flag.ContinueOnError)
	bf := bindBatchFlags(fs)
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	raw := strings.TrimSpace(fs.Arg(0))
	if raw == "" {
		var err error
		raw, err = promptRequired("bilibili UID or space URL")
		if err != nil {
			return err
		}
	}
	target, err := targets.ParseBilibiliUser(raw)
	if err != nil {
		return err
	}
	return runBatch(target, bf)
}

func runBatch(target model.TargetInfo, bf *batchFlags) error {
	if err := validateStartDate(bf.startDate); err != nil {
		return err
	}
	if err := tools.CheckCore(); err != nil {
		return err
	}

	cfg, err := config.Load(bf.configPath)
	if err != nil {
		return err
	}
	if strings.TrimSpace(bf.outputDir) != "" {
		cfg.OutputDir = strings.TrimSpace(bf.outputDir)
	}

	var processor batch.Processor
	switch target.Platform {
	case "bilibili":
		processor = platform.NewBilibiliHandler(cfg)
	default:
		processor = platform.NewYouTubeHandler(cfg)
	}

	var progress io.Writer = os.Stdout
	if bf.jsonOut {
		progress = io.Discard
	}
	o := batch.NewOrchestrator(cfg.OutputDir, cfg.ProxyURL, tools.ListCatalog, processor, progress)

	summary, err := o.Run(target, batch.Options{
		StartDate:     strings.TrimSpace(bf.startDate),
		MaxItems:      bf.maxItems,
		Language:      strings.TrimSpace(bf.language),
		KeepTempFiles: bf.keepTemp,
	})
	if err != nil {
		return err
	}
	if bf.jsonOut {
		return printJSON(summary)
	}
	if summary.Failed > 0 {
		fmt.Printf("rerun the same command to retry the %d failed item(s)\n", summary.Failed)
	}
	return nil
}

func validateStartDate(raw string) error {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", v); err != nil {
		return fmt.Errorf("invalid --start-date %q (want YYYY-MM-DD)", v)
	}
	return nil
}
