package cli

import (
	"flag"
	"fmt"
	"strings"

	"readvideo/internal/config"
	"readvideo/internal/platform"
)

func runProcess(args []string) error {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultPath(), "config file path")
	outputDir := fs.String("output", "", "output directory (default from config)")
	language := fs.String("language", "", "force transcription language (empty = auto-detect)")
	keepTemp := fs.Bool("keep-temp", false, "keep downloaded audio and intermediates")
	infoOnly := fs.Bool("info", false, "print metadata only, no transcript extraction")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	input := strings.TrimSpace(fs.Arg(0))
	if input == "" {
		var err error
		input, err = promptRequired("video URL or media file")
		if err != nil {
			return err
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if strings.TrimSpace(*outputDir) != "" {
		cfg.OutputDir = strings.TrimSpace(*outputDir)
	}

	handler := handlerFor(platform.Detect(input), cfg)

	if *infoOnly {
		meta, err := handler.Describe(input)
		if err != nil {
			return err
		}
		if *jsonOut {
			return printJSON(meta)
		}
		fmt.Printf("platform: %s\n", meta.Platform)
		fmt.Printf("id: %s\n", meta.ID)
		if meta.Title != "" {
			fmt.Printf("title: %s\n", meta.Title)
		}
		if meta.DurationSec > 0 {
			fmt.Printf("duration_sec: %d\n", meta.DurationSec)
		}
		if meta.HasSubtitles {
			fmt.Printf("subtitles: %s\n", strings.Join(meta.SubtitleLangs, ", "))
		}
		return nil
	}

	res, err := handler.Process(input, cfg.OutputDir, platform.Options{
		Language:      strings.TrimSpace(*language),
		KeepTempFiles: *keepTemp,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		if err := printJSON(res); err != nil {
			return err
		}
		if !res.Success {
			return fmt.Errorf("processing failed")
		}
		return nil
	}

	if !res.Success {
		return fmt.Errorf("processing failed: %s", res.Error)
	}
	fmt.Printf("done via %s\n", res.Method)
	fmt.Printf("transcript: %s\n", res.OutputFile)
	return nil
}

func handlerFor(kind string, cfg config.Config) platform.Handler {
	switch kind {
	case "bilibili":
		return platform.NewBilibiliHandler(cfg)
	case "local":
		return platform.NewLocalFileHandler(cfg)
	default:
		return platform.NewYouTubeHandler(cfg)
	}
}
