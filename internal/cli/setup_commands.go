package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"readvideo/internal/config"
	"readvideo/internal/tools"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

type doctorCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type doctorResult struct {
	OK     bool          `json:"ok"`
	Checks []doctorCheck `json:"checks"`
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultPath(), "config file path")
	force := fs.Bool("force", false, "overwrite an existing config file")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := strings.TrimSpace(*configPath)
	created := false
	if _, err := os.Stat(path); err == nil && !*force {
		ok, err := promptConfirm(fmt.Sprintf("config %s exists, overwrite? [y/N] ", path))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("keeping existing config")
		} else {
			created = true
		}
	} else {
		created = true
	}
	if created {
		if err := config.Save(path, config.Default()); err != nil {
			return err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	res := runChecks(cfg)
	if *jsonOut {
		return printJSON(struct {
			ConfigPath   string       `json:"config_path"`
			WroteConfig  bool         `json:"wrote_config"`
			DoctorResult doctorResult `json:"doctor_result"`
		}{path, created, res})
	}

	if created {
		fmt.Printf("config written: %s\n", path)
	}
	printChecks(res)
	if !res.OK {
		return errors.New("doctor checks failed")
	}
	fmt.Println("next: readvideo process <url>")
	return nil
}

func runDoctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	configPath := fs.String("config", config.DefaultPath(), "config file path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(strings.TrimSpace(*configPath))
	if err != nil {
		return err
	}
	res := runChecks(cfg)
	if *jsonOut {
		return printJSON(res)
	}
	printChecks(res)
	if !res.OK {
		return errors.New("doctor checks failed")
	}
	fmt.Println("doctor: all checks passed")
	return nil
}

func runVersion(args []string) error {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(struct {
			Version string `json:"version"`
			Go      string `json:"go"`
		}{Version, runtime.Version()})
	}
	fmt.Printf("readvideo %s (%s)\n", Version, runtime.Version())
	return nil
}

func runChecks(cfg config.Config) doctorResult {
	deps := tools.DependencyStatus()
	checks := []doctorCheck{
		binaryCheck("yt-dlp", deps.YTDLPFound, deps.YTDLPPath, "required for enumeration and audio download"),
		binaryCheck("ffmpeg", deps.FFmpegFound, deps.FFmpegPath, "required for audio conversion"),
		binaryCheck("whisper-cli", deps.WhisperFound, deps.WhisperPath, "needed for the transcription fallback"),
		binaryCheck("BBDown", deps.BBDownFound, deps.BBDownPath, "optional, preferred Bilibili downloader"),
	}

	checks = append(checks, whisperModelCheck(cfg.WhisperModelPath))
	checks = append(checks, outputDirCheck(cfg.OutputDir))
	if len(cfg.Supadata.APIKeys) > 0 {
		checks = append(checks, doctorCheck{Name: "supadata", OK: true,
			Message: fmt.Sprintf("%d API key(s) configured", len(cfg.Supadata.APIKeys))})
	} else {
		checks = append(checks, doctorCheck{Name: "supadata", OK: true,
			Message: "no API keys; hosted subtitle API will be skipped"})
	}

	// whisper-cli and BBDown are soft failures: a chain only breaks when
	// it actually reaches them.
	ok := true
	for _, c := range checks {
		if !c.OK && (c.Name == "yt-dlp" || c.Name == "ffmpeg" || c.Name == "output_dir") {
			ok = false
		}
	}
	return doctorResult{OK: ok, Checks: checks}
}

func binaryCheck(name string, found bool, path, purpose string) doctorCheck {
	if found {
		return doctorCheck{Name: name, OK: true, Message: path}
	}
	return doctorCheck{Name: name, OK: false, Message: "not found on PATH; " + purpose}
}

func whisperModelCheck(modelPath string) doctorCheck {
	if strings.TrimSpace(modelPath) == "" {
		return doctorCheck{Name: "whisper_model", OK: false, Message: "no model path configured"}
	}
	if _, err := os.Stat(modelPath); err != nil {
		return doctorCheck{Name: "whisper_model", OK: false,
			Message: fmt.Sprintf("model not found at %s", modelPath)}
	}
	return doctorCheck{Name: "whisper_model", OK: true, Message: modelPath}
}

func outputDirCheck(dir string) doctorCheck {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return doctorCheck{Name: "output_dir", OK: false, Message: err.Error()}
	}
	probe := filepath.Join(dir, ".readvideo-doctor")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return doctorCheck{Name: "output_dir", OK: false, Message: "not writable: " + err.Error()}
	}
	_ = os.Remove(probe)
	return doctorCheck{Name: "output_dir", OK: true, Message: dir}
}

func printChecks(res doctorResult) {
	fmt.Println("checks:")
	for _, c := range res.Checks {
		status := "ok"
		if !c.OK {
			status = "fail"
		}
		fmt.Printf("  %s: %s (%s)\n", c.Name, status, c.Message)
	}
}
