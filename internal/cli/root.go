package cli

import "fmt"

func Run(args []string) error {
	if len(args) == 0 {
		printRootUsage()
		return nil
	}

	switch args[0] {
	case "process":
		return runProcess(args[1:])
	case "channel":
		return runChannel(args[1:])
	case "user":
		return runUser(args[1:])
	case "status":
		return runStatus(args[1:])
	case "browse":
		return runBrowse(args[1:])
	case "init":
		return runInit(args[1:])
	case "doctor":
		return runDoctor(args[1:])
	case "version":
		return runVersion(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printRootUsage() {
	fmt.Println("readvideo: video transcript extraction for YouTube, Bilibili, and local media")
	fmt.Println()
	fmt.Println("Quick Start:")
	fmt.Println("  readvideo init")
	fmt.Println("  readvideo process https://www.youtube.com/watch?v=<id>")
	fmt.Println("  readvideo channel @somechannel --max-items 10")
	fmt.Println("  readvideo status")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  process   extract one transcript from a URL or local media file")
	fmt.Println("  channel   process a YouTube channel's videos in batch")
	fmt.Println("  user      process a Bilibili user's videos in batch")
	fmt.Println("  status    show per-target processing status")
	fmt.Println("  browse    interactive target browser")
	fmt.Println("  init      write a default config file + run environment checks")
	fmt.Println("  doctor    run dependency and filesystem preflight checks")
	fmt.Println("  version   print the CLI version")
	fmt.Println()
	fmt.Println("Notes:")
	fmt.Println("  - Use --json on commands for machine-readable output")
	fmt.Println("  - Supadata API keys go in READVIDEO_SUPADATA_KEYS (or a .env file)")
	fmt.Println("  - Batches resume: rerun the same channel/user to pick up where you left off")
}
