package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bgrewell/usage"
	"github.com/go-logr/logr"
	"github.com/theckman/yacspin"
	"golang.org/x/term"

	"github.com/veduco/EFTSuite-Public/codec"
	"github.com/veduco/EFTSuite-Public/eft"
	"github.com/veduco/EFTSuite-Public/logging"
)

func main() {
	u := usage.NewUsage(
		usage.WithApplicationName("eftview"),
		usage.WithApplicationDescription("eftview is a command-line tool for inspecting EFT (ANSI/NIST-ITL) fingerprint transmissions. It prints the record directory and biographic fields, and can extract the embedded fingerprint images with PNG previews."),
	)

	help := u.AddBooleanOption("h", "help", false, "Show this help message", "optional", nil)
	extract := u.AddBooleanOption("x", "extract", false, "Extract embedded images", "", nil)
	path := u.AddArgument(1, "eft-path", "Path to the EFT file to inspect", "")
	outDir := u.AddArgument(2, "out-dir", "Output directory for extracted images (default ./extracted)", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}

	if *help {
		u.PrintUsage()
		os.Exit(0)
	}

	if path == nil || *path == "" {
		u.PrintError(fmt.Errorf("location of the eft file <eft-path> must be provided"))
		os.Exit(1)
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		u.PrintError(err)
		os.Exit(1)
	}

	parser, err := eft.NewParser(eft.WithParserLogger(logging.NewLogger(logr.Discard())))
	if err != nil {
		u.PrintError(err)
		os.Exit(1)
	}

	file, err := parser.Parse(context.Background(), data)
	if err != nil {
		u.PrintError(err)
		os.Exit(1)
	}

	fmt.Print(file.Dump())

	if !*extract {
		return
	}

	target := "./extracted"
	if outDir != nil && *outDir != "" {
		target = *outDir
	}

	spinner := newSpinner()
	if spinner != nil {
		_ = spinner.Start()
		spinner.Message(fmt.Sprintf("extracting %d images", len(file.ImageRecords())))
	}

	scratchDir, err := os.MkdirTemp("", "eftview-")
	if err != nil {
		u.PrintError(err)
		os.Exit(1)
	}
	defer os.RemoveAll(scratchDir)

	images, err := file.ExtractImages(context.Background(), target, codec.NewNBIS(scratchDir, logging.DefaultLogger()))
	if spinner != nil {
		_ = spinner.Stop()
	}
	if err != nil {
		u.PrintError(err)
		os.Exit(1)
	}

	for _, img := range images {
		preview := img.PreviewPath
		if preview == "" {
			preview = "(no preview)"
		}
		fmt.Printf("position %2d  %s  %s\n", img.Position, img.Path, preview)
	}
}

// newSpinner returns a spinner when stdout is a terminal, nil otherwise.
func newSpinner() *yacspin.Spinner {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil
	}

	spinner, err := yacspin.New(yacspin.Config{
		Frequency:       100 * time.Millisecond,
		CharSet:         yacspin.CharSets[14],
		Suffix:          " eftview",
		SuffixAutoColon: true,
		StopCharacter:   "✓",
		StopColors:      []string{"fgGreen"},
	})
	if err != nil {
		return nil
	}

	return spinner
}
