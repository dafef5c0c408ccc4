// paperexport writes the page texture and the strip mesh to disk without
// opening a window.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/mobius-paper/internal/config"
	"github.com/Faultbox/mobius-paper/internal/logger"
	"github.com/Faultbox/mobius-paper/internal/viewer"
	"github.com/Faultbox/mobius-paper/pkg/paper"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes one command and returns the process exit code.
// stdout stays clean for the written paths; logs go to stderr.
func run(args []string, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage()
		return 1
	}

	command := args[0]
	args = args[1:]

	// Config errors are reported through this logger before the configured
	// level is known.
	if err := logger.Setup(logger.Options{Console: stderr}); err != nil {
		fmt.Fprintf(stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	var err error
	switch command {
	case "page":
		err = cmdExport(command, args, stderr, true, false)
	case "mesh":
		err = cmdExport(command, args, stderr, false, true)
	case "all":
		err = cmdExport(command, args, stderr, true, true)
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage()
		return 1
	}

	if err != nil {
		logger.Error("export failed", zap.Error(err))
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Println(`paperexport - write the Möbius paper assets to disk

Usage:
  paperexport <command> [options]

Commands:
  page    Write the page texture as page.png
  mesh    Write the strip as mobius.obj
  all     Write both

Options:
  -o <dir>        Output directory (default ".")
  -config <file>  Config file (default: none, built-in settings)
  -text <file>    UTF-8 text to print instead of the built-in page
                  (bare names are also looked up in the config directory)
  -seed <n>       Grain seed (-1 for random)
  -dpi <n>        Page resolution
  -debug          Debug logging

Examples:
  paperexport page -seed 1 -o out
  paperexport all -text notes.txt`)
}

func cmdExport(name string, args []string, stderr io.Writer, page, mesh bool) error {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	outDir := fs.String("o", ".", "Output directory")
	cfgPath := fs.String("config", "", "Config file")
	text := fs.String("text", "", "Page text file")
	seed := fs.Int64("seed", -1, "Grain seed (-1 for random)")
	dpi := fs.Int("dpi", 0, "Page resolution")
	debug := fs.Bool("debug", false, "Debug logging")
	fs.Parse(args)

	cfg, err := config.LoadFrom(*cfgPath)
	if err != nil {
		return err
	}
	if *text != "" {
		cfg.Page.TextFile = *text
	}
	if *seed >= 0 {
		s := uint64(*seed)
		cfg.Page.Seed = &s
	}
	if *dpi > 0 {
		cfg.Page.DPI = *dpi
	}
	if *debug {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := logger.Setup(logger.Options{Level: cfg.Logging.Level, Console: stderr}); err != nil {
		return err
	}
	logger.Debug("config resolved",
		zap.String("config", *cfgPath),
		zap.String("text", cfg.Page.TextFile),
		zap.Int("dpi", cfg.Page.DPI),
		zap.Bool("seeded", cfg.Page.Seed != nil),
	)
	if !page && (*text != "" || *seed >= 0 || *dpi > 0) {
		logger.Warn("page options have no effect on mesh export")
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	if page {
		if err := exportPage(cfg, filepath.Join(*outDir, "page.png")); err != nil {
			return err
		}
	}
	if mesh {
		if err := exportMesh(cfg, filepath.Join(*outDir, "mobius.obj")); err != nil {
			return err
		}
	}
	return nil
}

func exportPage(cfg *config.Config, path string) error {
	am := viewer.NewAssets()
	defer am.Close()

	tex, err := viewer.BuildPage(cfg, am)
	if err != nil {
		return err
	}
	if err := paper.SavePNG(path, tex); err != nil {
		return err
	}

	logger.Info("page written",
		zap.String("path", path),
		zap.Int("width", tex.Width()),
		zap.Int("height", tex.Height()),
		zap.Int("lines", len(tex.Layout.Lines)),
	)
	fmt.Println(path)
	return nil
}

func exportMesh(cfg *config.Config, path string) error {
	mesh, err := viewer.BuildMesh(cfg)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := mesh.WriteOBJ(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	logger.Info("mesh written",
		zap.String("path", path),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
	)
	fmt.Println(path)
	return nil
}
