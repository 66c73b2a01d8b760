package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/claimlens/claimlens/internal/api"
	"github.com/claimlens/claimlens/internal/config"
	"github.com/claimlens/claimlens/internal/document"
	"github.com/claimlens/claimlens/internal/export"
	"github.com/claimlens/claimlens/internal/extract"
	"github.com/claimlens/claimlens/internal/inbox"
	"github.com/claimlens/claimlens/internal/pdfinfo"
	"github.com/claimlens/claimlens/internal/queue"
	"github.com/claimlens/claimlens/internal/registry"
)

var (
	processWatch  string
	processExport string
)

// processResult is the per-document summary printed after a batch run.
type processResult struct {
	Name     string             `json:"name"`
	Stage    document.Stage     `json:"stage"`
	Metadata *document.Metadata `json:"metadata,omitempty"`
	Error    string             `json:"error,omitempty"`
}

var processCmd = &cobra.Command{
	Use:   "process [pdf|dir...]",
	Short: "Extract claims from PDFs without a running server",
	Long: `Process PDF forms directly against the extraction backend.

Arguments may be PDF files or directories (scanned non-recursively).
Documents are queued and processed one at a time in argument order.

With --watch, the given directory is monitored and every PDF dropped
into it is queued as it arrives; the command runs until interrupted.

With --export, the merged claims of all completed documents are written
to a file in the given format. Merging requires at least two completed
documents.

Examples:
  claimlens process form1.pdf form2.pdf
  claimlens process ./inbox --export csv
  claimlens process --watch ./inbox`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if len(args) == 0 && processWatch == "" {
			return fmt.Errorf("nothing to do: pass PDFs or use --watch")
		}
		if processExport != "" && processExport != "json" && processExport != "csv" {
			return fmt.Errorf("unknown export format %q (want json or csv)", processExport)
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		store := registry.New()
		client := extract.NewClient(cfg.Backend.URL, logger)
		processor := queue.New(queue.Config{
			Store:       store,
			Client:      client,
			Logger:      logger,
			Simulate:    false, // no browser to narrate to
			BaseContext: ctx,
		})

		var batch []queue.File
		for _, arg := range args {
			files, err := collectFiles(arg)
			if err != nil {
				return err
			}
			batch = append(batch, files...)
		}
		if len(batch) > 0 {
			processor.Enqueue(batch)
		}

		if processWatch != "" {
			watcher := inbox.New(processWatch, logger, func(path string) {
				info, err := pdfinfo.Inspect(path)
				if err != nil {
					logger.Warn("skipping file", "path", path, "error", err)
					return
				}
				processor.Enqueue([]queue.File{{
					Name:  info.Name,
					Path:  info.Path,
					Size:  info.Size,
					Pages: info.Pages,
				}})
			})
			// Blocks until Ctrl+C. Documents processed so far are summarized
			// on the way out.
			_ = watcher.Run(ctx)
		} else if err := processor.Wait(ctx); err != nil {
			return err
		}

		results := make([]processResult, 0, store.Len())
		for _, doc := range store.List() {
			results = append(results, processResult{
				Name:     doc.Name,
				Stage:    doc.Stage,
				Metadata: doc.Metadata,
				Error:    doc.Error,
			})
		}
		if err := api.Output(results); err != nil {
			return err
		}

		if processExport != "" {
			return writeMergedExport(store, processExport)
		}
		return nil
	},
}

// collectFiles expands one argument into queue entries, inspecting each PDF.
func collectFiles(arg string) ([]queue.File, error) {
	fi, err := os.Stat(arg)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		paths, err = pdfinfo.CollectDir(arg)
		if err != nil {
			return nil, err
		}
	} else {
		paths = []string{arg}
	}

	var files []queue.File
	for _, p := range paths {
		info, err := pdfinfo.Inspect(p)
		if err != nil {
			return nil, err
		}
		files = append(files, queue.File{
			Name:  info.Name,
			Path:  info.Path,
			Size:  info.Size,
			Pages: info.Pages,
		})
	}
	return files, nil
}

// writeMergedExport writes the merged claims file into the exports directory.
func writeMergedExport(store *registry.Store, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "json":
		data, err = export.MergedJSON(store.Completed())
	case "csv":
		data, err = export.MergedCSV(store.Completed())
	}
	if err != nil {
		return err
	}

	h, err := getHome()
	if err != nil {
		return err
	}
	path := filepath.Join(h.ExportsPath(), export.MergedFilename(format, time.Now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	return nil
}

func init() {
	processCmd.Flags().StringVar(&processWatch, "watch", "", "Watch a directory and process PDFs as they arrive")
	processCmd.Flags().StringVar(&processExport, "export", "", "Write merged claims on completion: json or csv")

	rootCmd.AddCommand(processCmd)
}
