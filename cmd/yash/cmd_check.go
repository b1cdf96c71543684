package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dhamidi/yash/config"
	"github.com/dhamidi/yash/format"
	"github.com/dhamidi/yash/grammar"
	"github.com/dhamidi/yash/workspace"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newCheckCmd(flags *globalFlags) *cobra.Command {
	var (
		timeout      time.Duration
		watch        bool
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Report problems in grammar files or directories of them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := flags.settings(cmd)
			if err != nil {
				return err
			}
			if watch {
				if len(args) != 1 {
					return fmt.Errorf("--watch takes a single directory")
				}
				return runWatch(args[0], settings, outputFormat)
			}
			return runCheck(args, settings, timeout, outputFormat)
		},
	}

	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 10*time.Second, "timeout per file")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep checking a directory as files change")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "pretty", "output format (pretty, line)")

	return cmd
}

func runCheck(paths []string, settings config.Settings, timeout time.Duration, outputFormat string) error {
	encoder, err := format.New(outputFormat, os.Stdout)
	if err != nil {
		return err
	}

	files, err := collectGrammars(paths)
	if err != nil {
		return err
	}

	var all grammar.Problems
	for _, path := range files {
		file, err := checkFile(path, settings, timeout)
		if err != nil {
			pterm.Error.Println(err)
			all.Add(grammar.SeverityError, err.Error(), grammar.NoRange)
			continue
		}
		if err := encoder.Encode(file); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		all = append(all, file.Problems()...)
	}

	summary := fmt.Sprintf("%d files checked: %s", len(files), format.Summary(all))
	if all.HasErrors() {
		return fmt.Errorf("%s", summary)
	}
	pterm.Success.Println(summary)
	return nil
}

// checkFile parses path in the background and gives up after timeout.
func checkFile(path string, settings config.Settings, timeout time.Duration) (*workspace.File, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	type result struct {
		file *workspace.File
		err  error
	}
	done := make(chan result, 1)

	go func() {
		file, err := readFile(path, settings)
		done <- result{file, err}
	}()

	select {
	case r := <-done:
		return r.file, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("timeout parsing %s", path)
	}
}

func collectGrammars(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() && workspace.LanguageOf(p) != workspace.LanguageUnknown {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", path, err)
		}
	}
	return files, nil
}

func runWatch(dir string, settings config.Settings, outputFormat string) error {
	encoder, err := format.New(outputFormat, os.Stdout)
	if err != nil {
		return err
	}

	ws := workspace.New(dir, settings)
	watcher := workspace.NewFileWatcher(ws, func(path string, removed bool) {
		if removed {
			pterm.Info.Printfln("%s removed", path)
			return
		}
		file := ws.GetFile(path)
		if file == nil {
			return
		}
		if len(file.Problems()) == 0 {
			pterm.Success.Printfln("%s: no problems", path)
			return
		}
		if err := encoder.Encode(file); err != nil {
			pterm.Error.Println(err)
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pterm.Info.Printfln("watching %s", dir)
	watcher.Start()
	<-ctx.Done()
	watcher.Stop()
	return nil
}
