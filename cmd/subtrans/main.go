package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"codeberg.org/snonux/subtrans/internal"
	"codeberg.org/snonux/subtrans/internal/archive"
	"codeberg.org/snonux/subtrans/internal/browser"
	"codeberg.org/snonux/subtrans/internal/cli"
	"codeberg.org/snonux/subtrans/internal/journal"
	"codeberg.org/snonux/subtrans/internal/processor"
	"codeberg.org/snonux/subtrans/internal/prompt"
	"codeberg.org/snonux/subtrans/internal/session"
	"codeberg.org/snonux/subtrans/internal/site"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		cli.ApplyConfig(flags)
		return runCommand(cmd.Context(), args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, args []string, flags *cli.Flags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	terminal := prompt.NewTerminal(os.Stdin, os.Stdout)

	// Folder comes from the argument or is asked for
	var root string
	if len(args) > 0 {
		root = args[0]
	} else {
		var err error
		if root, err = prompt.Folder(terminal); err != nil {
			return err
		}
	}

	if err := checkOutputDir(root, flags.OutputDir); err != nil {
		return err
	}

	logger := cli.NewLogger(flags.Verbose)

	launcher, err := browser.NewPlaywright(browser.Config{
		Headless: flags.Headless,
		Timeout:  flags.Timeout,
		Install:  flags.Install,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := launcher.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to stop browser: %v\n", err)
		}
	}()

	username, password := cli.GetCredentials()
	s := site.Jianwai().WithURL(flags.URL)
	handle, err := session.Establish(launcher, session.Config{
		Site:      s,
		StatePath: flags.StatePath,
		Username:  username,
		Password:  password,
	}, terminal, os.Stdout, logger)
	if err != nil {
		return err
	}

	runErr := processFolder(ctx, root, flags, s, handle, logger)

	// The session is kept even when the batch failed
	closeErr := handle.Close(flags.StatePath)
	if closeErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to save session: %v\n", closeErr)
	}
	if runErr != nil {
		return runErr
	}

	fmt.Printf("\nDone! Session saved to: %s\n", flags.StatePath)
	return nil
}

// processFolder sets up the journal and backup the flags ask for and runs
// the batch on the logged-in page
func processFolder(ctx context.Context, root string, flags *cli.Flags, s site.Site, handle *session.Handle, logger hclog.Logger) error {
	proc := processor.NewProcessor(flags, s, handle.Page, logger)

	if flags.JournalPath != "" {
		j, err := journal.Open(flags.JournalPath)
		if err != nil {
			return err
		}
		defer j.Close()
		proc.SetJournal(j)
	}

	if flags.Backup {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to locate home directory: %w", err)
		}
		b, err := archive.NewBackup(filepath.Join(internal.StateDir(home), "backup"), root)
		if err != nil {
			return err
		}
		fmt.Printf("Backing up originals to: %s\n", b.Dir())
		proc.SetBackup(b)
	}

	return proc.ProcessFolder(ctx, root)
}

// checkOutputDir rejects an output directory inside the scanned tree, where
// translations would be discovered again
func checkOutputDir(root, outputDir string) error {
	if outputDir == "" {
		return nil
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(absRoot, absOut)
	if err != nil {
		return nil
	}
	if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errors.New("output directory must be outside the subtitle folder")
	}
	return nil
}
