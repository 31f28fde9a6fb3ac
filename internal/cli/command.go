package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/subtrans/internal"
	"codeberg.org/snonux/subtrans/internal/discover"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "subtrans [folder]",
		Short: "Batch subtitle translation through the Jianwai web service",
		Long: `subtrans translates a folder of subtitle files with the Jianwai (见外)
web service by driving its web UI in a Chromium browser.

Every .srt file below the folder is uploaded as a new project, the
translation is downloaded over the original file, and the project is
deleted again. The login session is saved between runs.

Examples:
  subtrans                          # Ask for the folder interactively
  subtrans ~/subs                   # Translate everything below ~/subs
  subtrans ~/subs --output-dir out  # Keep originals, write translations to out/
  subtrans ~/subs --backup --poll   # Back up originals, poll instead of sleeping`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Journal lives in the XDG state directory
	home, _ := os.UserHomeDir()
	defaultJournal := filepath.Join(internal.StateDir(home), "journal.db")

	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.subtrans.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Log every browser step")

	// Browser flags
	cmd.Flags().StringVar(&flags.StatePath, "state", flags.StatePath, "Session state file (cookies and storage)")
	cmd.Flags().StringVar(&flags.URL, "url", flags.URL, "Landing page of the translation service")
	cmd.Flags().BoolVar(&flags.Headless, "headless", false, "Run the browser without a window")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Default timeout of each browser action")
	cmd.Flags().BoolVar(&flags.Install, "install", false, "Download the playwright driver and Chromium before starting")

	// File flags
	cmd.Flags().StringVar(&flags.Ext, "ext", flags.Ext, "Extension of the subtitle files to translate")
	cmd.Flags().StringVarP(&flags.OutputDir, "output-dir", "o", "", "Write translations below this directory instead of overwriting the originals")
	cmd.Flags().BoolVar(&flags.Backup, "backup", false, "Copy each original to the state directory before overwriting it")

	// Journal flags
	cmd.Flags().StringVar(&flags.JournalPath, "journal", defaultJournal, "Journal of translated files (empty disables)")
	cmd.Flags().BoolVar(&flags.Force, "force", false, "Translate files even if the journal lists them as done")

	// Pacing flags
	cmd.Flags().BoolVar(&flags.Poll, "poll", false, "Wait for page conditions instead of fixed delays")
	cmd.Flags().DurationVar(&flags.PollTimeout, "poll-timeout", flags.PollTimeout, "Upper bound of each polled wait")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("verbose", cmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("browser.state", cmd.Flags().Lookup("state"))
	viper.BindPFlag("browser.url", cmd.Flags().Lookup("url"))
	viper.BindPFlag("browser.headless", cmd.Flags().Lookup("headless"))
	viper.BindPFlag("browser.timeout", cmd.Flags().Lookup("timeout"))
	viper.BindPFlag("files.ext", cmd.Flags().Lookup("ext"))
	viper.BindPFlag("files.output_dir", cmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("files.backup", cmd.Flags().Lookup("backup"))
	viper.BindPFlag("journal.path", cmd.Flags().Lookup("journal"))
	viper.BindPFlag("journal.force", cmd.Flags().Lookup("force"))
	viper.BindPFlag("pacing.poll", cmd.Flags().Lookup("poll"))
	viper.BindPFlag("pacing.poll_timeout", cmd.Flags().Lookup("poll-timeout"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".subtrans" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".subtrans")
	}

	// Environment variables
	viper.SetEnvPrefix("SUBTRANS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// ApplyConfig copies the merged flag, config file and environment values
// back into flags
func ApplyConfig(flags *Flags) {
	flags.Verbose = viper.GetBool("verbose")
	flags.StatePath = viper.GetString("browser.state")
	flags.URL = viper.GetString("browser.url")
	flags.Headless = viper.GetBool("browser.headless")
	flags.Timeout = viper.GetDuration("browser.timeout")
	flags.Ext = NormalizeExt(viper.GetString("files.ext"))
	if flags.Ext == "" {
		// An empty suffix would match every file without an extension
		flags.Ext = discover.DefaultExt
	}
	flags.OutputDir = viper.GetString("files.output_dir")
	flags.Backup = viper.GetBool("files.backup")
	flags.JournalPath = viper.GetString("journal.path")
	flags.Force = viper.GetBool("journal.force")
	flags.Poll = viper.GetBool("pacing.poll")
	flags.PollTimeout = viper.GetDuration("pacing.poll_timeout")
}

// NormalizeExt makes sure an extension starts with a dot
func NormalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// GetCredentials retrieves the service account from environment or config.
// Missing values are returned empty and asked for interactively.
func GetCredentials() (username, password string) {
	// First check environment variables
	username = os.Getenv("SUBTRANS_USERNAME")
	password = os.Getenv("SUBTRANS_PASSWORD")

	// Then check config file
	if username == "" {
		username = viper.GetString("account.username")
	}
	if password == "" {
		password = viper.GetString("account.password")
	}
	return username, password
}

// NewLogger creates the diagnostic logger; verbose enables debug output
func NewLogger(verbose bool) hclog.Logger {
	level := hclog.Info
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "subtrans",
		Level:  level,
		Output: os.Stderr,
		Color:  hclog.AutoColor,
	})
}
