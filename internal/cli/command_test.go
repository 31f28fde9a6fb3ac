package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestCreateRootCommand(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	// Test basic command properties
	if cmd.Use != "subtrans [folder]" {
		t.Errorf("Expected Use to be 'subtrans [folder]', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "subtitle translation") {
		t.Errorf("Expected Short description to mention subtitle translation")
	}

	// Test that flags are set up
	flagTests := []struct {
		name       string
		persistent bool
	}{
		{"config", true},
		{"verbose", true},
		{"state", false},
		{"url", false},
		{"headless", false},
		{"timeout", false},
		{"install", false},
		{"ext", false},
		{"output-dir", false},
		{"backup", false},
		{"journal", false},
		{"force", false},
		{"poll", false},
		{"poll-timeout", false},
	}

	for _, tt := range flagTests {
		t.Run("flag_"+tt.name, func(t *testing.T) {
			var flag *pflag.Flag
			if tt.persistent {
				flag = cmd.PersistentFlags().Lookup(tt.name)
			} else {
				flag = cmd.Flags().Lookup(tt.name)
			}
			if flag == nil {
				t.Errorf("Expected flag %s to exist", tt.name)
			}
		})
	}

	// At most one folder argument
	if err := cmd.Args(cmd, []string{"a", "b"}); err == nil {
		t.Error("Expected error for two positional arguments")
	}
}

func TestSetupFlags(t *testing.T) {
	cmd := &cobra.Command{}
	flags := NewFlags()

	setupFlags(cmd, flags)

	// Test default values
	journalFlag := cmd.Flags().Lookup("journal")
	if journalFlag == nil {
		t.Fatal("journal flag not found")
	}

	home, _ := os.UserHomeDir()
	expectedDefault := filepath.Join(home, ".local", "state", "subtrans", "journal.db")
	if journalFlag.DefValue != expectedDefault {
		t.Errorf("Expected default journal to be %s, got %s", expectedDefault, journalFlag.DefValue)
	}

	stateFlag := cmd.Flags().Lookup("state")
	if stateFlag == nil {
		t.Fatal("state flag not found")
	}
	if stateFlag.DefValue != "youdao.json" {
		t.Errorf("Expected default state to be youdao.json, got %s", stateFlag.DefValue)
	}
}

func TestInitConfig(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		check     func(t *testing.T)
	}{
		{
			name: "with config file",
			setupFunc: func(t *testing.T) string {
				tmpDir := t.TempDir()
				cfgPath := filepath.Join(tmpDir, "test-config.yaml")
				content := `browser:
  headless: true
  state: /tmp/session.json
pacing:
  poll: true
  poll_timeout: 45s`
				if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
				return cfgPath
			},
			check: func(t *testing.T) {
				if !viper.GetBool("browser.headless") {
					t.Error("browser.headless not loaded from config file")
				}
				if got := viper.GetDuration("pacing.poll_timeout"); got != 45*time.Second {
					t.Errorf("pacing.poll_timeout = %v, want 45s", got)
				}
			},
		},
		{
			name: "without config file",
			setupFunc: func(t *testing.T) string {
				return ""
			},
			check: func(t *testing.T) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset viper for each test
			viper.Reset()

			InitConfig(tt.setupFunc(t))

			// Test environment variable prefix
			t.Setenv("SUBTRANS_TEST_VAR", "test-value")
			if viper.GetString("test_var") != "test-value" {
				t.Error("Environment variable not properly loaded")
			}

			// Nested keys map to underscored variables
			t.Setenv("SUBTRANS_FILES_EXT", ".ass")
			if viper.GetString("files.ext") != ".ass" {
				t.Error("Nested key not read from environment")
			}

			tt.check(t)
		})
	}
}

func TestApplyConfig(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	viper.Reset()

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	// A flag on the command line wins, the config fills the rest
	cmd.Flags().Set("state", "/flag/state.json")
	viper.Set("files.ext", "vtt")
	viper.Set("pacing.poll", true)

	ApplyConfig(flags)

	if flags.StatePath != "/flag/state.json" {
		t.Errorf("StatePath = %s, want /flag/state.json", flags.StatePath)
	}
	if flags.Ext != ".vtt" {
		t.Errorf("Ext = %s, want .vtt", flags.Ext)
	}
	if !flags.Poll {
		t.Error("Poll not taken from config")
	}
	if flags.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want default 30s", flags.Timeout)
	}
}

func TestApplyConfigEmptyExt(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	viper.Reset()

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	cmd.Flags().Set("ext", "")
	ApplyConfig(flags)

	if flags.Ext != ".srt" {
		t.Errorf("Ext = %q, want .srt for an empty extension", flags.Ext)
	}
}

func TestNormalizeExt(t *testing.T) {
	tests := map[string]string{
		".srt":  ".srt",
		"srt":   ".srt",
		" ass ": ".ass",
		"":      "",
	}

	for in, want := range tests {
		if got := NormalizeExt(in); got != want {
			t.Errorf("NormalizeExt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetCredentials(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	tests := []struct {
		name         string
		envUser      string
		envPass      string
		configUser   string
		configPass   string
		expectedUser string
		expectedPass string
	}{
		{
			name:         "from environment",
			envUser:      "env-user",
			envPass:      "env-pass",
			configUser:   "cfg-user",
			configPass:   "cfg-pass",
			expectedUser: "env-user",
			expectedPass: "env-pass",
		},
		{
			name:         "from config when no env",
			configUser:   "cfg-user",
			configPass:   "cfg-pass",
			expectedUser: "cfg-user",
			expectedPass: "cfg-pass",
		},
		{
			name:         "mixed sources",
			envUser:      "env-user",
			configPass:   "cfg-pass",
			expectedUser: "env-user",
			expectedPass: "cfg-pass",
		},
		{
			name: "empty when neither set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset viper
			viper.Reset()

			// Set up environment
			t.Setenv("SUBTRANS_USERNAME", tt.envUser)
			t.Setenv("SUBTRANS_PASSWORD", tt.envPass)

			// Set up config
			if tt.configUser != "" {
				viper.Set("account.username", tt.configUser)
			}
			if tt.configPass != "" {
				viper.Set("account.password", tt.configPass)
			}

			user, pass := GetCredentials()
			if user != tt.expectedUser || pass != tt.expectedPass {
				t.Errorf("GetCredentials() = %q, %q, want %q, %q", user, pass, tt.expectedUser, tt.expectedPass)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	if NewLogger(false).IsDebug() {
		t.Error("Expected info level logger")
	}
	if !NewLogger(true).IsDebug() {
		t.Error("Expected debug level logger when verbose")
	}
	if got := NewLogger(false).Name(); got != "subtrans" {
		t.Errorf("Logger name = %q, want subtrans", got)
	}
	var _ hclog.Logger = NewLogger(false)
}
