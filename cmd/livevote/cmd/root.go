// Package cmd contains all CLI commands for livevote.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/livevote/internal/classify"
	"github.com/f3rmion/livevote/internal/config"
	"github.com/f3rmion/livevote/internal/driver"
	"github.com/f3rmion/livevote/internal/history"
	"github.com/f3rmion/livevote/internal/tui"
	"github.com/f3rmion/livevote/internal/wordcloud"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "livevote",
	Short: "Live chat vote dashboard for the terminal",
	Long: `livevote turns chat messages into a live vote.

It polls a chat aggregation service for its wordcloud, sorts every word
into one of two or three options by matching synonym lists, and draws
the result as a donut or bar chart that updates as the chat votes.

Running 'livevote' without arguments starts the polling dashboard.
Use 'livevote watch' to count messages from a WebSocket relay instead.`,
	SilenceUsage: true,
	RunE:         runDashboard,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/livevote/config.yaml)")
	flags.String("domain", "", "aggregation service URL (overrides the config file)")
	flags.String("query", "", "widget-style settings, e.g. 'optionA=Sim&optionB=Não&yesWords=s,ss'")
	flags.String("record", "", "record every delivered tally to this SQLite database")
	flags.String("log-file", "", "write logs to this file")
	flags.Bool("verbose", false, "verbose output")

	viper.BindPFlag("domain", flags.Lookup("domain"))
	viper.BindPFlag("query", flags.Lookup("query"))
	viper.BindPFlag("record", flags.Lookup("record"))
	viper.BindPFlag("log_file", flags.Lookup("log-file"))
	viper.BindPFlag("verbose", flags.Lookup("verbose"))
}

// initConfig resolves the config file path and reads ENV variables.
func initConfig() {
	if cfgFile != "" {
		viper.Set("config_file", cfgFile)
	} else {
		configDir, err := config.GetConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}
		viper.Set("config_file", filepath.Join(configDir, "config.yaml"))
	}

	viper.SetEnvPrefix("LIVEVOTE")
	viper.AutomaticEnv()
}

// getConfigFile returns the configuration file path.
func getConfigFile() string {
	return viper.GetString("config_file")
}

// loadConfig reads the config file and applies flag and query overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadOrDefault(getConfigFile())
	if err != nil {
		return config.Config{}, err
	}

	if domain := viper.GetString("domain"); domain != "" {
		cfg.Domain = domain
	}
	if q := viper.GetString("query"); q != "" {
		cfg, err = config.ParseQuery(cfg, q)
		if err != nil {
			return config.Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupLogger builds the process logger. The dashboard owns the terminal,
// so logs are discarded unless a log file is given.
func setupLogger() (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}

	out := io.Writer(io.Discard)
	closeFn := func() {}
	if path := viper.GetString("log_file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

// warnOverlaps reports keys claimed by more than one option.
func warnOverlaps(c *classify.Classifier, logger *slog.Logger) {
	for _, o := range c.Overlaps() {
		fmt.Fprintf(os.Stderr, "Warning: %q matches both %s and %s; %s wins\n", o.Key, o.Winner, o.Loser, o.Winner)
		logger.Warn("overlapping keyword", "key", o.Key, "winner", o.Winner, "loser", o.Loser)
	}
}

// withRecorder adds the history recorder to n when --record is set.
func withRecorder(n driver.Notifier, mode history.Mode, logger *slog.Logger) (driver.Notifier, func(), error) {
	path := viper.GetString("record")
	if path == "" {
		return n, func() {}, nil
	}

	store, err := history.Open(path, mode)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("recording tallies", "path", path)
	return driver.Multi{n, history.Recorder{Store: store, Logger: logger}}, func() { store.Close() }, nil
}

// runDashboard launches the polling dashboard.
func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := setupLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	classifier := cfg.NewClassifier()
	warnOverlaps(classifier, logger)

	client := wordcloud.NewClient(cfg.Domain, cfg.Timeout)
	model := tui.New(classifier.Options(), tui.Settings{
		Title:    cfg.Title,
		Subtitle: cfg.Subtitle,
		Mode:     tui.ModePoll,
		Source:   client.BaseURL(),
	})
	p := tea.NewProgram(model, tea.WithAltScreen())
	programNotifier := tui.ProgramNotifier{Program: p}

	notifier, closeStore, err := withRecorder(programNotifier, history.ModePoll, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := []driver.PollerOption{
		driver.WithInterval(cfg.Interval),
		driver.WithLogger(logger),
		driver.WithStatus(programNotifier.OnStatus),
	}
	if cfg.ClearOnStart {
		opts = append(opts, driver.WithClearOnStart(client))
	}
	poller := driver.NewPoller(client, classifier, notifier, opts...)

	ctx, cancel := context.WithCancel(cmd.Context())
	done := make(chan struct{})
	go func() {
		defer close(done)
		poller.Run(ctx)
	}()

	logger.Info("polling", "domain", client.BaseURL(), "interval", cfg.Interval)
	_, err = p.Run()
	cancel()
	<-done

	if err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
