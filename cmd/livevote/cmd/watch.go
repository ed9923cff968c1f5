package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/livevote/internal/driver"
	"github.com/f3rmion/livevote/internal/history"
	"github.com/f3rmion/livevote/internal/relay"
	"github.com/f3rmion/livevote/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"stream"},
	Short:   "Count votes from a WebSocket chat relay",
	Long: `Connect to a chat relay and count votes as messages arrive.

Every message is checked word by word against the option keywords and adds
at most one vote. Counts keep growing for as long as the dashboard runs;
press 'r' to start over. Lost connections are retried every few seconds.

Examples:
  livevote watch --relay ws://localhost:3900/ws
  LIVEVOTE_RELAY=wss://chat.example.com/events livevote watch`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("relay", "", "relay WebSocket URL (overrides the config file)")
	viper.BindPFlag("relay", watchCmd.Flags().Lookup("relay"))
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if r := viper.GetString("relay"); r != "" {
		cfg.Relay = r
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	if cfg.Relay == "" {
		return fmt.Errorf("no relay configured: pass --relay or set relay in %s", getConfigFile())
	}

	logger, closeLog, err := setupLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	classifier := cfg.NewClassifier()
	warnOverlaps(classifier, logger)

	var streamer *driver.Streamer
	model := tui.New(classifier.Options(), tui.Settings{
		Title:    cfg.Title,
		Subtitle: cfg.Subtitle,
		Mode:     tui.ModeStream,
		Source:   cfg.Relay,
		OnReset:  func() { streamer.Reset() },
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	notifier, closeStore, err := withRecorder(tui.ProgramNotifier{Program: p}, history.ModeStream, logger)
	if err != nil {
		return err
	}
	defer closeStore()
	streamer = driver.NewStreamer(classifier, notifier)

	sub := relay.NewSubscriber(cfg.Relay, logger)
	sub.OnError = func(err error) {
		p.Send(tui.StatusMsg{At: time.Now(), Err: err})
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sub.Run(ctx, func(text string) {
			if id, ok := streamer.Apply(text); ok {
				logger.Debug("vote", "option", id)
			}
		})
	}()

	logger.Info("watching relay", "url", cfg.Relay)
	_, err = p.Run()
	cancel()
	<-done

	if err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
