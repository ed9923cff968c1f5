package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/f3rmion/livevote/internal/wordcloud"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Purge counted words from the aggregation service",
	Long: `Ask the aggregation service to forget the words counted for every option,
so a new vote starts from zero. The dashboard does this on start unless
clear_on_start is false in the config file.`,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().Bool("dry-run", false, "print the keys without calling the service")
}

func runClear(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	keys := cfg.NewClassifier().Keys()

	if dryRun {
		fmt.Println(strings.Join(keys, ","))
		return nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	client := wordcloud.NewClient(cfg.Domain, timeout)
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if err := client.Clear(ctx, keys); err != nil {
		return fmt.Errorf("clearing chat: %w", err)
	}

	fmt.Printf("Cleared %d keys on %s\n", len(keys), client.BaseURL())
	return nil
}
