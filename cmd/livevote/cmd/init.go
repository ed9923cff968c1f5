package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/f3rmion/livevote/internal/classify"
	"github.com/f3rmion/livevote/internal/config"
	"github.com/f3rmion/livevote/internal/vote"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize livevote configuration",
	Long: `Write a template config.yaml to your config directory.

The template holds the default Yes/No vote with the built-in synonym lists
spelled out, so you can edit labels, words and colors in place.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path := getConfigFile()

	// Check if config already exists
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(renderConfigTemplate()), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	// Make sure the template we just wrote is usable.
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("template is invalid: %w", err)
	}

	fmt.Printf("Created %s\n\n", path)
	fmt.Println("Next steps:")
	fmt.Println("  1. Edit the labels and words for your vote")
	fmt.Println("  2. Run 'livevote tally' with some sample chat to check the matching")
	fmt.Println("  3. Run 'livevote' to start the dashboard")

	return nil
}

// renderConfigTemplate fills the template with the built-in defaults.
func renderConfigTemplate() string {
	return fmt.Sprintf(configTemplate,
		config.DefaultDomain,
		strings.Join(classify.DefaultSynonyms(vote.OptionYes), ", "),
		config.DefaultColors[0],
		strings.Join(classify.DefaultSynonyms(vote.OptionNo), ", "),
		config.DefaultColors[1],
		config.DefaultColors[2],
	)
}

const configTemplate = `# livevote configuration

# Chat aggregation service. livevote polls {domain}/wordcloud.
domain: %s

# WebSocket relay for 'livevote watch'.
# relay: ws://localhost:3900/ws

title: ""
subtitle: ""

interval: 1s
timeout: 5s

# Tokenizer: auto, unicode or ascii.
tokenizer: auto

# Transliterate Chinese characters to pinyin before matching.
romanize: false

# Purge the option words from the service before the first poll.
clear_on_start: true

# Options are checked in order; the first one that matches wins.
# Words are separated by ',' or '|'. Entries with spaces are phrases and
# match anywhere inside a wordcloud entry. Leave words empty to use the
# built-in list. The label always counts as a word.
options:
  - id: "yes"
    label: "Sim"
    words: "%s"
    color: "%s"

  - id: "no"
    label: "Não"
    words: "%s"
    color: "%s"

  # A third option is optional.
  # - id: "other"
  #   label: "Talvez"
  #   words: "talvez, sei la"
  #   color: "%s"
`
