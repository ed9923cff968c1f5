package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/f3rmion/livevote/internal/llm"
	"github.com/spf13/cobra"
)

var synonymsCmd = &cobra.Command{
	Use:   "synonyms <label>",
	Short: "Suggest chat synonyms for an option label",
	Long: `Ask Claude for the ways a chat would type an option label: slang,
abbreviations, common misspellings and emoji-free variants.

Keywords already used by the configured options are left out, so the
output can be pasted straight into the words field of a new option.

Requires ANTHROPIC_API_KEY environment variable to be set.

Examples:
  livevote synonyms Talvez --language Portuguese
  livevote synonyms Maybe --max 10`,
	Args: cobra.ExactArgs(1),
	RunE: runSynonyms,
}

func init() {
	rootCmd.AddCommand(synonymsCmd)
	synonymsCmd.Flags().String("language", "", "chat language hint (e.g., Portuguese)")
	synonymsCmd.Flags().Int("max", 20, "maximum number of suggestions")
}

func runSynonyms(cmd *cobra.Command, args []string) error {
	language, _ := cmd.Flags().GetString("language")
	maxWords, _ := cmd.Flags().GetInt("max")

	client, err := llm.NewClient()
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	words, err := client.SuggestSynonyms(ctx, llm.SynonymRequest{
		Label:    args[0],
		Language: language,
		Avoid:    cfg.NewClassifier().Keys(),
		Max:      maxWords,
	})
	if err != nil {
		return fmt.Errorf("suggesting synonyms: %w", err)
	}
	if len(words) == 0 {
		fmt.Println("No new synonyms suggested.")
		return nil
	}

	fmt.Println(strings.Join(words, ", "))
	return nil
}
