package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/f3rmion/livevote/internal/summary"
	"github.com/f3rmion/livevote/internal/vote"
	"github.com/spf13/cobra"
)

var tallyCmd = &cobra.Command{
	Use:   "tally [file]",
	Short: "Classify a corpus and print the tally",
	Long: `Classify text from a file (or stdin) and print the resulting tally.

By default the input is treated as a wordcloud snapshot: it is split on
commas and every entry is classified with phrase and word matching.

With --stream every line is treated as one chat message and classified
word by word, the way 'livevote watch' counts relay messages.

Examples:
  echo "Sim, nao, SIM , xyz, N" | livevote tally
  livevote tally --stream chat.log
  livevote tally --format line words.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTally,
}

func init() {
	rootCmd.AddCommand(tallyCmd)
	tallyCmd.Flags().Bool("stream", false, "treat each line as a streamed chat message")
	tallyCmd.Flags().StringP("format", "f", "block", "output format: block, line")
	tallyCmd.Flags().String("template", "", "custom text/template for the summary")
}

func runTally(cmd *cobra.Command, args []string) error {
	stream, _ := cmd.Flags().GetBool("stream")
	format, _ := cmd.Flags().GetString("format")
	tmpl, _ := cmd.Flags().GetString("template")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	classifier := cfg.NewClassifier()

	in := io.Reader(os.Stdin)
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	var t vote.Tally
	if stream {
		t = vote.NewTally(classifier.Options())
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			classifier.ApplyMessage(scanner.Text(), t)
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	} else {
		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		// Newlines separate entries as well as commas.
		t = classifier.TallySnapshot(strings.ReplaceAll(string(data), "\n", ","))
	}

	renderer := summary.NewRenderer(classifier.Options(), cfg.Title, cfg.Subtitle)
	switch {
	case tmpl != "":
		err = renderer.SetTemplate(tmpl)
	case format == "line":
		err = renderer.SetTemplate(summary.LineTemplate)
	case format != "block":
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}

	out, err := renderer.Render(t, time.Now())
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
