package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/f3rmion/livevote/internal/config"
	"github.com/f3rmion/livevote/internal/vote"
	"github.com/spf13/viper"
)

func TestConfigTemplateLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(renderConfigTemplate()), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	opts := cfg.VoteOptions()
	if len(opts) != 2 || opts[0].ID != vote.OptionYes || opts[1].ID != vote.OptionNo {
		t.Fatalf("options = %+v", opts)
	}

	id, ok := cfg.NewClassifier().Classify("sim")
	if !ok || id != vote.OptionYes {
		t.Errorf("Classify(sim) = %q, %v", id, ok)
	}
}

func TestLoadConfigAppliesOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("config_file", filepath.Join(t.TempDir(), "missing.yaml"))
	viper.Set("domain", "https://chat.example.com")
	viper.Set("query", "optionA=Pizza&optionB=Burger&yesWords=pizza,pz")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Domain != "https://chat.example.com" {
		t.Errorf("domain = %q", cfg.Domain)
	}
	if cfg.Options[0].Label != "Pizza" || cfg.Options[1].Label != "Burger" {
		t.Errorf("labels = %q, %q", cfg.Options[0].Label, cfg.Options[1].Label)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("config_file", filepath.Join(t.TempDir(), "missing.yaml"))
	viper.Set("domain", "ftp://nope")

	if _, err := loadConfig(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestFormatCounts(t *testing.T) {
	got := formatCounts(vote.Tally{vote.OptionNo: 2, vote.OptionYes: 5})
	if want := "no=2 yes=5"; got != want {
		t.Errorf("formatCounts = %q, want %q", got, want)
	}
}
