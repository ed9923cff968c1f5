package classify

import (
	"reflect"
	"sort"
	"testing"

	"github.com/f3rmion/livevote/internal/textnorm"
	"github.com/f3rmion/livevote/internal/vote"
)

func yesNo(yes, no []string) []vote.Option {
	return []vote.Option{
		{ID: vote.OptionYes, Label: "Yes", Synonyms: yes},
		{ID: vote.OptionNo, Label: "No", Synonyms: no},
	}
}

func TestParseSynonyms(t *testing.T) {
	got := ParseSynonyms(" Sim | S,claro que SIM,, sim |")
	want := []string{"sim", "s", "claro que sim"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseSynonyms = %q, want %q", got, want)
	}
}

func TestBuildKeywordSet(t *testing.T) {
	ks := BuildKeywordSet("sim|claro que sim", nil, "Yes")

	var words []string
	for w := range ks.Words {
		words = append(words, w)
	}
	sort.Strings(words)
	if !reflect.DeepEqual(words, []string{"sim", "yes"}) {
		t.Errorf("words = %q", words)
	}
	if !reflect.DeepEqual(ks.Phrases, []string{"claro que sim"}) {
		t.Errorf("phrases = %q", ks.Phrases)
	}
}

func TestBuildKeywordSetDefaults(t *testing.T) {
	ks := BuildKeywordSet("", DefaultNo, "Não")
	if !ks.HasWord("nao") || !ks.HasWord("nope") {
		t.Error("expected default no words")
	}
	found := false
	for _, p := range ks.Phrases {
		if p == "de jeito nenhum" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected default phrase, got %q", ks.Phrases)
	}

	// Explicit configuration replaces defaults entirely.
	ks = BuildKeywordSet("x", DefaultNo, "Não")
	if ks.HasWord("nope") {
		t.Error("explicit synonyms should replace defaults")
	}
	if !ks.HasWord("x") || !ks.HasWord("nao") {
		t.Error("expected explicit key and label key")
	}
}

func TestTallySnapshot(t *testing.T) {
	c := New(yesNo([]string{"sim", "s"}, []string{"nao", "n"}))

	got := c.TallySnapshot("Sim, nao, SIM , xyz, N")
	want := vote.Tally{vote.OptionYes: 2, vote.OptionNo: 2}
	if !got.Equal(want) {
		t.Errorf("tally = %v, want %v", got, want)
	}
}

func TestTallyEmptyCorpus(t *testing.T) {
	c := New(yesNo(nil, nil))
	got := c.TallySnapshot("")
	if got.Total() != 0 || len(got) != 2 {
		t.Errorf("expected zeroed tally with both options, got %v", got)
	}
}

func TestTallyResetsBetweenCalls(t *testing.T) {
	c := New(yesNo([]string{"sim"}, []string{"nao"}))
	first := c.Tally([]string{"sim", "sim"})
	second := c.Tally([]string{"nao"})
	if first[vote.OptionYes] != 2 {
		t.Errorf("first tally = %v", first)
	}
	if second[vote.OptionYes] != 0 || second[vote.OptionNo] != 1 {
		t.Errorf("second tally should not carry state, got %v", second)
	}
}

func TestTallyNeverExceedsUnits(t *testing.T) {
	c := New(yesNo(nil, nil))
	corpora := []string{
		"sim,nao,sim",
		"sim nao,,, ,claro que sim",
		"a,b,c,d",
		"yes no, no yes",
		",,,,",
	}
	for _, raw := range corpora {
		units := SplitCorpus(raw)
		if total := c.TallySnapshot(raw).Total(); total > len(units) {
			t.Errorf("%q: total %d exceeds %d units", raw, total, len(units))
		}
	}
}

func TestPhraseMatch(t *testing.T) {
	c := New(yesNo([]string{"claro que sim"}, []string{"nao"}))

	id, ok := c.Classify("claro que sim, obrigado")
	if !ok || id != vote.OptionYes {
		t.Errorf("Classify = %q, %v; want yes", id, ok)
	}

	// No token of the unit is a word key on its own.
	if _, ok := c.Classify("claro"); ok {
		t.Error("a phrase fragment should not match")
	}

	// Extra whitespace inside the unit still matches.
	if id, ok := c.Classify("Claro   que  SIM"); !ok || id != vote.OptionYes {
		t.Errorf("collapsed whitespace: got %q, %v", id, ok)
	}
}

func TestFirstMatchWins(t *testing.T) {
	// "sim" is a yes word key; "sim nao" is a no phrase key.
	opts := yesNo([]string{"sim"}, []string{"sim nao"})
	unit := "sim nao"

	c := New(opts)
	for i := 0; i < 50; i++ {
		id, ok := c.Classify(unit)
		if !ok || id != vote.OptionYes {
			t.Fatalf("run %d: got %q, %v; want yes", i, id, ok)
		}
	}

	// Reversing evaluation order flips the outcome.
	reversed := New([]vote.Option{opts[1], opts[0]})
	for i := 0; i < 50; i++ {
		id, ok := reversed.Classify(unit)
		if !ok || id != vote.OptionNo {
			t.Fatalf("run %d: got %q, %v; want no", i, id, ok)
		}
	}
}

func TestUnmatchedIsExcluded(t *testing.T) {
	c := New(yesNo([]string{"sim"}, []string{"nao"}))
	got := c.Tally([]string{"talvez", "xyz"})
	if got.Total() != 0 {
		t.Errorf("expected no counts, got %v", got)
	}
	if _, ok := got["none"]; ok {
		t.Error("unmatched units must not create a bucket")
	}
}

func TestThirdOption(t *testing.T) {
	opts := append(yesNo([]string{"sim"}, []string{"nao"}),
		vote.Option{ID: vote.OptionOther, Label: "Talvez", Synonyms: []string{"tlvz"}})
	c := New(opts)
	got := c.Tally([]string{"talvez", "tlvz", "sim", "hmm"})
	want := vote.Tally{vote.OptionYes: 1, vote.OptionNo: 0, vote.OptionOther: 2}
	if !got.Equal(want) {
		t.Errorf("tally = %v, want %v", got, want)
	}
}

func TestApplyMessageStreaming(t *testing.T) {
	opts := []vote.Option{
		{ID: "A", Label: "A", Synonyms: []string{"a"}},
		{ID: "B", Label: "B", Synonyms: []string{"b"}},
		{ID: "C", Label: "C", Synonyms: []string{"c"}},
	}
	c := New(opts)
	tally := vote.NewTally(opts)

	for _, msg := range []string{"a", "A ", "b", "c"} {
		c.ApplyMessage(msg, tally)
	}
	want := vote.Tally{"A": 2, "B": 1, "C": 1}
	if !tally.Equal(want) {
		t.Errorf("tally = %v, want %v", tally, want)
	}

	c.ApplyMessage("a", tally)
	if tally["A"] != 3 {
		t.Errorf("streaming counts must accumulate, got %v", tally)
	}
}

func TestStreamingIgnoresPhrases(t *testing.T) {
	c := New(yesNo([]string{"claro que sim"}, []string{"nao"}))
	tally := vote.NewTally(c.Options())

	if _, ok := c.ApplyMessage("claro que sim", tally); ok {
		t.Error("streaming policy must not use phrase keys")
	}
	if _, ok := c.Classify("claro que sim"); !ok {
		t.Error("snapshot policy should still match the phrase")
	}
}

func TestApplyMessageStopsAtMaxCount(t *testing.T) {
	c := New(yesNo([]string{"sim"}, nil))
	tally := vote.Tally{vote.OptionYes: vote.MaxCount}
	if _, ok := c.ApplyMessage("sim", tally); ok {
		t.Error("expected increment to be refused at MaxCount")
	}
	if tally[vote.OptionYes] != vote.MaxCount {
		t.Errorf("count changed: %d", tally[vote.OptionYes])
	}
}

func TestOverlaps(t *testing.T) {
	c := New(yesNo([]string{"ok", "sim"}, []string{"ok", "nao"}))
	overlaps := c.Overlaps()
	if len(overlaps) != 1 {
		t.Fatalf("expected one overlap, got %v", overlaps)
	}
	if overlaps[0].Key != "ok" || overlaps[0].Winner != vote.OptionYes || overlaps[0].Loser != vote.OptionNo {
		t.Errorf("unexpected overlap %+v", overlaps[0])
	}
}

func TestASCIITokenizer(t *testing.T) {
	c := New(yesNo([]string{"sim"}, []string{"nao"}), WithTokenizer(textnorm.NewTokenizer(textnorm.ModeASCII)))
	if id, ok := c.Classify("NÃO!!"); !ok || id != vote.OptionNo {
		t.Errorf("got %q, %v; want no", id, ok)
	}
}

func TestRomanizedMatching(t *testing.T) {
	c := New(yesNo([]string{"shi", "dui"}, []string{"bu"}), WithRomanizer(textnorm.NewRomanizer()))
	if id, ok := c.Classify("是"); !ok || id != vote.OptionYes {
		t.Errorf("got %q, %v; want yes", id, ok)
	}
	if id, ok := c.Classify("不"); !ok || id != vote.OptionNo {
		t.Errorf("got %q, %v; want no", id, ok)
	}
}

func TestSplitCorpus(t *testing.T) {
	got := SplitCorpus(" a ,, b,  ,c ")
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("SplitCorpus = %q", got)
	}
}
