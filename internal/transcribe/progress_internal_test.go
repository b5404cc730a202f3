package transcribe

import (
	"bufio"
	"reflect"
	"strings"
	"testing"
)

func TestMatchLineFirstRuleWins(t *testing.T) {
	rules := DefaultRules()
	rule, ok := MatchLine(rules, "Detecting language while Transcribing")
	if !ok || rule.State != StateDetectingLanguage {
		t.Fatalf("expected detecting-language rule, got %+v ok=%v", rule, ok)
	}
	if _, ok := MatchLine(rules, "100%|#####| 3000/3000"); ok {
		t.Fatal("expected unmatched line")
	}
	if _, ok := MatchLine(rules, ""); ok {
		t.Fatal("expected empty line to be ignored")
	}
}

func TestReporterSuppressesRepeatedStates(t *testing.T) {
	var got []State
	rep := &reporter{fn: func(p Progress) { got = append(got, p.State) }}
	rep.emit(progressIdle)
	rep.emit(Progress{State: StateTranscribing})
	rep.emit(Progress{State: StateTranscribing})
	rep.emit(progressComplete)
	want := []State{StateIdle, StateTranscribing, StateComplete}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected states %v", got)
	}
}

func TestScanTerminalLinesSplitsCarriageReturns(t *testing.T) {
	scanner := bufio.NewScanner(strings.NewReader("a\rb\r\nc\nd"))
	scanner.Split(scanTerminalLines)
	var tokens []string
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	want := []string{"a", "b", "", "c", "d"}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("unexpected tokens %q", tokens)
	}
}

func TestStateString(t *testing.T) {
	if StateDetectingLanguage.String() != "detecting_language" {
		t.Fatalf("unexpected string %q", StateDetectingLanguage.String())
	}
	if !StateFailed.Terminal() || StateTranscribing.Terminal() {
		t.Fatal("unexpected terminal classification")
	}
}

func TestArtifactsFor(t *testing.T) {
	got := ArtifactsFor("/work/dir.v2/audio.mp3")
	want := Artifacts{SRT: "/work/dir.v2/audio.srt", TXT: "/work/dir.v2/audio.txt", TSV: "/work/dir.v2/audio.tsv"}
	if got != want {
		t.Fatalf("unexpected artifacts %+v", got)
	}
	if !ArtifactsFor("").Empty() {
		t.Fatal("expected empty artifacts for empty path")
	}
	if path, ok := got.Path("TSV"); !ok || path != want.TSV {
		t.Fatalf("unexpected tsv path %q", path)
	}
	if _, ok := got.Path("json"); ok {
		t.Fatal("expected unknown kind to be rejected")
	}
}
