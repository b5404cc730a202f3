package transcribe

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Artifact kinds produced by whisper next to the audio input.
const (
	KindSRT = "srt"
	KindTXT = "txt"
	KindTSV = "tsv"
)

// Kinds lists the artifact kinds in their canonical order.
var Kinds = []string{KindSRT, KindTXT, KindTSV}

// Artifacts holds the subtitle, plain-text, and tab-separated outputs of a
// transcription. The zero value is the empty set that signals failure.
type Artifacts struct {
	SRT string
	TXT string
	TSV string
}

// ArtifactsFor derives the artifact paths for audioPath by replacing its
// extension.
func ArtifactsFor(audioPath string) Artifacts {
	if strings.TrimSpace(audioPath) == "" {
		return Artifacts{}
	}
	base := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	return Artifacts{
		SRT: base + "." + KindSRT,
		TXT: base + "." + KindTXT,
		TSV: base + "." + KindTSV,
	}
}

// Empty reports whether the set carries no paths.
func (a Artifacts) Empty() bool {
	return a.SRT == "" && a.TXT == "" && a.TSV == ""
}

// Paths returns the paths in srt, txt, tsv order.
func (a Artifacts) Paths() []string {
	if a.Empty() {
		return nil
	}
	return []string{a.SRT, a.TXT, a.TSV}
}

// Path returns the path for kind.
func (a Artifacts) Path(kind string) (string, bool) {
	var path string
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindSRT:
		path = a.SRT
	case KindTXT:
		path = a.TXT
	case KindTSV:
		path = a.TSV
	default:
		return "", false
	}
	return path, path != ""
}

// Missing returns the kinds whose files do not exist on disk.
func (a Artifacts) Missing() []string {
	var missing []string
	for _, kind := range Kinds {
		path, ok := a.Path(kind)
		if !ok {
			missing = append(missing, kind)
			continue
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			missing = append(missing, kind)
		}
	}
	return missing
}
