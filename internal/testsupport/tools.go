package testsupport

// StubTranscript is the text the fake whisper writes to every artifact.
const StubTranscript = "hello from textify\n"

const fakeYTDLP = `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out="$2"; shift; fi
  shift
done
[ -n "$out" ] || { echo "ERROR: no output template" >&2; exit 2; }
path=$(printf '%s' "$out" | sed 's/%(ext)s/m4a/')
printf 'media' > "$path"
`

const fakeFFmpeg = `#!/bin/sh
for last; do :; done
printf 'mp3' > "$last"
`

const fakeWhisper = `#!/bin/sh
audio="$1"
name=$(basename "$audio")
base="${name%.*}"
dir=$(dirname "$audio")
while [ $# -gt 0 ]; do
  if [ "$1" = "--output_dir" ]; then dir="$2"; shift; fi
  shift
done
printf 'Detecting language using up to the first 30 seconds.\n' >&2
printf 'Detected language: English\n' >&2
printf 'Transcribing 100%%|#####|\r' >&2
printf 'hello from textify\n' > "$dir/$base.txt"
printf 'hello from textify\n' > "$dir/$base.srt"
printf 'hello from textify\n' > "$dir/$base.tsv"
`
