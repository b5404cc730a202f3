// Package preflight provides readiness checks for the external tools and
// filesystem paths Textify depends on.
//
// These checks run in two contexts:
//   - The workflow runner calls RequireTools before every job so a missing
//     yt-dlp, ffmpeg, or whisper is reported before any process is spawned.
//   - The CLI "textify check" command and the API health endpoint use RunAll
//     to display tool and directory health.
package preflight
