// Package acquire produces the local audio file a transcription runs against.
//
// Remote media is fetched with yt-dlp into a temp_audio.* file and converted to
// MP3 with ffmpeg. Uploaded and local files are stored unchanged as
// temp_<name> after an extension allowlist check. Names are sanitized through
// textutil before touching the filesystem.
package acquire
