// Package textutil normalizes user-supplied names for safe filesystem use.
//
// Accented characters are folded to their base letters with golang.org/x/text
// before unsafe characters are replaced, so output filenames chosen in the CLI
// or API stay portable across filesystems and download clients.
package textutil
