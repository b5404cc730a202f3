// Package deps checks the execution path for the external tools Textify
// drives and turns absences into a user-facing error with installation hints.
package deps
