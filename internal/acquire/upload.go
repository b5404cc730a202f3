package acquire

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"textify/internal/fileutil"
	"textify/internal/services"
	"textify/internal/textutil"
)

const (
	stageUpload = "upload"

	// DefaultTranscriptName is the output name used when an upload omits one.
	DefaultTranscriptName = "transcription"

	uploadPrefix = "temp_"
)

// SupportedExtensions lists the media types accepted for upload.
var SupportedExtensions = []string{"mp3", "wav", "mp4", "avi", "mov"}

// CheckExtension rejects file names whose extension is not supported.
func CheckExtension(name string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" || !slices.Contains(SupportedExtensions, ext) {
		return services.Wrap(services.ErrValidation, stageUpload, "check extension",
			fmt.Sprintf("unsupported file type %q; expected one of %s", filepath.Base(name), strings.Join(SupportedExtensions, ", ")), nil)
	}
	return nil
}

// UploadPath returns where an upload named originalName is stored in dir.
func UploadPath(originalName, dir string) (string, error) {
	if err := CheckExtension(originalName); err != nil {
		return "", err
	}
	name := textutil.SanitizeFileName(filepath.Base(originalName))
	if name == "" || strings.TrimSuffix(name, filepath.Ext(name)) == "" {
		return "", services.Wrap(services.ErrValidation, stageUpload, "check name", "file name is empty", nil)
	}
	return filepath.Join(dir, uploadPrefix+name), nil
}

// SaveUpload writes r to <dir>/temp_<name> and returns that path.
func SaveUpload(r io.Reader, originalName, dir string) (string, error) {
	target, err := UploadPath(originalName, dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, stageUpload, "prepare directory", dir, err)
	}
	if _, err := fileutil.WriteStream(r, target); err != nil {
		return "", services.Wrap(services.ErrExternalTool, stageUpload, "save file", filepath.Base(target), err)
	}
	return target, nil
}

// ImportLocal copies a file from disk into dir under the same naming as an
// upload.
func ImportLocal(path, dir string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", services.Wrap(services.ErrNotFound, stageUpload, "open source", path, err)
		}
		return "", services.Wrap(services.ErrValidation, stageUpload, "open source", path, err)
	}
	if info.IsDir() {
		return "", services.Wrap(services.ErrValidation, stageUpload, "open source", path+" is a directory", nil)
	}
	target, err := UploadPath(path, dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, stageUpload, "prepare directory", dir, err)
	}
	if err := fileutil.CopyFileVerified(path, target); err != nil {
		return "", services.Wrap(services.ErrExternalTool, stageUpload, "copy file", filepath.Base(target), err)
	}
	return target, nil
}
