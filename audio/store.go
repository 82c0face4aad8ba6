package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/voice-doc/logger"
)

const (
	uploadsDir = "uploads"
	outputsDir = "outputs"

	maxIDLength = 64

	// PublicPrefix is the URL prefix under which outputs are served.
	PublicPrefix = "/temp"
)

// Store stages audio on disk. Uploads are keyed by request id so concurrent
// requests never share a file; outputs are public and served under PublicPrefix.
type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	for _, dir := range []string{uploadsDir, outputsDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, errors.Wrapf(err, "create %s dir", dir)
		}
	}
	return &Store{root: root}, nil
}

// OutputDir is the directory served under PublicPrefix.
func (s *Store) OutputDir() string {
	return filepath.Join(s.root, outputsDir)
}

// SaveUpload copies src to uploads/<id>-<uuid><ext> and returns the path.
// The id only labels the file; the UUID keeps it unique even when callers
// reuse an id.
func (s *Store) SaveUpload(id string, src io.Reader, ext string) (string, error) {
	name := uuid.NewString()
	if id = sanitize(id); id != "" {
		if len(id) > maxIDLength {
			id = id[:maxIDLength]
		}
		name = id + "-" + name
	}
	name += normalizeExt(ext, ".mp3")
	path := filepath.Join(s.root, uploadsDir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", errors.Wrap(err, "create upload file")
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(path)
		return "", errors.Wrap(err, "write upload file")
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", errors.Wrap(err, "close upload file")
	}
	return path, nil
}

// SaveOutput writes synthesized audio as tts_output_<uuid><ext>.
func (s *Store) SaveOutput(data []byte, ext string) (fileName string, path string, err error) {
	fileName = fmt.Sprintf("tts_output_%s%s", uuid.NewString(), normalizeExt(ext, ".wav"))
	path = filepath.Join(s.OutputDir(), fileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", errors.Wrap(err, "write output file")
	}
	return fileName, path, nil
}

// URL returns the public URL of an output file.
func (s *Store) URL(fileName string) string {
	return PublicPrefix + "/" + fileName
}

// Remove deletes a staged file, ignoring files that are already gone.
func (s *Store) Remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warnf("remove staged audio %s: %v", path, err)
	}
}

func normalizeExt(ext, fallback string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return fallback
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if sanitize(ext[1:]) != ext[1:] || len(ext) > 6 {
		return fallback
	}
	return ext
}

// sanitize keeps ids to characters that are safe in a file name.
func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return -1
	}, id)
}
