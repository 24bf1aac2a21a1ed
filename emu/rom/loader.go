// Package rom reads program images from disk. Plain files are returned
// verbatim; ZIP, gzip, tar.gz, 7z and RAR archives are unwrapped to their
// first ROM entry.
package rom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Magic bytes for format detection
var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06} // empty zip
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
)

// MaxSize caps how much is read from any file or archive entry. Programs
// larger than the machine's program region are rejected later by the core.
const MaxSize = 64 * 1024

// Extensions recognised as ROM entries inside archives.
var Extensions = []string{".ch8", ".c8", ".rom", ".bin"}

var ErrNoROMFile = errors.New("no ROM file found in archive")

var ErrFileTooLarge = errors.New("file exceeds maximum size limit")

type formatType int

const (
	formatRaw formatType = iota
	formatZIP
	format7z
	formatGzip
	formatRAR
)

func (f formatType) String() string {
	switch f {
	case formatZIP:
		return "zip"
	case format7z:
		return "7z"
	case formatGzip:
		return "gzip"
	case formatRAR:
		return "rar"
	}
	return "raw"
}

// Load reads a ROM from path on fs. It returns the program bytes and the
// base name of the file they came from.
func Load(fs afero.Fs, path string) ([]byte, string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := f.Read(header)
	if err != nil && err != io.EOF {
		return nil, "", fmt.Errorf("failed to read file header: %w", err)
	}
	header = header[:n]

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("failed to seek file: %w", err)
	}

	switch detectFormat(header, path) {
	case formatZIP:
		return extractFromZIP(f)
	case format7z:
		return extractFrom7z(f)
	case formatGzip:
		return extractFromGzip(f, path)
	case formatRAR:
		return extractFromRAR(f)
	}

	data, err := limitedRead(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read ROM: %w", err)
	}
	return data, filepath.Base(path), nil
}

// detectFormat trusts a ROM extension first, since opcodes such as
// 1F8B look like archive magic. Otherwise magic bytes win over the
// archive extension and anything unrecognised is a raw ROM.
func detectFormat(header []byte, path string) formatType {
	if isROMFile(path) {
		return formatRaw
	}

	switch {
	case bytes.HasPrefix(header, magicZIP), bytes.HasPrefix(header, magicZIPEnd):
		return formatZIP
	case bytes.HasPrefix(header, magicRAR):
		return formatRAR
	case bytes.HasPrefix(header, magic7z):
		return format7z
	case bytes.HasPrefix(header, magicGzip):
		return formatGzip
	}

	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return formatZIP
	case strings.HasSuffix(lower, ".7z"):
		return format7z
	case strings.HasSuffix(lower, ".gz"), strings.HasSuffix(lower, ".tgz"):
		return formatGzip
	case strings.HasSuffix(lower, ".rar"):
		return formatRAR
	}
	return formatRaw
}

func isROMFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// limitedRead reads from r up to MaxSize bytes, returning an error if exceeded
func limitedRead(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

func fileSize(f afero.File) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat file: %w", err)
	}
	return info.Size(), nil
}
