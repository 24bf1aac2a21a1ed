package rom

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
	"github.com/spf13/afero"
)

// extractFromZIP extracts the first ROM file from a ZIP archive
func extractFromZIP(f afero.File) ([]byte, string, error) {
	size, err := fileSize(f)
	if err != nil {
		return nil, "", err
	}
	r, err := zip.NewReader(f, size)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open zip: %w", err)
	}

	for _, zf := range r.File {
		if zf.FileInfo().IsDir() || !isROMFile(zf.Name) {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s in archive: %w", zf.Name, err)
		}
		defer rc.Close()

		data, err := limitedRead(rc)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", zf.Name, err)
		}
		return data, filepath.Base(zf.Name), nil
	}
	return nil, "", ErrNoROMFile
}

// extractFrom7z extracts the first ROM file from a 7z archive
func extractFrom7z(f afero.File) ([]byte, string, error) {
	size, err := fileSize(f)
	if err != nil {
		return nil, "", err
	}
	r, err := sevenzip.NewReader(f, size)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open 7z: %w", err)
	}

	for _, sf := range r.File {
		if sf.FileInfo().IsDir() || !isROMFile(sf.Name) {
			continue
		}
		rc, err := sf.Open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s in archive: %w", sf.Name, err)
		}
		defer rc.Close()

		data, err := limitedRead(rc)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", sf.Name, err)
		}
		return data, filepath.Base(sf.Name), nil
	}
	return nil, "", ErrNoROMFile
}

// extractFromRAR extracts the first ROM file from a RAR archive
func extractFromRAR(f afero.File) ([]byte, string, error) {
	r, err := rardecode.NewReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open rar: %w", err)
	}

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read rar entry: %w", err)
		}
		if header.IsDir || !isROMFile(header.Name) {
			continue
		}

		data, err := limitedRead(r)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", header.Name, err)
		}
		return data, filepath.Base(header.Name), nil
	}
	return nil, "", ErrNoROMFile
}

// extractFromGzip handles both plain .gz files and tarballs
func extractFromGzip(f afero.File, path string) ([]byte, string, error) {
	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gr.Close()

	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		return extractFromTar(gr)
	}

	data, err := limitedRead(gr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decompress gzip: %w", err)
	}

	name := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(name), ".gz") {
		name = name[:len(name)-3]
	}
	return data, name, nil
}

func extractFromTar(r io.Reader) ([]byte, string, error) {
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read tar entry: %w", err)
		}
		if header.Typeflag != tar.TypeReg || !isROMFile(header.Name) {
			continue
		}

		data, err := limitedRead(tr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s from tar: %w", header.Name, err)
		}
		return data, filepath.Base(header.Name), nil
	}
	return nil, "", ErrNoROMFile
}
