package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/travigo/gtfs-loader/pkg/gtfs"
)

// Finder leaves a metadata folder next to the real content of zips built on
// macOS.
const macOSMetadataDir = "__MACOSX/"

// extractZip unpacks the archive at archivePath into dir. When every file sits in
// one top level directory that directory is stripped, so the table files
// always end up directly in dir.
func extractZip(archivePath string, dir string) error {
	archive, err := zip.OpenReader(archivePath)
	if err != nil {
		// ErrInsecurePath still hands back an open reader
		if archive != nil {
			archive.Close()
		}
		return fmt.Errorf("%w: %s", gtfs.ErrExtractionFailed, err)
	}
	defer archive.Close()

	prefix := sharedDirectory(archive.File)
	root := filepath.Clean(dir) + string(os.PathSeparator)

	extracted := 0
	for _, zipFile := range archive.File {
		if skipEntry(zipFile) {
			continue
		}

		name := strings.TrimPrefix(zipFile.Name, prefix)
		target := filepath.Join(dir, filepath.FromSlash(name))
		if !strings.HasPrefix(target, root) {
			return fmt.Errorf("%w: entry %q escapes the extraction directory", gtfs.ErrExtractionFailed, zipFile.Name)
		}

		if err := extractFile(zipFile, target); err != nil {
			return fmt.Errorf("%w: %s: %s", gtfs.ErrExtractionFailed, zipFile.Name, err)
		}
		extracted++
	}

	log.Debug().Str("dir", dir).Int("files", extracted).Msg("Extracted feed archive")

	return nil
}

func extractFile(zipFile *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	reader, err := zipFile.Open()
	if err != nil {
		return err
	}
	defer reader.Close()

	file, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func skipEntry(zipFile *zip.File) bool {
	return zipFile.FileInfo().IsDir() || strings.HasPrefix(zipFile.Name, macOSMetadataDir)
}

// sharedDirectory returns "name/" when every file in the archive lives under
// the same top level directory, and "" otherwise.
func sharedDirectory(files []*zip.File) string {
	shared := ""

	for _, zipFile := range files {
		if skipEntry(zipFile) {
			continue
		}

		top, _, nested := strings.Cut(path.Clean(zipFile.Name), "/")
		if !nested || top == ".." {
			return ""
		}

		if shared == "" {
			shared = top
		} else if shared != top {
			return ""
		}
	}

	if shared == "" {
		return ""
	}

	return shared + "/"
}
