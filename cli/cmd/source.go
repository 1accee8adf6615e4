package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/klauspost/readahead"

	"github.com/ardnew/tmpl/log"
)

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Source is the concatenated text of one or more input files.
type Source struct {
	Names []string
	Text  string
}

// fileKey uniquely identifies a file by its device and inode numbers,
// so a file named twice (by symlink, relative path, ...) is read once.
type fileKey struct {
	dev uint64
	ino uint64
}

// ReadSources reads every path in order and joins their contents with
// newlines. The path "-" reads standard input; it is read once, after all
// regular files. No paths reads standard input.
func ReadSources(ctx context.Context, paths ...string) (Source, error) {
	if len(paths) == 0 {
		paths = []string{stdinSource}
	}

	var (
		src      Source
		parts    []string
		hasStdin bool
	)

	seen := make(map[fileKey]struct{})

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		text, ok, err := readUniqueFile(path, seen)
		if err != nil {
			return Source{}, ErrReadSource.
				With(slog.String("file", path)).
				Wrap(err)
		}

		if !ok {
			log.DebugContext(ctx, "skip duplicate source", slog.String("file", path))

			continue
		}

		src.Names = append(src.Names, path)
		parts = append(parts, text)
	}

	if hasStdin {
		text, err := readAll(stdinFrom(ctx))
		if err != nil {
			return Source{}, ErrReadSource.
				With(slog.String("file", stdinSource)).
				Wrap(err)
		}

		src.Names = append(src.Names, stdinSource)
		parts = append(parts, text)
	}

	for i, part := range parts {
		if i > 0 && !strings.HasSuffix(parts[i-1], "\n") {
			src.Text += "\n"
		}

		src.Text += part
	}

	log.DebugContext(ctx, "read sources",
		slog.Any("files", src.Names),
		slog.Int("bytes", len(src.Text)),
	)

	return src, nil
}

// readUniqueFile reads the file at path unless a file with the same device
// and inode was already read.
func readUniqueFile(path string, seen map[fileKey]struct{}) (string, bool, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, dup := seen[key]; dup {
			return "", false, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return "", false, err
	}
	defer file.Close()

	text, err := readAll(file)

	return text, err == nil, err
}

func readAll(r io.Reader) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)

	return string(data), err
}

// makeFileKey returns false if info does not carry a *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
