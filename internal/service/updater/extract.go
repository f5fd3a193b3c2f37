package updater

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	goupdate "github.com/doitdistributed/go-update"
)

var errIllegalPath = errors.New("archive entry escapes the destination")

// unpackTarGz unpacks a gzip-compressed tarball into dest.
// It returns the top-level entries it created, so the caller can remove them afterwards.
func unpackTarGz(archivePath, dest string) ([]string, error) {
	file, err := os.Open(filepath.Clean(archivePath))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}

	defer func() {
		_ = gz.Close()
	}()

	var (
		reader = tar.NewReader(gz)
		roots  = newRootSet()
	)

	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		// Insecure names are rejected below with the rest of the path checks.
		if err != nil && !errors.Is(err, tar.ErrInsecurePath) {
			return roots.list(), fmt.Errorf("read archive: %w", err)
		}

		target, err := entryTarget(dest, header.Name)
		if err != nil {
			return roots.list(), err
		}

		if target == "" {
			continue
		}

		roots.add(dest, target)

		switch header.Typeflag {
		case tar.TypeDir:
			if err = os.MkdirAll(target, dirMode); err != nil {
				return roots.list(), fmt.Errorf("mkdir %s: %w", target, err)
			}
		case tar.TypeReg:
			if err = writeEntry(target, reader, header.FileInfo().Mode().Perm()); err != nil {
				return roots.list(), err
			}
		case tar.TypeSymlink:
			if err = os.MkdirAll(filepath.Dir(target), dirMode); err != nil {
				return roots.list(), fmt.Errorf("mkdir for symlink %s: %w", target, err)
			}

			_ = os.Remove(target)

			if err = os.Symlink(header.Linkname, target); err != nil {
				return roots.list(), fmt.Errorf("symlink %s: %w", target, err)
			}
		default:
			// Hard links, devices and PAX metadata never appear in release tarballs.
			continue
		}
	}

	return roots.list(), nil
}

// unpackZip unpacks a zip archive into dest and returns the top-level entries it created.
func unpackZip(archivePath, dest string) ([]string, error) {
	archive, err := zip.OpenReader(filepath.Clean(archivePath))
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	defer func() {
		_ = archive.Close()
	}()

	roots := newRootSet()

	for _, entry := range archive.File {
		target, err := entryTarget(dest, entry.Name)
		if err != nil {
			return roots.list(), err
		}

		if target == "" {
			continue
		}

		roots.add(dest, target)

		if entry.FileInfo().IsDir() {
			if err = os.MkdirAll(target, dirMode); err != nil {
				return roots.list(), fmt.Errorf("mkdir %s: %w", target, err)
			}

			continue
		}

		if err = unpackZipEntry(entry, target); err != nil {
			return roots.list(), err
		}
	}

	return roots.list(), nil
}

// unpackZipEntry writes a single regular zip entry to target.
func unpackZipEntry(entry *zip.File, target string) error {
	source, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", entry.Name, err)
	}

	defer func() {
		_ = source.Close()
	}()

	mode := entry.Mode().Perm()
	if mode == 0 {
		mode = fileMode
	}

	return writeEntry(target, source, mode)
}

// writeEntry creates target with mode and fills it from source.
func writeEntry(target string, source io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), dirMode); err != nil {
		return fmt.Errorf("mkdir for file %s: %w", target, err)
	}

	file, err := os.OpenFile(filepath.Clean(target), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create file %s: %w", target, err)
	}

	if _, err = io.Copy(file, source); err != nil { //nolint:gosec // Release archives are produced by the project itself.
		_ = file.Close()
		return fmt.Errorf("copy file %s: %w", target, err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("close file %s: %w", target, err)
	}

	return nil
}

// entryTarget maps an archive entry name to a path under dest.
// It returns an empty path for entries that denote dest itself.
func entryTarget(dest, name string) (string, error) {
	clean := strings.TrimPrefix(filepath.ToSlash(filepath.Clean(filepath.FromSlash(name))), "./")
	if clean == "." || clean == "" || clean == "/" {
		return "", nil
	}

	target := filepath.Join(dest, filepath.FromSlash(clean))
	if err := ensureWithinRoot(dest, target); err != nil {
		return "", err
	}

	return target, nil
}

// ensureWithinRoot fails when target is not located under root.
func ensureWithinRoot(root, target string) error {
	root = filepath.Clean(root)
	target = filepath.Clean(target)

	if target == root {
		return nil
	}

	if !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return fmt.Errorf("%s: %w", target, errIllegalPath)
	}

	return nil
}

// replaceExecutable swaps the file at exePath for the contents of source,
// keeping the original path and permission bits.
func replaceExecutable(source, exePath string) error {
	info, err := os.Stat(exePath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", exePath, err)
	}

	replacement, err := os.Open(filepath.Clean(source))
	if err != nil {
		return fmt.Errorf("open %s: %w", source, err)
	}

	defer func() {
		_ = replacement.Close()
	}()

	options := goupdate.Options{
		TargetPath: exePath,
		TargetMode: info.Mode().Perm(),
	}

	if err = goupdate.Apply(replacement, options); err != nil {
		return fmt.Errorf("apply %s: %w", source, err)
	}

	// Apply hides instead of removing the old file when it is still locked.
	oldPath := filepath.Join(filepath.Dir(exePath), "."+filepath.Base(exePath)+".old")
	_ = os.Remove(oldPath)

	return nil
}

// removeAll deletes every path, returning the first failure.
func removeAll(paths []string) error {
	var first error

	for _, p := range paths {
		if err := os.RemoveAll(p); err != nil && first == nil {
			first = err
		}
	}

	return first
}

// rootSet records the distinct top-level paths created below a destination.
type rootSet struct {
	seen  map[string]struct{}
	order []string
}

// newRootSet creates an empty rootSet.
func newRootSet() *rootSet {
	return &rootSet{seen: make(map[string]struct{}, defaultMapCapacity)}
}

// add records the top-level component of target relative to dest.
func (s *rootSet) add(dest, target string) {
	rel, err := filepath.Rel(dest, target)
	if err != nil {
		return
	}

	top := filepath.Join(dest, strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]) //nolint:mnd // First path component.
	if _, ok := s.seen[top]; ok {
		return
	}

	s.seen[top] = struct{}{}
	s.order = append(s.order, top)
}

// list returns the recorded paths in creation order.
func (s *rootSet) list() []string {
	return s.order
}
