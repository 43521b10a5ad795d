package classloader

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ArchiveReader yields raw class-file bytes for an internal class name
// ("a/b/C"), resolving it to "a/b/C.class" within whatever backing store
// it wraps: a plain stdlib implementation over either a .jar/.zip file
// or a directory of .class files.
type ArchiveReader interface {
	ReadClass(internalName string) ([]byte, error)
	// ModTime identifies the archive's freshness for the persistent cache
	// key; two different archives (or the same archive rebuilt) must not
	// share cached bytes.
	ModTime() int64
	Close() error
}

// OpenArchive opens path as a zip/jar file or, if it is a directory, as a
// directory of .class files, choosing based on the path's file mode.
func OpenArchive(path string) (ArchiveReader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	if info.IsDir() {
		return &dirReader{root: path, modTime: info.ModTime().Unix()}, nil
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	index := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, ".class") {
			index[classNameFromZipPath(f.Name)] = f
		}
	}
	return &zipReader{zr: zr, index: index, modTime: info.ModTime().Unix()}, nil
}

func classNameFromZipPath(name string) string {
	return strings.TrimSuffix(name, ".class")
}

type zipReader struct {
	zr      *zip.ReadCloser
	index   map[string]*zip.File
	modTime int64
}

func (r *zipReader) ReadClass(internalName string) ([]byte, error) {
	f, ok := r.index[internalName]
	if !ok {
		return nil, NewClassNotFoundError(internalName)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s in archive: %w", internalName, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (r *zipReader) ModTime() int64 { return r.modTime }
func (r *zipReader) Close() error   { return r.zr.Close() }

type dirReader struct {
	root    string
	modTime int64
}

func (r *dirReader) ReadClass(internalName string) ([]byte, error) {
	path := filepath.Join(r.root, filepath.FromSlash(internalName)+".class")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewClassNotFoundError(internalName)
		}
		return nil, fmt.Errorf("reading %s: %w", internalName, err)
	}
	return data, nil
}

func (r *dirReader) ModTime() int64 { return r.modTime }
func (r *dirReader) Close() error   { return nil }
