package classloader

import "github.com/nbtschema/inferencer/internal/classfile"

// Loader resolves an internal class name to a
// parsed classfile.ClassFile exactly once per run, regardless of how many
// times the memoizer asks for it.
type Loader struct {
	reader  ArchiveReader
	cache   *ByteCache // nil if persistence is disabled
	modTime int64

	parsed map[string]*classfile.ClassFile
	misses map[string]struct{}
}

// NewLoader wraps an ArchiveReader. cache may be nil to disable the
// persistent byte cache (archive reads still get parsed once per run via
// the in-memory map regardless).
func NewLoader(reader ArchiveReader, cache *ByteCache) *Loader {
	return &Loader{
		reader:  reader,
		cache:   cache,
		modTime: reader.ModTime(),
		parsed:  make(map[string]*classfile.ClassFile),
		misses:  make(map[string]struct{}),
	}
}

// Get returns the parsed class file for internalName, or a
// *ClassNotFoundError if the archive has no such class. Both parsed
// classes and prior misses are cached for the Loader's lifetime.
func (l *Loader) Get(internalName string) (*classfile.ClassFile, error) {
	if cf, ok := l.parsed[internalName]; ok {
		return cf, nil
	}
	if _, ok := l.misses[internalName]; ok {
		return nil, NewClassNotFoundError(internalName)
	}

	data, err := l.bytesFor(internalName)
	if err != nil {
		if _, ok := err.(*ClassNotFoundError); ok {
			l.misses[internalName] = struct{}{}
		}
		return nil, err
	}

	cf, err := classfile.Parse(data)
	if err != nil {
		return nil, err
	}
	l.parsed[internalName] = cf
	return cf, nil
}

func (l *Loader) bytesFor(internalName string) ([]byte, error) {
	if l.cache != nil {
		if data, ok := l.cache.Get(internalName, l.modTime); ok {
			return data, nil
		}
	}
	data, err := l.reader.ReadClass(internalName)
	if err != nil {
		return nil, err
	}
	if l.cache != nil {
		_ = l.cache.Put(internalName, l.modTime, data)
	}
	return data, nil
}

// Close releases the underlying archive and cache handles.
func (l *Loader) Close() error {
	var firstErr error
	if l.cache != nil {
		if err := l.cache.Close(); err != nil {
			firstErr = err
		}
	}
	if err := l.reader.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
