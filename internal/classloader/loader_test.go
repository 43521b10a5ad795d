package classloader

import "testing"

// countingReader tracks how many times ReadClass is called, so tests can
// assert the Loader's miss cache avoids repeat archive reads.
type countingReader struct {
	reads  int
	closed bool
}

func (r *countingReader) ReadClass(internalName string) ([]byte, error) {
	r.reads++
	return nil, NewClassNotFoundError(internalName)
}
func (r *countingReader) ModTime() int64 { return 1 }
func (r *countingReader) Close() error   { r.closed = true; return nil }

func TestLoaderCachesMisses(t *testing.T) {
	reader := &countingReader{}
	l := NewLoader(reader, nil)

	if _, err := l.Get("a/Missing"); err == nil {
		t.Fatalf("expected a ClassNotFoundError")
	}
	if _, err := l.Get("a/Missing"); err == nil {
		t.Fatalf("expected a ClassNotFoundError on the second lookup too")
	}
	if reader.reads != 1 {
		t.Errorf("expected the archive to be read exactly once, got %d reads", reader.reads)
	}
}

func TestLoaderCloseClosesReader(t *testing.T) {
	reader := &countingReader{}
	l := NewLoader(reader, nil)
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !reader.closed {
		t.Errorf("expected Loader.Close to close the archive reader")
	}
}
