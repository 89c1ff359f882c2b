package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestRotatingWriterRotatesAtLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.log")

	rw, err := NewRotatingWriter(path, RotationConfig{MaxSizeMB: 1, MaxBackups: 2})
	if err != nil {
		t.Fatalf("NewRotatingWriter: %v", err)
	}
	defer rw.Close()

	chunk := []byte(strings.Repeat("x", 600*1024))
	for i := 0; i < 3; i++ {
		if _, err := rw.Write(chunk); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	for _, p := range []string{path, path + ".1", path + ".2"} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s to exist: %v", p, err)
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Error("kept more backups than configured")
	}
	if rw.CurrentSize() != int64(len(chunk)) {
		t.Errorf("CurrentSize() = %d, want %d", rw.CurrentSize(), len(chunk))
	}
}

func TestRotatingWriterNoBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.log")
	rw, err := NewRotatingWriter(path, RotationConfig{MaxSizeMB: 1, MaxBackups: 0})
	if err != nil {
		t.Fatal(err)
	}
	defer rw.Close()

	chunk := []byte(strings.Repeat("y", 700*1024))
	rw.Write(chunk)
	rw.Write(chunk)

	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Error("backup created with MaxBackups = 0")
	}
}

func TestRotatingWriterDisabledRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.log")
	rw, err := NewRotatingWriter(path, RotationConfig{})
	if err != nil {
		t.Fatal(err)
	}
	defer rw.Close()

	rw.Write([]byte(strings.Repeat("z", 2*1024*1024)))
	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Error("rotated with MaxSizeMB = 0")
	}
}

func TestRotatingWriterWriteAfterClose(t *testing.T) {
	rw, err := NewRotatingWriter(filepath.Join(t.TempDir(), "board.log"), DefaultRotationConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := rw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := rw.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if _, err := rw.Write([]byte("late")); err == nil {
		t.Error("expected error writing to closed writer")
	}
}

func TestRotatingWriterConcurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.log")
	rw, err := NewRotatingWriter(path, DefaultRotationConfig())
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				rw.Write([]byte("line\n"))
			}
		}()
	}
	wg.Wait()
	rw.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "line\n"); got != 800 {
		t.Errorf("got %d lines, want 800", got)
	}
}
