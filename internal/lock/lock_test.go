package lock

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAcquireRelease(t *testing.T) {
	target := filepath.Join(t.TempDir(), "test.log")

	l, err := Acquire(target)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	lockPath := filepath.Join(filepath.Dir(target), ".test.log.lock")
	if _, err := os.Stat(lockPath); err != nil {
		t.Errorf("lock file not created: %v", err)
	}

	if err := l.Release(); err != nil {
		t.Errorf("release: %v", err)
	}
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("lock file not removed after release")
	}
}

func TestSecondAcquireFails(t *testing.T) {
	target := filepath.Join(t.TempDir(), "test.log")

	l, err := Acquire(target)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Release()

	if _, err := Acquire(target); err == nil {
		t.Error("second acquire on a held lock should fail")
	}
}

func TestReacquireAfterRelease(t *testing.T) {
	target := filepath.Join(t.TempDir(), "test.log")

	l, err := Acquire(target)
	if err != nil {
		t.Fatal(err)
	}
	l.Release()

	l2, err := Acquire(target)
	if err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
	l2.Release()
}
