package util

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// PartialSuffix marks files still being written.
const PartialSuffix = ".part"

// WriteFileAtomic writes data to dir/name through a temp file in the same
// directory, so an interrupted write never leaves a truncated image behind.
func WriteFileAtomic(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("output dir: %w", err)
	}

	final := filepath.Join(dir, filepath.Base(name))

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(name)+"-*"+PartialSuffix)
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rerr := os.Remove(tmp.Name()); rerr != nil && !os.IsNotExist(rerr) {
			log.Printf("error removing temp file %s: %v", tmp.Name(), rerr)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write %s: %w", final, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", final, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod %s: %w", final, err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		return "", fmt.Errorf("rename %s: %w", final, err)
	}

	committed = true
	return final, nil
}
