package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DefaultBackupRetention is the number of backups kept per file.
const DefaultBackupRetention = 3

// CreateBackup copies path to a timestamped sibling file and returns the
// backup path. It is used before destructive operations such as a config
// import.
func CreateBackup(path string) (string, error) {
	timestamp := time.Now().Format("20060102150405")
	backupPath := fmt.Sprintf("%s.backup-%s-%d", path, timestamp, os.Getpid())

	if err := copyFile(path, backupPath); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	return backupPath, nil
}

// ListBackups returns all backups of path, oldest first.
func ListBackups(path string) ([]string, error) {
	backups, err := filepath.Glob(path + ".backup-*")
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	sort.Slice(backups, func(i, j int) bool {
		iInfo, err1 := os.Stat(backups[i])
		jInfo, err2 := os.Stat(backups[j])
		if err1 != nil || err2 != nil {
			return backups[i] < backups[j]
		}
		return iInfo.ModTime().Before(jInfo.ModTime())
	})
	return backups, nil
}

// CleanupBackups removes the oldest backups of path until at most keep
// remain.
func CleanupBackups(path string, keep int) error {
	if keep <= 0 {
		keep = DefaultBackupRetention
	}

	backups, err := ListBackups(path)
	if err != nil {
		return err
	}

	for len(backups) > keep {
		if err := os.Remove(backups[0]); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[0], err)
		}
		backups = backups[1:]
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
