package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrDuplicateTarget is returned when a batch stages the same path twice.
var ErrDuplicateTarget = errors.New("target is already staged in this batch")

// StagedFile is written under a temporary name next to its target and only
// appears at the target path once committed.
type StagedFile struct {
	file      *os.File
	hash      hash.Hash
	size      int64
	tempPath  string
	finalPath string
	closed    bool
}

func CreateStaged(finalPath string) (*StagedFile, error) {
	dir, base := filepath.Split(finalPath)
	if dir == "" {
		dir = "."
	}
	tempPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.New().String()))

	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file for %s: %w", finalPath, err)
	}

	return &StagedFile{
		file:      file,
		hash:      sha256.New(),
		tempPath:  tempPath,
		finalPath: finalPath,
	}, nil
}

func (s *StagedFile) Write(p []byte) (n int, err error) {
	n, err = s.file.Write(p)
	if err != nil {
		return n, err
	}

	s.hash.Write(p[:n])
	s.size += int64(n)
	return n, nil
}

// Path is the target path.
func (s *StagedFile) Path() string { return s.finalPath }

// Size is the number of bytes written so far.
func (s *StagedFile) Size() int64 { return s.size }

// Sum is the hex sha256 of everything written so far.
func (s *StagedFile) Sum() string { return hex.EncodeToString(s.hash.Sum(nil)) }

func (s *StagedFile) close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}

// Commit flushes the temp file and renames it over the target.
func (s *StagedFile) Commit() error {
	if err := s.finish(); err != nil {
		return err
	}
	return s.moveIntoPlace()
}

// finish syncs and closes the temp file. The file is discarded on failure.
func (s *StagedFile) finish() error {
	if err := s.file.Sync(); err != nil {
		s.Abort()
		return fmt.Errorf("failed to sync %s: %w", s.finalPath, err)
	}
	if err := s.close(); err != nil {
		s.Abort()
		return fmt.Errorf("failed to close %s: %w", s.finalPath, err)
	}
	return nil
}

func (s *StagedFile) moveIntoPlace() error {
	if err := os.Rename(s.tempPath, s.finalPath); err != nil {
		os.Remove(s.tempPath)
		return fmt.Errorf("failed to move %s into place: %w", s.finalPath, err)
	}
	return nil
}

// Abort discards the temp file. It is safe to call after Commit.
func (s *StagedFile) Abort() {
	s.close()
	os.Remove(s.tempPath)
}

// Batch commits a group of staged files together. If any file cannot be
// committed, the ones already moved into place are taken back out and any
// files they replaced are restored.
type Batch struct {
	files []*StagedFile
}

// Create stages finalPath as part of the batch. Two files in one batch
// may not share a target.
func (b *Batch) Create(finalPath string) (*StagedFile, error) {
	for _, f := range b.files {
		if samePath(f.finalPath, finalPath) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTarget, finalPath)
		}
	}

	f, err := CreateStaged(finalPath)
	if err != nil {
		return nil, err
	}
	b.files = append(b.files, f)
	return f, nil
}

func (b *Batch) Commit() error {
	for _, f := range b.files {
		if err := f.finish(); err != nil {
			b.Abort()
			return err
		}
	}

	// Existing targets are moved aside before each rename and put back on failure.
	var backups []string
	for i, f := range b.files {
		backup, err := backupExisting(f.finalPath)
		if err == nil {
			backups = append(backups, backup)
			err = f.moveIntoPlace()
		} else {
			os.Remove(f.tempPath)
		}
		if err != nil {
			for _, pending := range b.files[i+1:] {
				pending.Abort()
			}
			errs := []error{err}
			for j := len(backups) - 1; j >= 0; j-- {
				placed := j < i
				if rbErr := restore(b.files[j].finalPath, backups[j], placed); rbErr != nil {
					errs = append(errs, rbErr)
				}
			}
			return errors.Join(errs...)
		}
	}

	for _, backup := range backups {
		if backup != "" {
			os.Remove(backup)
		}
	}
	return nil
}

func (b *Batch) Abort() {
	for _, f := range b.files {
		f.Abort()
	}
}

// backupExisting renames a regular file at path to a hidden backup next to
// it and returns the backup path, or "" when nothing is there. Directories
// and other non-regular files are refused.
func backupExisting(path string) (string, error) {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to inspect %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s exists and is not a regular file", path)
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	backup := filepath.Join(dir, fmt.Sprintf(".%s.%s.bak", base, uuid.New().String()))
	if err := os.Rename(path, backup); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", path, err)
	}
	return backup, nil
}

// restore undoes one step of Batch.Commit. placed reports whether the new
// file already sits at path.
func restore(path, backup string, placed bool) error {
	if placed {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to roll back %s: %w", path, err)
		}
	}
	if backup == "" {
		return nil
	}
	if err := os.Rename(backup, path); err != nil {
		return fmt.Errorf("failed to restore %s from %s: %w", path, backup, err)
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
