// Package store persists snippet snapshots as JSONL, one record per line.
// A snapshot file is written in full and swapped in with a rename, and an
// ACTIVE pointer names the snapshot readers should be using, so a reader
// never observes a partially written snapshot.
package store

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/models"
)

const activePointerFile = "ACTIVE"

// SnapshotID derives the stable identifier of one (repo, commit) snapshot.
func SnapshotID(repo, commit string) string {
	sum := sha256.Sum256([]byte(repo + "|" + commit))
	return hex.EncodeToString(sum[:])[:16]
}

type SnippetStore struct {
	dir string
}

func New(dir string) *SnippetStore {
	return &SnippetStore{dir: dir}
}

func (s *SnippetStore) snapshotPath(snapshotID string) string {
	return filepath.Join(s.dir, snapshotID+".jsonl")
}

// SaveSnapshot writes the snapshot file and repoints ACTIVE at it.
func (s *SnippetStore) SaveSnapshot(snapshotID string, snippets []*models.Snippet) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".snapshot-*.jsonl")
	if err != nil {
		return err
	}
	writer := bufio.NewWriter(tmp)
	for _, rec := range snippets {
		line, err := json.Marshal(rec)
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return err
		}
		writer.Write(line)
		writer.WriteByte('\n')
	}
	if err := writer.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.snapshotPath(snapshotID)); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return s.setActive(snapshotID)
}

func (s *SnippetStore) setActive(snapshotID string) error {
	tmp, err := os.CreateTemp(s.dir, ".active-*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(snapshotID + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.dir, activePointerFile))
}

func (s *SnippetStore) LoadSnapshot(snapshotID string) ([]*models.Snippet, error) {
	file, err := os.Open(s.snapshotPath(snapshotID))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var snippets []*models.Snippet
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec models.Snippet
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("snapshot %s line %d: %w", snapshotID, lineNo, err)
		}
		snippets = append(snippets, &rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return snippets, nil
}

// ActiveSnapshot returns the snapshot id readers should use, or "" when no
// snapshot has been published yet.
func (s *SnippetStore) ActiveSnapshot() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, activePointerFile))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *SnippetStore) LoadActive() (string, []*models.Snippet, error) {
	snapshotID, err := s.ActiveSnapshot()
	if err != nil {
		return "", nil, err
	}
	if snapshotID == "" {
		return "", nil, nil
	}
	snippets, err := s.LoadSnapshot(snapshotID)
	if err != nil {
		return "", nil, err
	}
	return snapshotID, snippets, nil
}
