package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/setgame/set-server-go/internal/user"
)

// FileRepository persists user records as one JSON file per token in a
// flat directory, the layout the original server wrote. Implements
// user.Repository.
type FileRepository struct {
	dir string
}

// NewFileRepository creates a file-backed repository rooted at dir. The
// directory is created on first use if absent.
func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

// LoadAll reads every record file in the data directory. A missing
// directory is the first-run case: it is created and an empty result is
// returned.
func (r *FileRepository) LoadAll(ctx context.Context) ([]*user.User, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			if mkErr := os.MkdirAll(r.dir, 0o755); mkErr != nil {
				return nil, fmt.Errorf("create data dir %s: %w", r.dir, mkErr)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("read data dir %s: %w", r.dir, err)
	}

	var records []*user.User
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read record %s: %w", entry.Name(), err)
		}

		u := &user.User{}
		if err := json.Unmarshal(data, u); err != nil {
			return nil, fmt.Errorf("decode record %s: %w", entry.Name(), err)
		}
		if u.Token == "" {
			// Records written before the token field existed are keyed by
			// file name alone.
			u.Token = entry.Name()
		}
		records = append(records, u)
	}

	return records, nil
}

// Save writes a single record to <dir>/<token>. The write goes to a temp
// file in the same directory and is renamed into place so a crash mid-write
// never leaves a partial record at the final path.
func (r *FileRepository) Save(ctx context.Context, u *user.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", u.Nickname, err)
	}

	tmp := filepath.Join(r.dir, "."+u.Token+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write record %s: %w", u.Nickname, err)
	}

	final := filepath.Join(r.dir, u.Token)
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit record %s: %w", u.Nickname, err)
	}

	return nil
}
