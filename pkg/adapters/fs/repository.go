package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/quire/pkg/core"
	"github.com/aretw0/quire/pkg/git"
)

const (
	noteExt          = ".md"
	defaultSystemDir = ".quire"
)

// Repository implements core.Repository with one Markdown file per note.
type Repository struct {
	Path   string
	git    *git.Client
	cache  *cache
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastEvent     *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	AutoInit  bool
	Gitless   bool // When false every write is committed to Git.
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger
	SystemDir string // e.g. ".quire"; holds the author index

	// ErrorHandler receives runtime watcher failures that are otherwise only logged.
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository. It performs no I/O.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = defaultSystemDir
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		Path:   config.Path,
		git:    git.NewClient(config.Path, config.SystemDir+".lock", config.Logger),
		config: config,
		cache:  newCache(config.Path, config.SystemDir),
	}
}

// Initialize performs the necessary setup for the repository (mkdir, git init).
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("store path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("store path is not a directory: %s", r.Path)
		}
	} else {
		if err := os.MkdirAll(r.Path, 0755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	if r.config.Gitless || r.config.ReadOnly {
		return nil
	}

	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}

	wasNewRepo := false
	if !r.git.IsRepo() {
		if !r.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", r.Path)
		}
		if err := r.git.Init(); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		wasNewRepo = true
	}

	mod, err := r.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}
	if mod && wasNewRepo {
		if err := r.git.Add(".gitignore"); err != nil {
			return fmt.Errorf("failed to add .gitignore: %w", err)
		}
		if err := r.git.Commit(git.FormatMessage(git.TypeChore, "", fmt.Sprintf("configure %s ignore", r.config.SystemDir), "")); err != nil {
			return fmt.Errorf("failed to commit .gitignore: %w", err)
		}
	}
	return nil
}

// ensureIgnore keeps the system directory and lock file out of version control.
func (r *Repository) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(r.Path, ".gitignore")
	wanted := []string{r.config.SystemDir + "/", r.config.SystemDir + ".lock"}

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, entry := range wanted {
		if !present[entry] {
			missing = append(missing, entry)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}
	if _, err := f.WriteString(strings.Join(missing, "\n") + "\n"); err != nil {
		return false, err
	}
	return true, nil
}

// Save writes the note atomically and, when versioned, commits it.
func (r *Repository) Save(ctx context.Context, n core.Note) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	filename, err := noteFile(n.ID)
	if err != nil {
		return err
	}

	data, err := serializeNote(n)
	if err != nil {
		return fmt.Errorf("failed to serialize note: %w", err)
	}

	fullPath := filepath.Join(r.Path, filename)
	r.config.Logger.Debug("writing note to disk", "id", n.ID, "path", fullPath)

	if r.config.Gitless {
		if err := writeFileAtomic(fullPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write note: %w", err)
		}
		return nil
	}

	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := writeFileAtomic(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write note: %w", err)
	}
	if err := r.git.Add(filename); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}
	msg := git.AppendTrailer(changeReason(ctx, "save "+n.ID), "Note-Author", n.Author)
	if err := r.git.Commit(msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	return nil
}

// Get loads a note by its ID.
func (r *Repository) Get(ctx context.Context, id string) (core.Note, error) {
	filename, err := noteFile(id)
	if err != nil {
		return core.Note{}, err
	}

	f, err := os.Open(filepath.Join(r.Path, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return core.Note{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		return core.Note{}, err
	}
	defer f.Close()

	n, err := parseNote(f)
	if err != nil {
		return core.Note{}, fmt.Errorf("failed to parse note %s: %w", id, err)
	}
	n.ID = id
	return n, nil
}

// List returns every note in the store.
func (r *Repository) List(ctx context.Context) ([]core.Note, error) {
	return r.scan(ctx, func(*indexEntry) bool { return true })
}

// ListByAuthor implements core.AuthorLister. Files whose cached author differs are skipped
// without being parsed.
func (r *Repository) ListByAuthor(ctx context.Context, author string) ([]core.Note, error) {
	return r.scan(ctx, func(e *indexEntry) bool { return e.Author == author })
}

// scan walks the note files, refreshing the author index, and returns the notes whose
// index entry passes keep.
func (r *Repository) scan(ctx context.Context, keep func(*indexEntry) bool) ([]core.Note, error) {
	if err := r.cache.Load(); err != nil {
		r.config.Logger.Warn("failed to load cache", "error", err)
	}

	entries, err := os.ReadDir(r.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read store dir: %w", err)
	}

	notes := []core.Note{}
	seen := make(map[string]bool)

	for _, d := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if d.IsDir() || filepath.Ext(d.Name()) != noteExt {
			continue
		}
		name := d.Name()
		id := strings.TrimSuffix(name, noteExt)

		info, err := d.Info()
		if err != nil {
			continue
		}
		seen[name] = true

		if entry, hit := r.cache.Get(name, info.ModTime()); hit && !keep(entry) {
			continue
		}

		n, err := r.Get(ctx, id)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				continue // removed while scanning
			}
			r.config.Logger.Warn("failed to parse note during list", "id", id, "error", err)
			continue
		}

		entry := &indexEntry{ID: id, Author: n.Author, Title: n.Title, LastModified: info.ModTime()}
		r.cache.Set(name, entry)
		if keep(entry) {
			notes = append(notes, n)
		}
	}

	r.cache.Prune(seen)
	if !r.config.ReadOnly {
		if err := r.cache.Save(); err != nil {
			r.config.Logger.Warn("failed to save cache", "error", err)
		}
	}

	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].CreatedAt.Before(notes[j].CreatedAt)
		}
		return notes[i].ID < notes[j].ID
	})
	return notes, nil
}

// Delete removes a note and, when versioned, commits the removal.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	filename, err := noteFile(id)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(r.Path, filename)

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	r.config.Logger.Debug("deleting note", "id", id, "path", fullPath)

	if r.config.Gitless {
		if err := os.Remove(fullPath); err != nil {
			return fmt.Errorf("failed to remove file: %w", err)
		}
		r.cache.Delete(filename)
		return nil
	}

	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := r.git.Rm(filename); err != nil {
		return fmt.Errorf("failed to git rm: %w", err)
	}
	if err := r.git.Commit(changeReason(ctx, "delete "+id)); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	r.cache.Delete(filename)
	return nil
}

// History returns the commit subjects touching the note, newest first.
// It is only available for versioned stores.
func (r *Repository) History(ctx context.Context, id string) ([]string, error) {
	if r.config.Gitless {
		return nil, fmt.Errorf("history is not available in gitless mode")
	}
	filename, err := noteFile(id)
	if err != nil {
		return nil, err
	}
	return r.git.Log(filename)
}

// noteFile maps an ID to its file name, refusing anything that could escape the store.
func noteFile(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("%w: invalid id %q", core.ErrNotFound, id)
	}
	return id + noteExt, nil
}

type contextKey string

// ChangeReasonKey is the context key for passing a commit message to versioned writes.
const ChangeReasonKey contextKey = "change_reason"

func changeReason(ctx context.Context, fallback string) string {
	if val, ok := ctx.Value(ChangeReasonKey).(string); ok && val != "" {
		return val
	}
	return git.FormatMessage(git.TypeDocs, "notes", fallback, "")
}
