package fs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/quire/pkg/core"
)

const frontMatterDelimiter = "---"

// frontMatter is the YAML header of a note file. The body after it is the note content.
type frontMatter struct {
	ID        string    `yaml:"id"`
	Title     string    `yaml:"title"`
	Author    string    `yaml:"author"`
	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// serializeNote renders n as Markdown with YAML front matter.
func serializeNote(n core.Note) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(frontMatterDelimiter + "\n")

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(frontMatter{
		ID:        n.ID,
		Title:     n.Title,
		Author:    n.Author,
		CreatedAt: n.CreatedAt.UTC(),
		UpdatedAt: n.UpdatedAt.UTC(),
	}); err != nil {
		return nil, fmt.Errorf("failed to encode front matter: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}

	buf.WriteString(frontMatterDelimiter + "\n")
	buf.WriteString(n.Content)
	return buf.Bytes(), nil
}

// parseNote reads a note previously written by serializeNote.
func parseNote(r io.Reader) (core.Note, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return core.Note{}, err
	}
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))

	if !bytes.HasPrefix(data, []byte(frontMatterDelimiter+"\n")) {
		return core.Note{}, errors.New("missing front matter")
	}
	rest := data[len(frontMatterDelimiter)+1:]

	var header, body []byte
	closing := []byte("\n" + frontMatterDelimiter + "\n")
	switch {
	case bytes.HasPrefix(rest, []byte(frontMatterDelimiter+"\n")):
		body = rest[len(frontMatterDelimiter)+1:]
	default:
		idx := bytes.Index(rest, closing)
		if idx < 0 {
			if !bytes.HasSuffix(rest, []byte("\n"+frontMatterDelimiter)) {
				return core.Note{}, errors.New("front matter started but no closing delimiter found")
			}
			header = rest[:len(rest)-len(frontMatterDelimiter)-1]
		} else {
			header = rest[:idx]
			body = rest[idx+len(closing):]
		}
	}

	var fm frontMatter
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return core.Note{}, fmt.Errorf("failed to parse front matter: %w", err)
	}

	return core.Note{
		ID:        fm.ID,
		Title:     fm.Title,
		Author:    strings.ToLower(fm.Author),
		Content:   string(body),
		CreatedAt: fm.CreatedAt,
		UpdatedAt: fm.UpdatedAt,
	}, nil
}
