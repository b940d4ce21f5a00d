package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-Intent-Graph/intent/contract"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const defaultParallelism = 8

var validate = validator.New()

// record mirrors one turn as stored on disk. Pointers let validation tell a
// missing field apart from false or "".
type record struct {
	IsBot *bool   `json:"is_bot" yaml:"is_bot" validate:"required"`
	Text  *string `json:"text" yaml:"text" validate:"required"`
}

type Loader struct {
	parallelism int
}

type Option func(*Loader)

// WithParallelism bounds how many files are parsed at once.
func WithParallelism(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.parallelism = n
		}
	}
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{parallelism: defaultParallelism}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// LoadDir is NewLoader().LoadDir.
func LoadDir(ctx context.Context, dir string) ([]contractx.Transcript, error) {
	return NewLoader().LoadDir(ctx, dir)
}

// LoadDir reads every transcript file in dir. Each file holds one
// conversation whose ID is the file name without extension. The corpus is
// returned in natural file name order.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]contractx.Transcript, error) {
	files, err := listTranscriptFiles(dir)
	if err != nil {
		return nil, err
	}

	corpus := make([]contractx.Transcript, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.parallelism)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tr, err := LoadFile(path)
			if err != nil {
				return err
			}
			corpus[i] = tr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("dir", dir).
		Int("conversations", len(corpus)).
		Msg("transcripts loaded")
	return corpus, nil
}

// LoadFile parses a single transcript file.
func LoadFile(path string) (contractx.Transcript, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return contractx.Transcript{}, fmt.Errorf("read transcript %s: %w", path, err)
	}

	var records []record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &records)
	default:
		err = json.Unmarshal(raw, &records)
	}
	if err != nil {
		return contractx.Transcript{}, fmt.Errorf("%w: %s: %v", contractx.ErrMalformedTurn, path, err)
	}

	tr := contractx.Transcript{
		ID:    conversationID(path),
		Turns: make([]contractx.Turn, 0, len(records)),
	}
	for i, rec := range records {
		if err := validate.Struct(rec); err != nil {
			return contractx.Transcript{}, fmt.Errorf("%w: %s turn=%d: %s", contractx.ErrMalformedTurn, path, i, describe(err))
		}
		tr.Turns = append(tr.Turns, contractx.Turn{IsBot: *rec.IsBot, Text: *rec.Text})
	}
	return tr, nil
}

func listTranscriptFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read transcript dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			files = append(files, e.Name())
		}
	}
	sort.SliceStable(files, func(i, j int) bool {
		return naturalLess(files[i], files[j])
	})
	for i, name := range files {
		files[i] = filepath.Join(dir, name)
	}
	return files, nil
}

func conversationID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s is %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
