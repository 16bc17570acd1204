// Package catalog holds the fixed legal questionnaire used by diagnoses.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"lawbix/internal/domain"
)

//go:embed questions.yaml
var questionsYAML []byte

// Catalog is an immutable, ordered set of questions.
type Catalog struct {
	questions []domain.Question
}

type file struct {
	Questions []struct {
		ID       int      `yaml:"id"`
		Category string   `yaml:"category"`
		Prompt   string   `yaml:"prompt"`
		Options  []string `yaml:"options"`
		Weight   int      `yaml:"weight"`
	} `yaml:"questions"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the embedded questionnaire. The embedded file is validated
// by tests, so a parse failure here is a build defect and panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(questionsYAML)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded questions: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// Parse decodes a YAML questionnaire.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	qs := make([]domain.Question, 0, len(f.Questions))
	for _, q := range f.Questions {
		if len(q.Options) != 3 {
			return nil, fmt.Errorf("question %d: want 3 options, got %d", q.ID, len(q.Options))
		}
		qs = append(qs, domain.Question{
			ID:       q.ID,
			Category: q.Category,
			Prompt:   q.Prompt,
			Options:  [3]string{q.Options[0], q.Options[1], q.Options[2]},
			Weight:   q.Weight,
		})
	}
	return New(qs)
}

// New validates qs and builds a catalog preserving their order.
func New(qs []domain.Question) (*Catalog, error) {
	c := &Catalog{questions: make([]domain.Question, len(qs))}
	copy(c.questions, qs)
	seen := make(map[int]bool, len(qs))
	for _, q := range c.questions {
		if seen[q.ID] {
			return nil, fmt.Errorf("question %d: duplicate id", q.ID)
		}
		if q.Weight <= 0 {
			return nil, fmt.Errorf("question %d: weight must be positive", q.ID)
		}
		if q.Category == "" {
			return nil, fmt.Errorf("question %d: category is required", q.ID)
		}
		seen[q.ID] = true
	}
	return c, nil
}

// List returns the questions in catalog order. The slice is a copy.
func (c *Catalog) List() []domain.Question {
	out := make([]domain.Question, len(c.questions))
	copy(out, c.questions)
	return out
}
