package chatbot

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed responses.yaml
var responsesYAML []byte

// Dictionary maps user messages to canned legal replies.
type Dictionary struct {
	Keywords []struct {
		Keyword string `yaml:"keyword"`
		Reply   string `yaml:"reply"`
	} `yaml:"keywords"`
	Patterns []struct {
		Name  string   `yaml:"name"`
		Words []string `yaml:"words"`
		Reply string   `yaml:"reply"`
	} `yaml:"patterns"`
	Fallback string `yaml:"fallback"`
}

func ParseDictionary(data []byte) (*Dictionary, error) {
	var d Dictionary
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode responses: %w", err)
	}
	if d.Fallback == "" {
		return nil, fmt.Errorf("decode responses: fallback reply is required")
	}
	return &d, nil
}

// DefaultDictionary returns the embedded replies.
func DefaultDictionary() *Dictionary {
	d, err := ParseDictionary(responsesYAML)
	if err != nil {
		panic(fmt.Sprintf("chatbot: embedded responses: %v", err))
	}
	return d
}

// Reply picks the first matching keyword, then the first matching pattern
// group, then the fallback.
func (d *Dictionary) Reply(message string) string {
	lower := strings.ToLower(message)
	for _, k := range d.Keywords {
		if strings.Contains(lower, k.Keyword) {
			return k.Reply
		}
	}
	for _, p := range d.Patterns {
		for _, w := range p.Words {
			if strings.Contains(lower, w) {
				return p.Reply
			}
		}
	}
	return fmt.Sprintf(d.Fallback, message)
}
