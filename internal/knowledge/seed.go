package knowledge

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// File is the on-disk representation of a knowledge base.
type File struct {
	FunctionWords []string `yaml:"function_words"`
	Entries       []Entry  `yaml:"entries"`
}

// Default returns a fresh knowledge base loaded from the embedded seed.
func Default() *KnowledgeBase {
	kb, err := Parse(defaultSeed)
	if err != nil {
		panic(fmt.Sprintf("knowledge: embedded seed is invalid: %v", err))
	}
	return kb
}

// Parse builds a knowledge base from YAML. Entries keep file order.
func Parse(data []byte) (*KnowledgeBase, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge file: %w", err)
	}

	kb := NewKnowledgeBase(f.FunctionWords...)
	for i, e := range f.Entries {
		if len(e.Tags) == 0 {
			e.Tags = []string{DefaultTag}
		}
		if e.Confidence == 0 {
			e.Confidence = DefaultConfidence
		}
		if err := kb.Put(e); err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i, e.Keyword, err)
		}
	}
	return kb, nil
}

// Read parses a knowledge base from r.
func Read(r io.Reader) (*KnowledgeBase, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file: %w", err)
	}
	return Parse(data)
}

// Load reads a knowledge base from path. An empty path yields the default.
func Load(path string) (*KnowledgeBase, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge file: %w", err)
	}
	defer f.Close()
	return Read(f)
}
