package project

import (
	"fmt"
	"os"

	"github.com/coreman2200/arcaluminis-presets/internal/descriptor"
	"github.com/coreman2200/arcaluminis-presets/internal/pose"
	"gopkg.in/yaml.v3"
)

const DocumentVersion = "1"

// Document is the on-disk project: every saved pose and descriptor.
type Document struct {
	Version     string                  `json:"version" yaml:"version"`
	Poses       []pose.Snapshot         `json:"poses" yaml:"poses"`
	Descriptors []descriptor.Descriptor `json:"descriptors" yaml:"descriptors"`
}

// ReadFile decodes a project document. JSON is a subset of YAML, so both are
// accepted.
func ReadFile(path string) (Document, error) {
	var doc Document
	b, err := os.ReadFile(path)
	if err != nil {
		return doc, err
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return doc, fmt.Errorf("decode project %s: %w", path, err)
	}
	if doc.Version == "" {
		doc.Version = DocumentVersion
	}
	return doc, nil
}

func WriteFile(path string, doc Document) error {
	if doc.Version == "" {
		doc.Version = DocumentVersion
	}
	b, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}
