package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pavelanni/mocktest/internal/model"
)

// SourceRef is one index entry: a bare locator string or {"src": locator}.
type SourceRef struct {
	Src string `json:"src" yaml:"src"`
}

// UnmarshalJSON accepts both entry forms.
func (r *SourceRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Src = s
		return nil
	}
	type plain SourceRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("index entry must be a string or an object with src: %w", err)
	}
	*r = SourceRef(p)
	return nil
}

// UnmarshalYAML accepts both entry forms.
func (r *SourceRef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		r.Src = value.Value
		return nil
	}
	type plain SourceRef
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*r = SourceRef(p)
	return nil
}

// ParseIndex decodes an index document. The locator only selects the format.
func ParseIndex(locator string, data []byte) ([]SourceRef, error) {
	var refs []SourceRef
	if err := decode(locator, data, &refs); err != nil {
		return nil, err
	}
	for i, r := range refs {
		if strings.TrimSpace(r.Src) == "" {
			return nil, fmt.Errorf("index entry %d has no locator", i)
		}
	}
	return refs, nil
}

// ParseDocument decodes a per-source question document.
func ParseDocument(locator string, data []byte) (model.QuestionDocument, error) {
	var doc model.QuestionDocument
	if err := decode(locator, data, &doc); err != nil {
		return model.QuestionDocument{}, err
	}
	return doc, nil
}

func decode(locator string, data []byte, v any) error {
	if isYAML(locator) {
		if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
			return fmt.Errorf("parse yaml: %w", err)
		}
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	return nil
}

func isYAML(locator string) bool {
	p := locator
	if u, err := url.Parse(locator); err == nil && u.Path != "" {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Resolve returns ref relative to the index locator base.
func Resolve(base, ref string) string {
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	if isURL(base) {
		b, err := url.Parse(base)
		if err != nil {
			return ref
		}
		r, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return b.ResolveReference(r).String()
	}
	if path.IsAbs(ref) {
		return ref
	}
	return path.Join(path.Dir(base), ref)
}
