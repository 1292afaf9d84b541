// Package parser decodes configuration files.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gloss-dev/glossbridge/domain/ports"
)

// YamlConfigParser implements ConfigParser for YAML.
type YamlConfigParser struct {
	strict bool
}

// ParserOption configures a YamlConfigParser.
type ParserOption func(*YamlConfigParser)

// WithStrict rejects keys that do not map to a field of the target.
func WithStrict(strict bool) ParserOption {
	return func(p *YamlConfigParser) {
		p.strict = strict
	}
}

// NewYamlConfigParser creates a YAML parser. Unknown keys are rejected by default.
func NewYamlConfigParser(opts ...ParserOption) ports.ConfigParser {
	p := &YamlConfigParser{strict: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse decodes YAML bytes into out, leaving fields absent from data untouched.
// Empty input is not an error.
func (p *YamlConfigParser) Parse(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(p.strict)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}
