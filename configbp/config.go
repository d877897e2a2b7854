// Package configbp parses yaml configuration files.
package configbp

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/reddit/redispool/log"
)

// MaxConfigSize is the largest config file ParseStrictFile and ParseStrictYAML
// would read.
const MaxConfigSize = 1 << 20

// ParseStrictFile parses configuration from the file at the given path.
//
// Environment variables (e.g. $FOO and ${FOO}) are substituted from the
// environment before parsing.
// The configuration is parsed into ptr, which will typically be a pointer to
// a struct.
func ParseStrictFile(path string, ptr interface{}) error {
	switch ext := filepath.Ext(path); strings.ToLower(ext) {
	case ".yaml", ".yml":
	default:
		return fmt.Errorf("configbp: unsupported config extension %q", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("configbp: %w", err) // contains filename
	}
	defer f.Close() // safe to blindly close read-only files

	if err := ParseStrictYAML(f, ptr); err != nil {
		return fmt.Errorf("%w (file %q)", err, path)
	}
	return nil
}

// ParseStrictYAML parses YAML read from the given Reader.
//
// Environment variables (e.g. $FOO and ${FOO}) are substituted from the
// environment before parsing.
// Unknown fields are errors.
func ParseStrictYAML(reader io.Reader, ptr interface{}) error {
	raw, err := io.ReadAll(io.LimitReader(reader, MaxConfigSize+1))
	if err != nil {
		return fmt.Errorf("configbp: reading config: %w", err)
	}
	if len(raw) > MaxConfigSize {
		return fmt.Errorf("configbp: config larger than %d bytes", MaxConfigSize)
	}
	expanded := os.ExpandEnv(string(raw))

	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.SetStrict(true)
	if err := dec.Decode(ptr); err != nil {
		return fmt.Errorf("configbp: parsing YAML into %T: %w", ptr, err)
	}

	log.Debugw("configbp: parsed configuration", "type", fmt.Sprintf("%T", ptr), "bytes", len(expanded))
	return nil
}

// ParseStrictBytes is a shortcut of ParseStrictYAML on an in-memory config.
func ParseStrictBytes(data []byte, ptr interface{}) error {
	return ParseStrictYAML(bytes.NewReader(data), ptr)
}
