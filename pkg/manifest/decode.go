package manifest

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/qcss/internal/errors"
)

// Format is a manifest encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat normalizes a format name. Empty means JSON.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.New("E203").WithDetailf("%q is not json or yaml", name)
	}
}

// FormatFromPath picks a format from the file extension, defaulting to
// JSON.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return FormatJSON
	}
	return f
}

// Decode reads a flat string map in the given format. name labels error
// locations and may be empty.
func Decode(r io.Reader, format Format, name string) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.New("E202").Wrap(err)
	}
	return DecodeBytes(data, format, name)
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(data []byte, format Format, name string) (*Manifest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Empty(), nil
	}

	var raw map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.New("E200").WithDetail(name).Wrap(err)
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, &raw); err != nil {
			qe := errors.New("E200").WithDetail(name).Wrap(err)
			var syntax *json.SyntaxError
			if stderrors.As(err, &syntax) {
				qe.WithOffset(name, data, syntax.Offset)
			}
			var typeErr *json.UnmarshalTypeError
			if stderrors.As(err, &typeErr) {
				qe.WithOffset(name, data, typeErr.Offset)
			}
			return nil, qe
		}
	default:
		return nil, errors.New("E203").WithDetailf("%q is not json or yaml", format)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make(map[string]string, len(raw))
	for _, k := range keys {
		s, ok := raw[k].(string)
		if !ok {
			return nil, errors.New("E201").
				WithDetailf("value for %q is %T", k, raw[k]).
				WithSuggestion("Quote the identifier so it decodes as a string")
		}
		entries[k] = s
	}
	return &Manifest{entries: entries}, nil
}
