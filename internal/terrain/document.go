package terrain

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Document is an in-memory terrain project file. The raw JSON text is kept
// verbatim and mutated surgically, so untouched subtrees survive round-trips
// byte for byte.
type Document struct {
	raw string
}

// Load reads and validates the terrain file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading terrain file: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("terrain file %s is not valid JSON", path)
	}
	return &Document{raw: string(data)}, nil
}

// Save writes the document to path.
func (d *Document) Save(path string) error {
	if err := os.WriteFile(path, []byte(d.raw), 0o644); err != nil {
		return fmt.Errorf("writing terrain file: %w", err)
	}
	return nil
}

// Bytes returns the current serialized document.
func (d *Document) Bytes() []byte { return []byte(d.raw) }

// pathSpecials are characters with meaning in gjson/sjson path syntax that
// must be escaped when a JSON key is used as a path segment.
const pathSpecials = `\.*?|#@:`

func escapeKey(key string) string {
	if !strings.ContainsAny(key, pathSpecials) {
		return key
	}
	var b strings.Builder
	for _, r := range key {
		if strings.ContainsRune(pathSpecials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func joinPath(parent, segment string) string {
	if parent == "" {
		return segment
	}
	return parent + "." + segment
}

// walk visits every object member of the document depth-first, reporting its
// full gjson path, key name, and value. Array elements are descended into but
// only object members are reported, since terrain field lookups are by key.
func walk(res gjson.Result, path string, visit func(path, key string, value gjson.Result)) {
	switch {
	case res.IsObject():
		res.ForEach(func(k, v gjson.Result) bool {
			p := joinPath(path, escapeKey(k.String()))
			visit(p, k.String(), v)
			walk(v, p, visit)
			return true
		})
	case res.IsArray():
		i := 0
		res.ForEach(func(_, v gjson.Result) bool {
			walk(v, joinPath(path, strconv.Itoa(i)), visit)
			i++
			return true
		})
	}
}

// findKeyPaths returns the paths of every field in the document whose key is
// exactly key, in document order.
func (d *Document) findKeyPaths(key string) []string {
	var paths []string
	walk(gjson.Parse(d.raw), "", func(path, k string, _ gjson.Result) {
		if k == key {
			paths = append(paths, path)
		}
	})
	return paths
}
