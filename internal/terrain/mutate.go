package terrain

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// FieldNotFoundError reports an assignment whose name matched neither a
// declared automation variable nor any field in the document.
type FieldNotFoundError struct {
	Name string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field %q not found in terrain document", e.Name)
}

// AmbiguousFieldError reports an assignment name that matched more than one
// document field, with no automation variable to disambiguate. The terrain
// format gives no way to pick one, so the caller must surface this rather
// than guess.
type AmbiguousFieldError struct {
	Name  string
	Count int
}

func (e *AmbiguousFieldError) Error() string {
	return fmt.Sprintf("field %q matches %d fields in terrain document, cannot pick one", e.Name, e.Count)
}

// ApplyAssignment overwrites the field named by the assignment with value.
//
// Names are resolved against the Variables objects of the document's
// automation sections first; a matching variable is updated and the change is
// propagated through the Bindings list to the bound node property. Names with
// no variable entry fall back to a whole-document key search, which must
// match exactly one field.
func (d *Document) ApplyAssignment(name, value string) error {
	for _, varsPath := range d.findKeyPaths("Variables") {
		entry := varsPath + "." + escapeKey(name)
		if !gjson.Get(d.raw, entry).Exists() {
			continue
		}
		raw, err := setTyped(d.raw, entry, value)
		if err != nil {
			return fmt.Errorf("setting variable %q: %w", name, err)
		}
		d.raw = raw
		return d.propagateBindings(name, value)
	}

	matches := d.findKeyPaths(name)
	switch len(matches) {
	case 0:
		return &FieldNotFoundError{Name: name}
	case 1:
		raw, err := setTyped(d.raw, matches[0], value)
		if err != nil {
			return fmt.Errorf("setting field %q: %w", name, err)
		}
		d.raw = raw
		return nil
	default:
		return &AmbiguousFieldError{Name: name, Count: len(matches)}
	}
}

// propagateBindings pushes an updated variable value to every node property
// bound to it. Bindings live in arrays under a "$values" wrapper; each entry
// names the variable, the target node Id, and the target property.
func (d *Document) propagateBindings(name, value string) error {
	for _, bindingsPath := range d.findKeyPaths("Bindings") {
		values := gjson.Get(d.raw, bindingsPath+"."+escapeKey("$values"))
		if !values.IsArray() {
			continue
		}
		var err error
		values.ForEach(func(_, binding gjson.Result) bool {
			if binding.Get("Variable").String() != name {
				return true
			}
			nodeID := binding.Get("Node").Int()
			property := binding.Get("Property").String()
			if property == "" {
				return true
			}
			err = d.setNodeProperty(nodeID, property, value)
			return err == nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// setNodeProperty locates the node with the given Id across all Nodes
// collections and overwrites one of its properties.
func (d *Document) setNodeProperty(nodeID int64, property, value string) error {
	for _, nodesPath := range d.findKeyPaths("Nodes") {
		nodes := gjson.Get(d.raw, nodesPath)
		if !nodes.IsObject() {
			continue
		}
		var found bool
		var setErr error
		nodes.ForEach(func(k, node gjson.Result) bool {
			if !node.IsObject() || node.Get("Id").Int() != nodeID {
				return true
			}
			found = true
			target := nodesPath + "." + escapeKey(k.String()) + "." + escapeKey(property)
			raw, err := setTyped(d.raw, target, value)
			if err != nil {
				setErr = fmt.Errorf("setting node %d property %q: %w", nodeID, property, err)
				return false
			}
			d.raw = raw
			return false
		})
		if setErr != nil {
			return setErr
		}
		if found {
			return nil
		}
	}
	return fmt.Errorf("binding references node %d, which does not exist", nodeID)
}

// SetDestination rewrites every save destination in the document to dir and
// reports how many were updated. Zero destinations is not an error; not every
// terrain file has export nodes.
func (d *Document) SetDestination(dir string) (int, error) {
	paths := d.findKeyPaths("Destination")
	for _, p := range paths {
		raw, err := sjson.Set(d.raw, p, dir)
		if err != nil {
			return 0, fmt.Errorf("setting destination: %w", err)
		}
		d.raw = raw
	}
	return len(paths), nil
}

// setTyped overwrites the field at path with value, coerced to the field's
// existing JSON type. A numeric field stays numeric, a boolean stays boolean,
// everything else is written as a string. Fields that do not exist yet are
// typed by what the value parses as.
func setTyped(raw, path, value string) (string, error) {
	existing := gjson.Get(raw, path)
	switch existing.Type {
	case gjson.Number:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", fmt.Errorf("field is numeric but value %q is not", value)
		}
		return sjson.Set(raw, path, f)
	case gjson.True, gjson.False:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", fmt.Errorf("field is boolean but value %q is not", value)
		}
		return sjson.Set(raw, path, b)
	case gjson.String:
		return sjson.Set(raw, path, value)
	default:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return sjson.Set(raw, path, f)
		}
		return sjson.Set(raw, path, value)
	}
}
