package describe

import (
	"fmt"
	"strings"
)

const (
	// NullKey replaces blank or missing grouping values
	NullKey = "NULL"
	// KeyDelimiter joins the parts of a composite key into its canonical form.
	// Values that contain the delimiter are not escaped.
	KeyDelimiter = "|"
)

// GroupKey is the normalized tuple of grouping values of one record
type GroupKey []string

// NormalizeKeyPart trims a grouping value and substitutes NullKey for blanks
func NormalizeKeyPart(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return NullKey
	}
	return v
}

// Canonical joins the key parts with KeyDelimiter
func (k GroupKey) Canonical() string {
	return strings.Join(k, KeyDelimiter)
}

// ParseKeySet parses "name=col1,col2". Without a name the key set is named
// "by_" followed by the columns joined with "_".
func ParseKeySet(spec string) (KeySet, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return KeySet{}, fmt.Errorf("empty key set")
	}

	name, cols, hasName := strings.Cut(spec, "=")
	if !hasName {
		cols = name
		name = ""
	}

	var columns []string
	for _, c := range strings.Split(cols, ",") {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		columns = append(columns, c)
	}
	if len(columns) == 0 {
		return KeySet{}, fmt.Errorf("key set %q has no columns", spec)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "by_" + strings.Join(columns, "_")
	}
	return KeySet{Name: name, Columns: columns}, nil
}

// ParseKeySets parses a ";"-separated list of key sets. Names must be unique.
func ParseKeySets(spec string) ([]KeySet, error) {
	var sets []KeySet
	seen := make(map[string]bool)
	for _, part := range strings.Split(spec, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		ks, err := ParseKeySet(part)
		if err != nil {
			return nil, err
		}
		if seen[ks.Name] {
			return nil, fmt.Errorf("duplicate key set name %q", ks.Name)
		}
		seen[ks.Name] = true
		sets = append(sets, ks)
	}
	return sets, nil
}

// String renders the key set back into its "name=col1,col2" form
func (k KeySet) String() string {
	return k.Name + "=" + strings.Join(k.Columns, ",")
}
