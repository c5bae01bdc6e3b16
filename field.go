package search

import "fmt"

// FieldType tags a field descriptor's value domain. Numeric families
// disable quoting and forbid wildcards in range expansion (spec.md §3).
type FieldType string

const (
	FieldChar  FieldType = "char"
	FieldInt   FieldType = "int"
	FieldFloat FieldType = "float"
	FieldBool  FieldType = "bool"
	FieldDate  FieldType = "date"
	FieldTime  FieldType = "time"
	// FieldNum is the SWISH-dialect numeric family alias mentioned in
	// spec.md §3 ("and for Swish: int|date|num").
	FieldNum FieldType = "num"
)

// IsNumeric reports whether this field's type disables quoting and
// wildcards the way spec.md §3/§4.5 require for numeric families.
func (this FieldType) IsNumeric() bool {
	switch this {
	case FieldInt, FieldFloat, FieldBool, FieldDate, FieldTime, FieldNum:
		return true
	}
	return false
}

// Validator is called with a leaf's raw value during alias expansion (C9).
// The default validator (see NewFieldDescriptor) accepts everything.
type Validator func(value string) error

// Callback rewrites a clause at serialization time. It receives the
// clause's field, op and value, and its return value is used verbatim as
// the rendered clause string (spec.md §3, §4.5 "If the field defines a
// callback, its return replaces the rendered clause entirely").
type Callback func(field string, op Op, value string) string

// FieldDescriptor is the C2 metadata record for a single searchable field.
type FieldDescriptor struct {
	Name string

	// AliasFor is empty for a field with no alias, has one element for a
	// 1:1 rename, and two-or-more for an alias fan-out (spec.md §4.3).
	AliasFor []string

	Type FieldType

	Callback  Callback
	Validator Validator
}

// NewFieldDescriptor builds a descriptor with the default "accept
// everything" validator, matching gobo's own unconditional Index acceptance
// (lib/search/index.go's QueryTagExact et al. never reject a tag).
func NewFieldDescriptor(name string, typ FieldType) *FieldDescriptor {
	return &FieldDescriptor{
		Name:      name,
		Type:      typ,
		Validator: func(string) error { return nil },
	}
}

// FieldRegistry is the C2 "field registry": a name -> descriptor mapping
// owned by a Parser's Config. It is built once, at configuration time, and
// is read-only thereafter (spec.md §5).
type FieldRegistry struct {
	byName map[string]*FieldDescriptor
	// defaultField is not set by NewFieldRegistry and is not read anywhere;
	// default-field injection uses Config.DefaultField instead.
	defaultField string
}

// NewFieldRegistry builds a registry from a list of descriptors.
func NewFieldRegistry(fields []*FieldDescriptor) (*FieldRegistry, error) {
	reg := &FieldRegistry{byName: make(map[string]*FieldDescriptor, len(fields))}
	for _, f := range fields {
		if f.Name == "" {
			return nil, &ConfigError{Detail: "field descriptor with empty name"}
		}
		if _, dup := reg.byName[f.Name]; dup {
			return nil, &ConfigError{Detail: fmt.Sprintf("duplicate field name: %s", f.Name)}
		}
		reg.byName[f.Name] = f
	}
	return reg, nil
}

// FieldNames returns a list of every names in the registry (used by the SQL
// dialect's "no field given -> expand to all fields" rule, spec.md §4.5).
func (this *FieldRegistry) FieldNames() []string {
	if this == nil {
		return nil
	}
	names := make([]string, 0, len(this.byName))
	for name := range this.byName {
		names = append(names, name)
	}
	return names
}

// Lookup returns the descriptor for name, or nil if unknown.
func (this *FieldRegistry) Lookup(name string) *FieldDescriptor {
	if this == nil {
		return nil
	}
	return this.byName[name]
}

// Has reports whether name is a known field.
func (this *FieldRegistry) Has(name string) bool {
	return this.Lookup(name) != nil
}
