package store

import "strings"

// Persisted field names. Each workspace stores one value per field.
const (
	FieldGrid      = "grid"
	FieldBlocks    = "blocks"
	FieldRows      = "rows"
	FieldColumns   = "columns"
	FieldRowHeader = "rowHeader"
	FieldColHeader = "colHeader"
	FieldSequence  = "sequence"
)

// Fields lists every persisted field.
func Fields() []string {
	return []string{FieldGrid, FieldBlocks, FieldRows, FieldColumns, FieldRowHeader, FieldColHeader, FieldSequence}
}

// DefaultNamespace prefixes all keys written by blockgrid.
const DefaultNamespace = "blockgrid"

// Keyer builds store keys of the form <namespace>:<workspace>:<field>.
type Keyer struct {
	namespace string
}

// NewKeyer returns a keyer for namespace. An empty namespace uses
// [DefaultNamespace].
func NewKeyer(namespace string) Keyer {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return Keyer{namespace: namespace}
}

// Key returns the key for field of workspace.
func (k Keyer) Key(workspace, field string) string {
	return strings.Join([]string{k.namespace, workspace, field}, ":")
}

// WorkspaceKeys returns the keys of every field of workspace, in [Fields]
// order. The grid key comes first.
func (k Keyer) WorkspaceKeys(workspace string) []string {
	fields := Fields()
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = k.Key(workspace, f)
	}
	return keys
}
