package grid

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// ItemKind names a kind of item that can be added to the grid.
type ItemKind string

// Item kinds. Every unit of an item adds Blocks blocks; grouped items are
// placed contiguously when a row has room.
const (
	ItemSingle ItemKind = "single"
	ItemTriple ItemKind = "triple"
	ItemQuad   ItemKind = "quad"
	ItemGroup  ItemKind = "group"
)

// ItemSpec describes an item kind.
type ItemSpec struct {
	Kind    ItemKind
	Tag     int  // encoded in block ids as i<tag>_<seq>
	Blocks  int  // blocks per unit
	Grouped bool // placed as one contiguous run when possible
	Title   string
}

var catalog = []ItemSpec{
	{Kind: ItemSingle, Tag: 1, Blocks: 1, Title: "Item 1"},
	{Kind: ItemTriple, Tag: 2, Blocks: 3, Title: "Item 2"},
	{Kind: ItemQuad, Tag: 3, Blocks: 4, Title: "Item 3"},
	{Kind: ItemGroup, Tag: 4, Blocks: 3, Grouped: true, Title: "Item 4"},
}

// Items returns the item catalog.
func Items() []ItemSpec {
	return slices.Clone(catalog)
}

// LookupItem finds an item by kind name or by its "item<tag>" alias.
func LookupItem(name string) (ItemSpec, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, spec := range catalog {
		if string(spec.Kind) == name || name == fmt.Sprintf("item%d", spec.Tag) {
			return spec, true
		}
	}
	return ItemSpec{}, false
}

// BlockID formats the id of a block: i<tag>_<seq>.
func BlockID(tag, seq int) string {
	return fmt.Sprintf("i%d_%d", tag, seq)
}

// ParseBlockID splits a block id into its item tag and sequence number.
func ParseBlockID(id string) (tag, seq int, ok bool) {
	rest, found := strings.CutPrefix(id, "i")
	if !found {
		return 0, 0, false
	}
	t, s, found := strings.Cut(rest, "_")
	if !found {
		return 0, 0, false
	}
	tag, err := strconv.Atoi(t)
	if err != nil {
		return 0, 0, false
	}
	seq, err = strconv.Atoi(s)
	if err != nil || seq < 0 {
		return 0, 0, false
	}
	return tag, seq, true
}

func blockLabel(spec ItemSpec, n int) string {
	if spec.Blocks == 1 {
		return spec.Title
	}
	return fmt.Sprintf("%s.%d", spec.Title, n)
}

// Registry maps block ids to display labels.
type Registry struct {
	labels map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{labels: make(map[string]string)}
}

// RegistryFrom builds a registry from a copy of labels.
func RegistryFrom(labels map[string]string) *Registry {
	r := NewRegistry()
	maps.Copy(r.labels, labels)
	return r
}

// Add registers a block.
func (r *Registry) Add(id, label string) {
	r.labels[id] = label
}

// Label returns the label of a block.
func (r *Registry) Label(id string) (string, bool) {
	l, ok := r.labels[id]
	return l, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.labels[id]
	return ok
}

// Len returns the number of registered blocks.
func (r *Registry) Len() int { return len(r.labels) }

// IDs returns the registered ids, sorted.
func (r *Registry) IDs() []string {
	return slices.Sorted(maps.Keys(r.labels))
}

// Labels returns a copy of the id→label map.
func (r *Registry) Labels() map[string]string {
	return maps.Clone(r.labels)
}

// Kinds returns the item kinds with at least one registered block, in
// catalog order.
func (r *Registry) Kinds() []ItemKind {
	seen := make(map[int]bool)
	for id := range r.labels {
		if tag, _, ok := ParseBlockID(id); ok {
			seen[tag] = true
		}
	}
	var kinds []ItemKind
	for _, spec := range catalog {
		if seen[spec.Tag] {
			kinds = append(kinds, spec.Kind)
		}
	}
	return kinds
}

// Clone returns a deep copy of the registry.
func (r *Registry) Clone() *Registry {
	return RegistryFrom(r.labels)
}
