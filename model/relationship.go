package model

import "strings"

// Relationship is a named link from document content to a package part.
// Target is the resolved part name (for example "word/media/image1.png")
// for internal relationships, or the raw URI for external ones.
type Relationship struct {
	ID       string
	Type     string
	Target   string
	External bool
	Data     []byte
}

// IsMedia reports whether the relationship points into the package's media
// storage location and carries bytes.
func (r Relationship) IsMedia() bool {
	if r.External || len(r.Data) == 0 {
		return false
	}
	return strings.HasPrefix(r.Target, "media/") || strings.Contains(r.Target, "/media/")
}

// Name returns the base name of the target part.
func (r Relationship) Name() string {
	if i := strings.LastIndex(r.Target, "/"); i >= 0 {
		return r.Target[i+1:]
	}
	return r.Target
}

// RelationshipMap maps relationship IDs to relationships. It remembers the
// order in which relationships were declared. It is not modified after
// construction.
type RelationshipMap struct {
	byID  map[string]Relationship
	order []string
}

// NewRelationshipMap builds a map from rels in declaration order. When an ID
// repeats, the first declaration wins.
func NewRelationshipMap(rels []Relationship) *RelationshipMap {
	m := &RelationshipMap{
		byID:  make(map[string]Relationship, len(rels)),
		order: make([]string, 0, len(rels)),
	}
	for _, r := range rels {
		if r.ID == "" {
			continue
		}
		if _, dup := m.byID[r.ID]; dup {
			continue
		}
		m.byID[r.ID] = r
		m.order = append(m.order, r.ID)
	}
	return m
}

// Get returns the relationship with the given ID.
func (m *RelationshipMap) Get(id string) (Relationship, bool) {
	if m == nil {
		return Relationship{}, false
	}
	r, ok := m.byID[id]
	return r, ok
}

// Len returns the number of relationships.
func (m *RelationshipMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// All returns every relationship in declaration order.
func (m *RelationshipMap) All() []Relationship {
	if m == nil {
		return nil
	}
	out := make([]Relationship, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out
}

// Media returns the media relationships in declaration order.
func (m *RelationshipMap) Media() []Relationship {
	var out []Relationship
	for _, r := range m.All() {
		if r.IsMedia() {
			out = append(out, r)
		}
	}
	return out
}
