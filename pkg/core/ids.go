package core

import (
	"strings"

	"github.com/google/uuid"
)

// idNamespace seeds name-based UUIDs so identifiers are stable across runs:
// analyzing the same statement twice yields byte-identical output.
var idNamespace = uuid.MustParse("8f1c7a52-4d10-4b3e-9c6a-2e5d90b7f314")

// EntityID builds the identifier of a base-table or result entity.
func EntityID(name string) string {
	return "ent_" + sanitize(name)
}

// CTEEntityID builds the identifier of a CTE entity, scoped by the owning
// statement so identically named CTEs in different statements stay distinct.
func CTEEntityID(statementID, cteName string) string {
	return "cte_" + sanitize(statementID) + "_" + sanitize(cteName)
}

// AttributeID builds the identifier of an attribute on an entity.
func AttributeID(entityName, attrName string) string {
	return "attr_" + sanitize(entityName) + "_" + sanitize(attrName)
}

// RelationshipID derives a stable identifier from the join predicate that
// produced the relationship.
func RelationshipID(sourceEntityID, sourceAttr, targetEntityID, targetAttr string) string {
	key := strings.Join([]string{"rel", sourceEntityID, sourceAttr, targetEntityID, targetAttr}, "|")
	return "rel_" + shortUUID(key)
}

// MappingID derives a stable identifier for a lineage edge.
func MappingID(targetAttributeID, sourceAttributeID string, mt MappingType) string {
	key := strings.Join([]string{"map", targetAttributeID, sourceAttributeID, string(mt)}, "|")
	return "map_" + shortUUID(key)
}

func shortUUID(key string) string {
	id := uuid.NewSHA1(idNamespace, []byte(key))
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}

func sanitize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
