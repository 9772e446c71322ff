package core

// Layer classifies where an entity sits in the warehouse architecture.
// Layers are optional annotations attached by callers after extraction;
// analysis itself only guarantees identity and attribute shape.
type Layer string

// Layer constants.
const (
	LayerSource   Layer = "source"
	LayerStaging  Layer = "staging"
	LayerBusiness Layer = "business"
	LayerDelivery Layer = "delivery"
)

// EntityOrigin records which SQL construct produced an entity.
type EntityOrigin string

// EntityOrigin constants.
const (
	// OriginTable is a base table referenced in a FROM clause.
	OriginTable EntityOrigin = "table"
	// OriginCTE is a common table expression definition.
	OriginCTE EntityOrigin = "cte"
	// OriginResult is the final result set of a statement.
	OriginResult EntityOrigin = "result"
)

// Cardinality describes a relationship's multiplicity.
type Cardinality string

// Cardinality constants.
const (
	CardinalityOneToOne   Cardinality = "one_to_one"
	CardinalityOneToMany  Cardinality = "one_to_many"
	CardinalityManyToOne  Cardinality = "many_to_one"
	CardinalityManyToMany Cardinality = "many_to_many"
)

// MappingType classifies how a target column derives from its sources.
type MappingType string

// MappingType constants.
const (
	// MappingDirect is a bare column reference with no rename.
	MappingDirect MappingType = "direct"
	// MappingRename is a bare column reference renamed via alias.
	MappingRename MappingType = "rename"
	// MappingDerived is a non-aggregate expression over one or more columns.
	MappingDerived MappingType = "derived"
	// MappingAggregation is an expression whose outermost function aggregates.
	MappingAggregation MappingType = "aggregation"
	// MappingConstant is an expression with no column references.
	MappingConstant MappingType = "constant"
)

// Entity represents a table-like construct: a base table, a CTE, or the
// final result set of a statement. Entities are created once per distinct
// construct during a single analysis run and are immutable afterwards.
type Entity struct {
	EntityID    string       `json:"entity_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Layer       Layer        `json:"layer,omitempty"`
	Stereotype  string       `json:"stereotype,omitempty"`
	Origin      EntityOrigin `json:"origin"`
}

// Attribute is a single column belonging to exactly one entity.
type Attribute struct {
	AttributeID     string `json:"attribute_id"`
	EntityID        string `json:"entity_id"`
	Name            string `json:"name"`
	DataType        string `json:"data_type,omitempty"`
	OrdinalPosition int    `json:"ordinal_position"`
	IsPrimaryKey    bool   `json:"is_primary_key"`
	Description     string `json:"description,omitempty"`
}

// Relationship is a directed foreign-key-like edge between two entities,
// derived from an equi-join predicate whose sides both resolve.
type Relationship struct {
	RelationshipID string      `json:"relationship_id"`
	SourceEntityID string      `json:"source_entity_id"`
	TargetEntityID string      `json:"target_entity_id"`
	Cardinality    Cardinality `json:"cardinality"`
}

// AttributeMapping is a column-level lineage edge from a target attribute
// back to one source attribute. A target column derived from several
// sources is represented by several mapping rows; a constant column has a
// single row with empty source fields.
type AttributeMapping struct {
	MappingID         string      `json:"mapping_id"`
	TargetEntityID    string      `json:"target_entity_id"`
	TargetAttributeID string      `json:"target_attribute_id"`
	SourceEntityID    string      `json:"source_entity_id,omitempty"`
	SourceAttributeID string      `json:"source_attribute_id,omitempty"`
	MappingType       MappingType `json:"mapping_type"`
	Transformation    string      `json:"transformation,omitempty"`
}

// Metadata bundles the records extracted from one statement.
type Metadata struct {
	Entities      []Entity       `json:"entities"`
	Attributes    []Attribute    `json:"attributes"`
	Relationships []Relationship `json:"relationships"`
}
