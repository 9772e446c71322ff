package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/metastack-labs/metasql/pkg/core"
)

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row(header))
	return t
}

func renderDiagnostics(w io.Writer, format string, diags []core.Diagnostic) error {
	if format == "json" {
		return renderJSON(w, diags)
	}
	if len(diags) == 0 {
		_, _ = fmt.Fprintln(w, "No findings.")
		return nil
	}
	t := newTable(w, "Severity", "Check", "Statement", "Location", "Message", "Suggestion")
	for _, d := range diags {
		t.AppendRow(table.Row{
			d.Severity.String(),
			string(d.CheckType),
			d.Location.StatementID,
			d.Location.Path,
			d.Message,
			d.Suggestion,
		})
	}
	t.Render()
	return nil
}

func renderMetadata(w io.Writer, format string, md *core.Metadata) error {
	if format == "json" {
		return renderJSON(w, md)
	}

	entities := newTable(w, "Entity ID", "Name", "Origin")
	for _, e := range md.Entities {
		entities.AppendRow(table.Row{e.EntityID, e.Name, string(e.Origin)})
	}
	entities.Render()

	attrs := newTable(w, "Attribute ID", "Entity", "Name", "Ordinal", "PK")
	for _, a := range md.Attributes {
		attrs.AppendRow(table.Row{a.AttributeID, a.EntityID, a.Name, a.OrdinalPosition, a.IsPrimaryKey})
	}
	attrs.Render()

	if len(md.Relationships) > 0 {
		rels := newTable(w, "Relationship ID", "Source", "Target", "Cardinality")
		for _, r := range md.Relationships {
			rels.AppendRow(table.Row{r.RelationshipID, r.SourceEntityID, r.TargetEntityID, string(r.Cardinality)})
		}
		rels.Render()
	}
	return nil
}

func renderMappings(w io.Writer, format string, mappings []core.AttributeMapping) error {
	if format == "json" {
		return renderJSON(w, mappings)
	}
	if len(mappings) == 0 {
		_, _ = fmt.Fprintln(w, "No lineage edges.")
		return nil
	}
	t := newTable(w, "Mapping ID", "Target", "Source", "Type", "Transformation")
	for _, m := range mappings {
		source := m.SourceAttributeID
		if source == "" {
			source = "-"
		}
		t.AppendRow(table.Row{m.MappingID, m.TargetAttributeID, source, string(m.MappingType), m.Transformation})
	}
	t.Render()
	return nil
}
