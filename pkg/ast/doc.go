// Package ast defines the statement tree metasql analyzes.
//
// metasql does not parse SQL text. An external parser produces this tree -
// either by constructing the node structs directly or by emitting the JSON
// form understood by DecodeStatement. The node set is closed and documented;
// any compliant parser can be substituted without touching the analysis
// packages. Nodes carry no mutation methods: the tree is read-only once
// handed to the analyzer.
package ast
