// Package graph provides the document types for layout problems and solved
// layouts.
//
// This package defines the canonical wire format used for problem files,
// API requests and responses, caching and persistence. The solver itself
// works on [majorize.Collection] values; pkg/pipeline converts between the
// two.
//
// # Core Types
//
//   - [Problem]: nodes with initial positions, target distances and ignored pairs
//   - [Layout]: solved positions plus the convergence trace and the options used
//   - [Node], [Target], [Pair]: shared structural types
//
// # Problem Files
//
// Problems are read from JSON or TOML, chosen by file extension:
//
//	{
//	  "nodes": [
//	    {"id": "a", "x": 0, "y": 0},
//	    {"id": "b", "x": 10, "y": 0}
//	  ],
//	  "targets": [{"from": "a", "to": "b", "distance": 5}],
//	  "default_target": 10
//	}
//
// The same document in TOML:
//
//	default_target = 10.0
//
//	[[nodes]]
//	id = "a"
//	x = 0.0
//	y = 0.0
//
//	[[targets]]
//	from = "a"
//	to = "b"
//	distance = 5.0
//
// Common operations:
//
//	p, _ := graph.ReadProblemFile("problem.toml")  // File → Problem
//	_ = p.Validate()                               // structural checks
//	data, _ := graph.MarshalProblem(p)             // Problem → canonical JSON
//
// # Layout Serialization
//
// Layouts are always JSON:
//
//	l, _ := graph.ReadLayoutFile("problem.layout.json")
//	graph.WriteLayoutFile(l, "copy.layout.json")
//
// # Node Metadata
//
// The meta object supports arbitrary key-value data. It is carried through
// solving untouched and shown as a tooltip when rendering.
//
// [majorize.Collection]: github.com/matzehuels/stresslayout/pkg/core/majorize.Collection
package graph
