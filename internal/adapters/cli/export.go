package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	tgerrors "github.com/example/taskgraph/internal/errors"
	"github.com/example/taskgraph/internal/models"
	"github.com/example/taskgraph/internal/ports/primary"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatDOT  = "dot"
)

// ExportGraph writes a dependency graph as JSON, YAML or Graphviz DOT.
func ExportGraph(w io.Writer, graph *primary.DependencyGraph, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, graph)
	case FormatYAML:
		return writeYAML(w, graph)
	case FormatDOT:
		fmt.Fprintln(w, "digraph taskgraph {")
		fmt.Fprintln(w, "  rankdir=LR;")
		for _, n := range graph.Nodes {
			writeDOTNode(w, n)
		}
		for _, e := range graph.Edges {
			attrs := fmt.Sprintf("label=%q", e.Type)
			if !models.IsOrderingDependency(e.Type) {
				attrs += ", style=dashed"
			}
			fmt.Fprintf(w, "  %q -> %q [%s];\n", e.DependentID, e.RequiredID, attrs)
		}
		fmt.Fprintln(w, "}")
		return nil
	}
	return unknownFormat(format)
}

// ExportHierarchy writes a subtree as JSON, YAML or Graphviz DOT.
func ExportHierarchy(w io.Writer, root *primary.HierarchyNode, format string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, root)
	case FormatYAML:
		return writeYAML(w, root)
	case FormatDOT:
		fmt.Fprintln(w, "digraph hierarchy {")
		for n := range root.All() {
			writeDOTNode(w, n.Item)
			for _, c := range n.Children {
				fmt.Fprintf(w, "  %q -> %q;\n", n.Item.ID, c.Item.ID)
			}
		}
		fmt.Fprintln(w, "}")
		return nil
	}
	return unknownFormat(format)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

func writeDOTNode(w io.Writer, item *primary.Item) {
	label := item.Key + `\n` + item.Status
	fmt.Fprintf(w, "  %q [label=\"%s\"%s];\n", item.ID, strings.ReplaceAll(label, `"`, `\"`), dotStyle(item.Status))
}

func dotStyle(status string) string {
	switch status {
	case models.ItemStatusCompleted:
		return ", style=filled, fillcolor=palegreen"
	case models.ItemStatusInProgress:
		return ", style=filled, fillcolor=khaki"
	case models.ItemStatusFailed:
		return ", style=filled, fillcolor=salmon"
	}
	return ""
}

func unknownFormat(format string) error {
	return tgerrors.Validation("unknown format %q (want %s, %s or %s)", format, FormatJSON, FormatYAML, FormatDOT)
}
