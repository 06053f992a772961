package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

const graphMLNamespace = "http://graphml.graphdrawing.org/xmlns"

type graphML struct {
	XMLName xml.Name     `xml:"graphml"`
	XMLNS   string       `xml:"xmlns,attr"`
	Keys    []graphMLKey `xml:"key"`
	Graph   graphMLGraph `xml:"graph"`
}

type graphMLKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type graphMLGraph struct {
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphMLNode `xml:"node"`
	Edges       []graphMLEdge `xml:"edge"`
}

type graphMLNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphMLData `xml:"data"`
}

type graphMLEdge struct {
	ID     string        `xml:"id,attr"`
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphMLData `xml:"data"`
}

type graphMLData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// WriteGraphML writes the document as an indented GraphML graph. Node ids are
// "n<object id>"; edge relations are encoded as "KIND:e1 e2;KIND:e3".
func WriteGraphML(w io.Writer, doc Document) error {
	g := graphML{
		XMLNS: graphMLNamespace,
		Keys: []graphMLKey{
			{ID: "type", For: "node", AttrName: "type", AttrType: "string"},
			{ID: "lifeline", For: "node", AttrName: "lifeline", AttrType: "string"},
			{ID: "relations", For: "edge", AttrName: "relations", AttrType: "string"},
		},
		Graph: graphMLGraph{EdgeDefault: "directed"},
	}
	for _, n := range doc.Nodes {
		g.Graph.Nodes = append(g.Graph.Nodes, graphMLNode{
			ID: nodeID(n.ID),
			Data: []graphMLData{
				{Key: "type", Value: n.Type},
				{Key: "lifeline", Value: joinIDs(n.Lifeline)},
			},
		})
	}
	for i, e := range doc.Edges {
		g.Graph.Edges = append(g.Graph.Edges, graphMLEdge{
			ID:     fmt.Sprintf("e%d", i),
			Source: nodeID(e.Source),
			Target: nodeID(e.Target),
			Data:   []graphMLData{{Key: "relations", Value: encodeRelations(e.Relations)}},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write graphml: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("write graphml: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write graphml: %w", err)
	}
	return nil
}

func nodeID(id uint64) string {
	return "n" + strconv.FormatUint(id, 10)
}

func joinIDs(ids []uint64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(id, 10)
	}
	return strings.Join(parts, " ")
}

func encodeRelations(rels map[string][]uint64) string {
	names := make([]string, 0, len(rels))
	for name := range rels {
		names = append(names, name)
	}
	slices.Sort(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ":" + joinIDs(rels[name])
	}
	return strings.Join(parts, ";")
}
