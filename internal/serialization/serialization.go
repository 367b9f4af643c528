// Package serialization encodes a graph's stored triples and a query's
// result set to JSON, in the same serializedX/marshalValue/WriteJSON
// shape the teacher's own graph serializer uses for its node/edge model,
// adapted here to a flat list of triples and to tabular query output.
package serialization

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ritamzico/trigraph/internal/hexastore"
	"github.com/ritamzico/trigraph/internal/resultset"
	"github.com/ritamzico/trigraph/internal/value"
)

type serializedValue struct {
	Kind  string `json:"kind"`
	Value any    `json:"value,omitempty"`
}

type serializedTriple struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

type serializedGraph struct {
	Graph   string             `json:"graph"`
	Triples []serializedTriple `json:"triples"`
}

type serializedColumn struct {
	Name      string `json:"name"`
	Aggregate bool   `json:"aggregate,omitempty"`
}

type serializedResultSet struct {
	Columns []serializedColumn  `json:"columns"`
	Rows    [][]serializedValue `json:"rows"`
}

func marshalValue(v value.Value) serializedValue {
	switch v.Kind {
	case value.IntVal:
		return serializedValue{Kind: "int", Value: v.I}
	case value.FloatVal:
		return serializedValue{Kind: "float", Value: v.F}
	case value.StringVal:
		return serializedValue{Kind: "string", Value: v.S}
	case value.BoolVal:
		return serializedValue{Kind: "bool", Value: v.B}
	default:
		return serializedValue{Kind: "unknown"}
	}
}

func unmarshalValue(sv serializedValue) (value.Value, error) {
	switch sv.Kind {
	case "int":
		f, ok := sv.Value.(float64)
		if !ok {
			return value.Value{}, fmt.Errorf("expected number for int, got %T", sv.Value)
		}
		return value.Int(int64(f)), nil
	case "float":
		f, ok := sv.Value.(float64)
		if !ok {
			return value.Value{}, fmt.Errorf("expected number for float, got %T", sv.Value)
		}
		return value.Float(f), nil
	case "string":
		s, ok := sv.Value.(string)
		if !ok {
			return value.Value{}, fmt.Errorf("expected string, got %T", sv.Value)
		}
		return value.String(s), nil
	case "bool":
		b, ok := sv.Value.(bool)
		if !ok {
			return value.Value{}, fmt.Errorf("expected bool, got %T", sv.Value)
		}
		return value.Bool(b), nil
	default:
		return value.Value{}, fmt.Errorf("unknown serialized value kind %q", sv.Kind)
	}
}

// WriteGraphJSON encodes triples (as yielded by a full wildcard scan
// over graphName) to w.
func WriteGraphJSON(graphName string, triples []hexastore.Triplet, w io.Writer) error {
	sg := serializedGraph{Graph: graphName, Triples: make([]serializedTriple, 0, len(triples))}
	for _, t := range triples {
		sg.Triples = append(sg.Triples, serializedTriple{
			Subject:   *t.Subject,
			Predicate: *t.Predicate,
			Object:    *t.Object,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sg)
}

// ReadGraphJSON decodes a previously-dumped graph's name and triples.
func ReadGraphJSON(r io.Reader) (graphName string, triples []hexastore.Triplet, err error) {
	var sg serializedGraph
	if err := json.NewDecoder(r).Decode(&sg); err != nil {
		return "", nil, fmt.Errorf("decoding graph dump: %w", err)
	}
	out := make([]hexastore.Triplet, 0, len(sg.Triples))
	for _, st := range sg.Triples {
		out = append(out, hexastore.NewTriplet(st.Subject, st.Predicate, st.Object))
	}
	return sg.Graph, out, nil
}

// WriteResultSetJSON encodes a query's columns and rows as a
// columns/rows pair, rather than one object per row, so repeated column
// names are not repeated once per row.
func WriteResultSetJSON(rs *resultset.ResultSet, w io.Writer) error {
	srs := serializedResultSet{Columns: make([]serializedColumn, len(rs.Columns))}
	for i, c := range rs.Columns {
		srs.Columns[i] = serializedColumn{Name: c.Name, Aggregate: c.Aggregate}
	}
	for _, row := range rs.Rows() {
		srow := make([]serializedValue, len(row))
		for i, v := range row {
			srow[i] = marshalValue(v)
		}
		srs.Rows = append(srs.Rows, srow)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(srs)
}
