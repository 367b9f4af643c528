package serialization

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ritamzico/trigraph/internal/hexastore"
	"github.com/ritamzico/trigraph/internal/resultset"
	"github.com/ritamzico/trigraph/internal/value"
)

func roundTripGraph(t *testing.T, graphName string, triples []hexastore.Triplet) (string, []hexastore.Triplet) {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteGraphJSON(graphName, triples, &buf); err != nil {
		t.Fatalf("WriteGraphJSON: %v", err)
	}
	name, got, err := ReadGraphJSON(&buf)
	if err != nil {
		t.Fatalf("ReadGraphJSON: %v", err)
	}
	return name, got
}

func assertTripletsEqual(t *testing.T, got, want hexastore.Triplet) {
	t.Helper()
	if *got.Subject != *want.Subject || *got.Predicate != *want.Predicate || *got.Object != *want.Object {
		t.Errorf("triplet = (%s,%s,%s), want (%s,%s,%s)",
			*got.Subject, *got.Predicate, *got.Object,
			*want.Subject, *want.Predicate, *want.Object)
	}
}

func TestRoundTripEmptyGraph(t *testing.T) {
	name, got := roundTripGraph(t, "g1", nil)
	if name != "g1" {
		t.Errorf("graph name = %q, want g1", name)
	}
	if len(got) != 0 {
		t.Errorf("expected 0 triples, got %d", len(got))
	}
}

func TestRoundTripSingleTriplet(t *testing.T) {
	triples := []hexastore.Triplet{hexastore.NewTriplet("alice", "knows", "bob")}
	_, got := roundTripGraph(t, "social", triples)
	if len(got) != 1 {
		t.Fatalf("expected 1 triple, got %d", len(got))
	}
	assertTripletsEqual(t, got[0], triples[0])
}

func TestRoundTripManyTriplets(t *testing.T) {
	triples := []hexastore.Triplet{
		hexastore.NewTriplet("alice", "knows", "bob"),
		hexastore.NewTriplet("bob", "knows", "carol"),
		hexastore.NewTriplet("carol", "supplies", "alice"),
	}
	_, got := roundTripGraph(t, "social", triples)
	if len(got) != len(triples) {
		t.Fatalf("expected %d triples, got %d", len(triples), len(got))
	}
	for i := range triples {
		assertTripletsEqual(t, got[i], triples[i])
	}
}

func TestRoundTripSpecialCharacters(t *testing.T) {
	triples := []hexastore.Triplet{
		hexastore.NewTriplet("node with spaces", "relates/to", "unicode-日本語"),
	}
	_, got := roundTripGraph(t, "g", triples)
	assertTripletsEqual(t, got[0], triples[0])
}

func TestWriteGraphJSONProducesValidJSON(t *testing.T) {
	triples := []hexastore.Triplet{hexastore.NewTriplet("a", "r", "b")}
	var buf bytes.Buffer
	if err := WriteGraphJSON("g", triples, &buf); err != nil {
		t.Fatalf("WriteGraphJSON: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"graph"`, `"triples"`, `"subject"`, `"predicate"`, `"object"`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON missing %s", want)
		}
	}
}

func TestReadGraphJSONInvalidJSON(t *testing.T) {
	_, _, err := ReadGraphJSON(strings.NewReader(`{"triples": [`))
	if err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestMarshalValueAllKinds(t *testing.T) {
	cases := []struct {
		name string
		in   value.Value
		want string
	}{
		{"int", value.Int(7), "int"},
		{"float", value.Float(2.5), "float"},
		{"string", value.String("hi"), "string"},
		{"bool", value.Bool(true), "bool"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := marshalValue(tc.in)
			if got.Kind != tc.want {
				t.Errorf("Kind = %q, want %q", got.Kind, tc.want)
			}
		})
	}
}

func TestUnmarshalValueRoundTrips(t *testing.T) {
	cases := []struct {
		name string
		sv   serializedValue
		want value.Kind
	}{
		{"int", serializedValue{Kind: "int", Value: float64(42)}, value.IntVal},
		{"float", serializedValue{Kind: "float", Value: 3.14}, value.FloatVal},
		{"string", serializedValue{Kind: "string", Value: "test"}, value.StringVal},
		{"bool", serializedValue{Kind: "bool", Value: true}, value.BoolVal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := unmarshalValue(tc.sv)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Kind != tc.want {
				t.Errorf("Kind = %v, want %v", got.Kind, tc.want)
			}
		})
	}
}

func TestUnmarshalValueUnknownKind(t *testing.T) {
	_, err := unmarshalValue(serializedValue{Kind: "complex", Value: 42})
	if err == nil {
		t.Error("expected error for unknown value kind")
	}
}

func TestUnmarshalValueWrongType(t *testing.T) {
	_, err := unmarshalValue(serializedValue{Kind: "int", Value: "not-a-number"})
	if err == nil {
		t.Error("expected error for wrong property value type")
	}
}

func TestWriteResultSetJSON(t *testing.T) {
	rs := resultset.New([]resultset.Column{{Name: "a"}, {Name: "b"}}, 0)
	rs.AddRow([]value.Value{value.String("alice"), value.String("bob")})
	rs.AddRow([]value.Value{value.String("carol"), value.String("dave")})

	var buf bytes.Buffer
	if err := WriteResultSetJSON(rs, &buf); err != nil {
		t.Fatalf("WriteResultSetJSON: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"columns"`, `"rows"`, `"name": "a"`, `"alice"`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON missing %s", want)
		}
	}
}

func TestWriteResultSetJSONEmpty(t *testing.T) {
	rs := resultset.New([]resultset.Column{{Name: "a"}}, 0)
	var buf bytes.Buffer
	if err := WriteResultSetJSON(rs, &buf); err != nil {
		t.Fatalf("WriteResultSetJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"columns"`) {
		t.Error("expected columns even with no rows")
	}
}
