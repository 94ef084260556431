package ast

import (
	"strings"
	"testing"
)

func TestParseType(t *testing.T) {
	cases := []struct {
		in   string
		want *Type
	}{
		{"Int", T("Int")},
		{"List<Int>", T("List", T("Int"))},
		{"Dictionary<String, List<Int>>", T("Dictionary", T("String"), T("List", T("Int")))},
		{" Pointer < List<Int> > ", T("Pointer", T("List", T("Int")))},
	}
	for _, tc := range cases {
		got, err := ParseType(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("parse %q: want %s, got %s", tc.in, tc.want, got)
		}
	}

	for _, bad := range []string{"", "List<Int", "List<>", "List<Int>>"} {
		if _, err := ParseType(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestDecode_YAML(t *testing.T) {
	src := `
type: module
dependencies:
  - {type: dependency, name: vector}
main:
  - type: assignment
    target: {type: local, name: xs, pseudo_type: "List<Int>"}
    value:
      type: list
      pseudo_type: [List, Int]
      elements:
        - {type: int, value: 1, pseudo_type: Int}
        - {type: float, value: 2.5, pseudo_type: Float}
  - type: if_statement
    test: {type: boolean, value: true}
    block: []
    otherwise: null
definitions:
  - type: function_definition
    name: f
    return_type: Void
    params: []
    block: []
`
	module, err := DecodeModule([]byte(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	main, ok := module.Children("main")
	if !ok || len(main) != 2 {
		t.Fatalf("main = %v", main)
	}
	target, _ := main[0].Child("target")
	if !target.Type.Equal(T("List", T("Int"))) {
		t.Fatalf("target type = %s", target.Type)
	}
	value, _ := main[0].Child("value")
	if !value.Type.Equal(T("List", T("Int"))) {
		t.Fatalf("list form type = %s", value.Type)
	}
	elements, _ := value.Children("elements")
	if elements[0].Attrs["value"] != Int(1) || elements[1].Attrs["value"] != Float(2.5) {
		t.Fatalf("scalar decoding: %#v %#v", elements[0].Attrs["value"], elements[1].Attrs["value"])
	}

	ifStmt := main[1]
	if ifStmt.Attrs["test"].(*Node).Attrs["value"] != Bool(true) {
		t.Fatalf("bool decoding failed")
	}
	if block, ok := ifStmt.Children("block"); !ok || len(block) != 0 {
		t.Fatalf("empty block should be present")
	}
	if ifStmt.Has("otherwise") {
		t.Fatalf("null attribute should be absent")
	}

	defs, _ := module.Children("definitions")
	rt, ok := defs[0].Attr("return_type")
	if !ok {
		t.Fatalf("return_type missing")
	}
	if typ, ok := rt.(*Type); !ok || typ.Name != "Void" {
		t.Fatalf("return_type = %#v", rt)
	}
}

func TestDecode_JSON(t *testing.T) {
	src := `{"type": "module", "main": [{"type": "call", "function": {"type": "local", "name": "run"}, "args": []}]}`
	module, err := DecodeModule([]byte(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	main, _ := module.Children("main")
	if main[0].Kind != KindCall {
		t.Fatalf("kind = %q", main[0].Kind)
	}
}

func TestDecode_Errors(t *testing.T) {
	cases := map[string]struct {
		src  string
		want string
	}{
		"empty":        {"  ", "empty"},
		"unknown kind": {"type: goto", "unknown node type"},
		"missing type": {"name: x", "missing its type"},
		"scalar list":  {"type: module\nmain: [1, 2]", "list elements must be nodes"},
		"not module":   {"type: local\nname: x", "root node must be"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeModule([]byte(tc.src))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("want error containing %q, got %v", tc.want, err)
			}
		})
	}
}
