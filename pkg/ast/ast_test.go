package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNode_AbsentVersusEmpty(t *testing.T) {
	n := New(KindIfStatement, Attrs{
		"block":     Nodes(),
		"otherwise": nil,
	})

	if !n.Has("block") {
		t.Fatalf("empty list should count as present")
	}
	list, ok := n.Children("block")
	if !ok || len(list) != 0 {
		t.Fatalf("expected present empty list, got %v (ok=%v)", list, ok)
	}
	if n.Has("otherwise") {
		t.Fatalf("nil attribute should be dropped")
	}
	if _, ok := n.Children("missing"); ok {
		t.Fatalf("missing attribute reported as present")
	}
}

func TestNode_LookupDottedPath(t *testing.T) {
	value := IntLit(5)
	n := Assign(Local("total", T("Int")), value)

	got, ok := n.Lookup("value.pseudo_type")
	if !ok {
		t.Fatalf("lookup value.pseudo_type failed")
	}
	typ, ok := got.(*Type)
	if !ok || !typ.Equal(T("Int")) {
		t.Fatalf("want Int, got %v", got)
	}

	if _, ok := n.Lookup("target.name.extra"); ok {
		t.Fatalf("lookup through primitive should fail")
	}
	if name, ok := n.Lookup("target.name"); !ok || name != String("total") {
		t.Fatalf("target.name = %v (ok=%v)", name, ok)
	}
}

func TestNode_StrResolvesIdentifiers(t *testing.T) {
	n := New(KindThrowStatement, Attrs{
		"exception": Typename("ParseError"),
		"op":        String("+"),
	})
	if got, ok := n.Str("exception"); !ok || got != "ParseError" {
		t.Fatalf("exception = %q (ok=%v)", got, ok)
	}
	if got, ok := n.Str("op"); !ok || got != "+" {
		t.Fatalf("op = %q (ok=%v)", got, ok)
	}
}

func TestFormat_Primitives(t *testing.T) {
	cases := map[string]struct {
		in   Value
		want string
	}{
		"int":            {Int(42), "42"},
		"float":          {Float(2.5), "2.5"},
		"integral float": {Float(2), "2.0"},
		"bool":           {Bool(true), "true"},
		"string":         {String("x"), "x"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, ok := Format(tc.in)
			if !ok || got != tc.want {
				t.Fatalf("Format(%v) = %q (ok=%v), want %q", tc.in, got, ok, tc.want)
			}
		})
	}
	if _, ok := Format(Nodes()); ok {
		t.Fatalf("lists are not primitives")
	}
}

func TestKinds_ClosedSet(t *testing.T) {
	seen := map[Kind]bool{}
	for _, k := range Kinds() {
		if seen[k] {
			t.Fatalf("duplicate kind %q", k)
		}
		seen[k] = true
		if !k.Known() {
			t.Fatalf("kind %q not known", k)
		}
	}
	if Kind("goto_statement").Known() {
		t.Fatalf("unexpected kind accepted")
	}
}

func TestClone_IsDeep(t *testing.T) {
	orig := New(KindModule, Attrs{
		"main": Nodes(Assign(Local("x", T("Int")), IntLit(1))),
	})
	copied := Clone(orig)
	main, _ := copied.Children("main")
	main[0].Set("first_mention", Bool(true))
	main[0].Type = T("Void")

	origMain, _ := orig.Children("main")
	if origMain[0].Has("first_mention") || origMain[0].Type != nil {
		t.Fatalf("clone shares nodes with the original")
	}
}

func TestWalk_PathsInSourceOrder(t *testing.T) {
	module := New(KindModule, Attrs{
		"definitions": Nodes(New(KindFunctionDefinition, Attrs{
			"name":  String("f"),
			"block": Nodes(New(KindImplicitReturn, Attrs{"value": IntLit(1)})),
		})),
	})

	var paths []string
	Walk(module, func(path string, n *Node) bool {
		paths = append(paths, path+"="+string(n.Kind))
		return true
	})

	want := []string{
		"=module",
		"definitions[0]=function_definition",
		"definitions[0].block[0]=implicit_return",
		"definitions[0].block[0].value=int",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("walk paths mismatch (-want +got):\n%s", diff)
	}
}
