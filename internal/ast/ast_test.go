package ast

import "testing"

func TestDecodeAndLink(t *testing.T) {
	data := []byte(`{
		"type": "Program",
		"body": [
			{
				"type": "TypeAlias",
				"id": {"type": "Identifier", "name": "Pair"},
				"right": {
					"type": "TupleTypeAnnotation",
					"types": [
						{"type": "NumberTypeAnnotation"},
						{"type": "StringTypeAnnotation"}
					]
				}
			}
		]
	}`)

	root, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if root.Kind != KindProgram || len(root.Body) != 1 {
		t.Fatalf("unexpected root: %+v", root)
	}

	alias := root.Body[0]
	if alias.Parent != root || alias.ParentField() != "body" {
		t.Errorf("alias parent link is wrong")
	}
	if alias.ID.Name != "Pair" {
		t.Errorf("id = %q, want Pair", alias.ID.Name)
	}
	tuple := alias.Right
	if tuple.Parent != alias || tuple.ParentField() != "right" {
		t.Errorf("tuple parent link is wrong")
	}
	if len(tuple.Types) != 2 || tuple.Types[0].Parent != tuple || tuple.Types[0].ParentField() != "types" {
		t.Errorf("tuple member links are wrong")
	}
}

func TestDecodeLiteralValues(t *testing.T) {
	data := []byte(`{"type": "NumberLiteralTypeAnnotation", "value": 42}`)
	node, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	n, ok := node.NumberValue()
	if !ok || n != 42 {
		t.Errorf("NumberValue = %v, %v", n, ok)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte(`{"type": `)); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestIsAnnotation(t *testing.T) {
	if (&Node{Kind: KindProgram}).IsAnnotation() {
		t.Error("Program is not an annotation")
	}
	if (&Node{Kind: KindClassProperty}).IsAnnotation() {
		t.Error("ClassProperty is not an annotation")
	}
	if !(&Node{Kind: KindUnionTypeAnnotation}).IsAnnotation() {
		t.Error("UnionTypeAnnotation is an annotation")
	}
}
