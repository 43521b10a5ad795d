package driver

import "testing"

func TestSimpleTypeName(t *testing.T) {
	cases := map[string]string{
		"net/minecraft/entity/passive/PigEntity": "PigEntity",
		"PigEntity":                              "PigEntity",
		"a/b/c/D":                                "D",
	}
	for in, want := range cases {
		if got := simpleTypeName(in); got != want {
			t.Errorf("simpleTypeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSortDocumentOrdersAscending(t *testing.T) {
	doc := &Document{
		Entities: []EntitiesRow{{ID: "z"}, {ID: "a"}, {ID: "m"}},
		Types:    []TypesRow{{Name: "z"}, {Name: "a"}, {Name: "m"}},
	}
	sortDocument(doc)

	wantEntities := []string{"a", "m", "z"}
	for i, id := range wantEntities {
		if doc.Entities[i].ID != id {
			t.Errorf("entities[%d].ID = %q, want %q", i, doc.Entities[i].ID, id)
		}
	}
	wantTypes := []string{"a", "m", "z"}
	for i, name := range wantTypes {
		if doc.Types[i].Name != name {
			t.Errorf("types[%d].Name = %q, want %q", i, doc.Types[i].Name, name)
		}
	}
}
