package classfile

import "testing"

func TestInitialFrameLocals(t *testing.T) {
	cases := []struct {
		name       string
		thisClass  string
		descriptor string
		static     bool
		want       []VerificationType
	}{
		{
			name:       "instance method with mixed params",
			thisClass:  "a/B",
			descriptor: "(IJLa/C;)V",
			want: []VerificationType{
				{Kind: VTObject, ClassName: "a/B"},
				{Kind: VTInteger},
				{Kind: VTLong},
				{Kind: VTObject, ClassName: "a/C"},
			},
		},
		{
			name:       "static method",
			thisClass:  "a/B",
			descriptor: "(D)I",
			static:     true,
			want: []VerificationType{
				{Kind: VTDouble},
			},
		},
		{
			name:       "narrow ints collapse to integer",
			thisClass:  "a/B",
			descriptor: "(ZBCS)V",
			static:     true,
			want: []VerificationType{
				{Kind: VTInteger},
				{Kind: VTInteger},
				{Kind: VTInteger},
				{Kind: VTInteger},
			},
		},
		{
			name:       "array params keep their descriptor as the name",
			thisClass:  "a/B",
			descriptor: "([I[La/C;)V",
			static:     true,
			want: []VerificationType{
				{Kind: VTObject, ClassName: "[I"},
				{Kind: VTObject, ClassName: "[La/C;"},
			},
		},
	}

	for _, c := range cases {
		got := initialFrameLocals(c.thisClass, c.descriptor, c.static)
		if len(got) != len(c.want) {
			t.Errorf("%s: got %d locals, want %d (%v)", c.name, len(got), len(c.want), got)
			continue
		}
		for i := range got {
			if got[i].Kind != c.want[i].Kind || got[i].ClassName != c.want[i].ClassName {
				t.Errorf("%s: local %d = %+v, want %+v", c.name, i, got[i], c.want[i])
			}
		}
	}
}
