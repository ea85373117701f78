package ir

import (
	"encoding/json"
	"testing"

	callerrors "github.com/broady/callgen/errors"
)

func sampleTree() *Tree {
	root := &EnumDef{Name: "RuntimeCall"}
	root.AddVariant(VariantDef{Name: "System", Discriminant: 0, Payload: Opaque("SystemCall")})
	system := &EnumDef{Name: "SystemCall"}
	system.AddVariant(VariantDef{
		Name:         "remark",
		Discriminant: 1,
		Payload:      Fields(FieldDef{Name: "remark", Type: "u8", Fallback: true}),
	})
	system.AddVariant(VariantDef{Name: "noop", Discriminant: 7, Payload: Empty()})
	t := &Tree{Module: "runtime", Root: "RuntimeCall"}
	t.AddEnum(root)
	t.AddEnum(system)
	return t
}

func TestPayloadKind_String(t *testing.T) {
	tests := []struct {
		kind PayloadKind
		want string
	}{
		{PayloadEmpty, "empty"},
		{PayloadOpaque, "opaque"},
		{PayloadFields, "fields"},
		{PayloadKind(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("PayloadKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestFields_NoFieldsIsEmpty(t *testing.T) {
	if got := Fields(); got.Kind != PayloadEmpty {
		t.Errorf("Fields().Kind = %v, want empty", got.Kind)
	}
}

func TestTree_Find(t *testing.T) {
	tree := sampleTree()
	if tree.RootEnum() == nil || tree.RootEnum().Name != "RuntimeCall" {
		t.Fatalf("RootEnum() = %v", tree.RootEnum())
	}
	if tree.FindEnum("Missing") != nil {
		t.Error("FindEnum(Missing) should be nil")
	}
	sys := tree.FindEnum("SystemCall")
	if v := sys.FindVariant("noop"); v == nil || v.Discriminant != 7 {
		t.Errorf("FindVariant(noop) = %v", v)
	}
	if sys.FindVariant("nope") != nil {
		t.Error("FindVariant(nope) should be nil")
	}
	empty := &Tree{Module: "m", Root: "RuntimeCall"}
	if empty.RootEnum() != nil {
		t.Error("RootEnum() on empty tree should be nil")
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"runtime", true},
		{"_x", true},
		{"Balances2", true},
		{"2fa", false},
		{"a-b", false},
		{"a b", false},
		{"Über", false},
	}
	for _, tt := range tests {
		if got := IsIdentifier(tt.in); got != tt.want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTree_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tree)
		kind   callerrors.Kind
	}{
		{"valid", func(*Tree) {}, ""},
		{"bad module", func(t *Tree) { t.Module = "my-runtime" }, callerrors.KindInvalidInput},
		{"duplicate enum", func(t *Tree) {
			t.AddEnum(&EnumDef{Name: "SystemCall"})
		}, callerrors.KindIdentifierCollision},
		{"duplicate discriminant", func(t *Tree) {
			t.Enums[1].Variants[1].Discriminant = 1
		}, callerrors.KindDuplicateDiscriminant},
		{"discriminant too large", func(t *Tree) {
			t.Enums[1].Variants[1].Discriminant = 256
		}, callerrors.KindInvalidDiscriminant},
		{"negative discriminant", func(t *Tree) {
			t.Enums[1].Variants[1].Discriminant = -1
		}, callerrors.KindInvalidDiscriminant},
		{"duplicate variant name", func(t *Tree) {
			t.Enums[1].Variants[1].Name = "remark"
		}, callerrors.KindIdentifierCollision},
		{"duplicate field name", func(t *Tree) {
			p := &t.Enums[1].Variants[0].Payload
			p.Fields = append(p.Fields, FieldDef{Name: "remark", Type: "u32"})
		}, callerrors.KindIdentifierCollision},
		{"field without type", func(t *Tree) {
			t.Enums[1].Variants[0].Payload.Fields[0].Type = ""
		}, callerrors.KindSchemaIntegrity},
		{"dangling opaque", func(t *Tree) {
			t.Enums[0].Variants[0].Payload = Opaque("GoneCall")
		}, callerrors.KindSchemaIntegrity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := sampleTree()
			tt.mutate(tree)
			errs := tree.Validate()
			if tt.kind == "" {
				if len(errs) != 0 {
					t.Fatalf("Validate() = %v, want no errors", errs)
				}
				return
			}
			if len(errs) != 1 {
				t.Fatalf("Validate() returned %d errors, want 1: %v", len(errs), errs)
			}
			if !callerrors.IsKind(errs[0], tt.kind) {
				t.Errorf("Validate() error = %v, want kind %s", errs[0], tt.kind)
			}
		})
	}
}

func TestTree_MarshalJSON(t *testing.T) {
	got, err := json.Marshal(sampleTree())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"module":"runtime","root":"RuntimeCall","enums":[` +
		`{"name":"RuntimeCall","variants":[{"name":"System","index":0,"payload":{"kind":"opaque","type":"SystemCall"}}]},` +
		`{"name":"SystemCall","variants":[` +
		`{"name":"remark","index":1,"payload":{"kind":"fields","fields":[{"name":"remark","type":"u8","fallback":true}]}},` +
		`{"name":"noop","index":7,"payload":{"kind":"empty"}}]}]}`
	if string(got) != want {
		t.Errorf("json.Marshal(tree) =\n%s\nwant\n%s", got, want)
	}
}

func TestTree_MarshalJSON_Empty(t *testing.T) {
	tree := &Tree{Module: "runtime", Root: "RuntimeCall"}
	tree.AddEnum(&EnumDef{Name: "RuntimeCall"})
	got, err := json.Marshal(tree)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"module":"runtime","root":"RuntimeCall","enums":[{"name":"RuntimeCall","variants":[]}]}`
	if string(got) != want {
		t.Errorf("json.Marshal(empty) = %s, want %s", got, want)
	}
}

func TestTree_ValidateReportsDiscriminantsFirst(t *testing.T) {
	tree := sampleTree()
	tree.Enums[0].AddVariant(VariantDef{Name: "System", Discriminant: 0, Payload: Opaque("SystemCall")})
	tree.AddEnum(&EnumDef{Name: "SystemCall"})

	errs := tree.Validate()
	if len(errs) < 2 {
		t.Fatalf("Validate() returned %d errors, want at least 2: %v", len(errs), errs)
	}
	if !callerrors.IsKind(errs[0], callerrors.KindDuplicateDiscriminant) {
		t.Errorf("first error = %v, want duplicate discriminant", errs[0])
	}
}
