package listings

import (
	"errors"
	"reflect"
	"testing"
)

func TestDecode_ConcreteListing(t *testing.T) {
	props, err := Decode([]byte(`[{"id":"1","img_src":"http://x/a.jpg","price":200000,"type":"buy"}]`))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	want := []Property{{ID: "1", ImgSrcURL: "http://x/a.jpg", Price: 200000, Type: TypeBuy}}
	if !reflect.DeepEqual(props, want) {
		t.Fatalf("Decode = %#v, want %#v", props, want)
	}
}

func TestDecode_KeepsOrderAndIgnoresUnknownKeys(t *testing.T) {
	props, err := Decode([]byte(`[
		{"id":"b","img_src":"u2","price":10,"type":"rent","bedrooms":3},
		{"id":"a","img_src":"u1","price":20,"type":"buy","extra":{"nested":true}}
	]`))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(props) != 2 || props[0].ID != "b" || props[1].ID != "a" {
		t.Fatalf("Decode = %#v, want server order b, a", props)
	}
}

func TestDecode_Empty(t *testing.T) {
	props, err := Decode([]byte(" [] "))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if props == nil || len(props) != 0 {
		t.Fatalf("Decode = %#v, want empty non-nil slice", props)
	}
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantIndex int
		wantField string
	}{
		{"malformed", `[{"id":`, -1, ""},
		{"null", `null`, -1, ""},
		{"object", `{"id":"1"}`, -1, ""},
		{"trailing data", `[] []`, -1, ""},
		{"string price", `[{"id":"1","img_src":"u","price":"abc","type":"buy"}]`, 0, "price"},
		{"fractional price", `[{"id":"1","img_src":"u","price":1.5,"type":"buy"}]`, 0, "price"},
		{"numeric id", `[{"id":1,"img_src":"u","price":1,"type":"buy"}]`, 0, "id"},
		{"missing id", `[{"img_src":"u","price":1,"type":"buy"}]`, 0, "id"},
		{"missing img_src", `[{"id":"1","price":1,"type":"buy"}]`, 0, "img_src"},
		{"missing price", `[{"id":"1","img_src":"u","type":"buy"}]`, 0, "price"},
		{"null price", `[{"id":"1","img_src":"u","price":null,"type":"buy"}]`, 0, "price"},
		{"missing type", `[{"id":"1","img_src":"u","price":1}]`, 0, "type"},
		{"unknown type", `[{"id":"1","img_src":"u","price":1,"type":"lease"}]`, 0, "type"},
		{
			"bad element after good ones",
			`[{"id":"1","img_src":"u","price":1,"type":"buy"},{"id":"2","img_src":"u","price":"x","type":"buy"}]`,
			1, "price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props, err := Decode([]byte(tt.payload))
			if props != nil {
				t.Fatalf("Decode returned %#v, want nil on error", props)
			}
			var decErr *DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("Decode error = %v, want *DecodeError", err)
			}
			if decErr.Index != tt.wantIndex {
				t.Fatalf("Index = %d, want %d", decErr.Index, tt.wantIndex)
			}
			if decErr.Field != tt.wantField {
				t.Fatalf("Field = %q, want %q", decErr.Field, tt.wantField)
			}
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	original := []byte(`[{"id":"2","img_src":"http://x/b.jpg","price":1500,"type":"rent"},{"id":"1","img_src":"http://x/a.jpg","price":200000,"type":"buy"}]`)

	props, err := Decode(original)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	encoded, err := Encode(props)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if string(encoded) != string(original) {
		t.Fatalf("Encode = %s, want %s", encoded, original)
	}
	again, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode(encoded) returned error: %v", err)
	}
	if !reflect.DeepEqual(again, props) {
		t.Fatalf("round trip = %#v, want %#v", again, props)
	}
}

func TestEncode_NilIsEmptyArray(t *testing.T) {
	encoded, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if string(encoded) != "[]" {
		t.Fatalf("Encode(nil) = %s, want []", encoded)
	}
}
