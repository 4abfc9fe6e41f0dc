package listings

import (
	"encoding/json"
	"errors"
	"fmt"
)

// wireProperty uses pointers so absent keys can be told apart from zero values.
type wireProperty struct {
	ID     *string `json:"id"`
	ImgSrc *string `json:"img_src"`
	Price  *int64  `json:"price"`
	Type   *Type   `json:"type"`
}

// Decode parses a /realestate payload. The payload must be a JSON array; every
// element needs id, img_src, an integer price, and a rent/buy type. Unknown
// keys are ignored and server order is kept.
func Decode(data []byte) ([]Property, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, &DecodeError{Index: -1, Err: err}
	}
	if elems == nil {
		return nil, &DecodeError{Index: -1, Err: errors.New("expected a JSON array, got null")}
	}

	out := make([]Property, 0, len(elems))
	for i, elem := range elems {
		prop, err := decodeElement(i, elem)
		if err != nil {
			return nil, err
		}
		out = append(out, prop)
	}
	return out, nil
}

func decodeElement(index int, elem json.RawMessage) (Property, error) {
	var w wireProperty
	if err := json.Unmarshal(elem, &w); err != nil {
		de := &DecodeError{Index: index, Err: err}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			de.Field = typeErr.Field
		}
		return Property{}, de
	}

	missing := func(field string) error {
		return &DecodeError{Index: index, Field: field, Err: errors.New("required field missing")}
	}
	switch {
	case w.ID == nil:
		return Property{}, missing("id")
	case w.ImgSrc == nil:
		return Property{}, missing("img_src")
	case w.Price == nil:
		return Property{}, missing("price")
	case w.Type == nil:
		return Property{}, missing("type")
	}
	if !w.Type.Valid() {
		return Property{}, &DecodeError{
			Index: index,
			Field: "type",
			Err:   fmt.Errorf("unknown listing type %q", string(*w.Type)),
		}
	}

	return Property{
		ID:        *w.ID,
		ImgSrcURL: *w.ImgSrc,
		Price:     *w.Price,
		Type:      *w.Type,
	}, nil
}

// Encode writes properties in the same shape Decode accepts. A nil slice is
// written as an empty array.
func Encode(props []Property) ([]byte, error) {
	if props == nil {
		props = []Property{}
	}
	data, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("encode properties: %w", err)
	}
	return data, nil
}
