package content

import (
	"encoding/json"
	"fmt"
)

type ElementKind string

const (
	KindText        ElementKind = "text"
	KindRichText    ElementKind = "rich_text"
	KindNumber      ElementKind = "number"
	KindTaxonomy    ElementKind = "taxonomy"
	KindLinkedItems ElementKind = "modular_content"
	KindURLSlug     ElementKind = "url_slug"
	KindUnknown     ElementKind = "unknown"
)

type TaxonomyTerm struct {
	Name     string `json:"name"`
	Codename string `json:"codename"`
}

// Element is one typed field of an item. The delivery API sends every
// element as {"type", "name", "value"} with a value shape that depends
// on the type, so decoding keeps the raw value behind typed accessors.
type Element struct {
	Kind ElementKind
	Name string

	str    string
	hasStr bool
	num    float64
	hasNum bool
	terms  []TaxonomyTerm
	links  []string
}

// StringValue returns the element value when the wire value was a JSON
// string, whatever the declared element type. Rich text values are the
// raw HTML markup.
func (e Element) StringValue() (string, bool) {
	return e.str, e.hasStr
}

func (e Element) NumberValue() (float64, bool) {
	return e.num, e.hasNum
}

// TaxonomyTerms returns the selected terms of a taxonomy or
// multiple-choice element, in source order.
func (e Element) TaxonomyTerms() []TaxonomyTerm {
	return e.terms
}

// LinkedItemCodenames returns the codenames referenced by a linked-items
// element, in source order.
func (e Element) LinkedItemCodenames() []string {
	return e.links
}

func (e *Element) UnmarshalJSON(data []byte) error {
	var wire struct {
		Type  string          `json:"type"`
		Name  string          `json:"name"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decode element: %w", err)
	}

	e.Kind = kindOf(wire.Type)
	e.Name = wire.Name

	if len(wire.Value) == 0 || string(wire.Value) == "null" {
		return nil
	}

	switch e.Kind {
	case KindNumber:
		if err := json.Unmarshal(wire.Value, &e.num); err != nil {
			return fmt.Errorf("decode number element %q: %w", wire.Name, err)
		}
		e.hasNum = true
	case KindTaxonomy:
		if err := json.Unmarshal(wire.Value, &e.terms); err != nil {
			return fmt.Errorf("decode taxonomy element %q: %w", wire.Name, err)
		}
	case KindLinkedItems:
		if err := json.Unmarshal(wire.Value, &e.links); err != nil {
			return fmt.Errorf("decode linked items element %q: %w", wire.Name, err)
		}
	default:
		// Everything else is string-shaped on the wire when present:
		// text, url_slug, rich_text, date_time, custom. Non-string
		// values of unknown types are kept opaque rather than rejected.
		var s string
		if err := json.Unmarshal(wire.Value, &s); err == nil {
			e.str = s
			e.hasStr = true
		}
	}
	return nil
}

func kindOf(wireType string) ElementKind {
	switch wireType {
	case "text":
		return KindText
	case "rich_text":
		return KindRichText
	case "number":
		return KindNumber
	case "taxonomy", "multiple_choice":
		return KindTaxonomy
	case "modular_content":
		return KindLinkedItems
	case "url_slug":
		return KindURLSlug
	default:
		return KindUnknown
	}
}
