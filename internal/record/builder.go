package record

import (
	"github.com/camphaven/searchsync/internal/content"
)

// TypeCampground is the content type handled by the structured builder.
const TypeCampground = "campground"

// Builder turns one resolved item into its search record.
type Builder interface {
	Build(item content.Item, graph content.Graph) Record
}

// Registry dispatches on the item's content type. Types without a
// registered builder fall through to the generic aggregating builder,
// so new structured types are added here and nowhere else.
type Registry struct {
	builders map[string]Builder
	generic  Builder
}

func NewRegistry(slugElement string) *Registry {
	return &Registry{
		builders: map[string]Builder{
			TypeCampground: &CampgroundBuilder{slugElement: slugElement},
		},
		generic: &GenericBuilder{
			slugElement: slugElement,
			aggregator:  NewAggregator(slugElement),
		},
	}
}

func (r *Registry) Build(item content.Item, graph content.Graph) Record {
	if b, ok := r.builders[item.Type]; ok {
		return b.Build(item, graph)
	}
	return r.generic.Build(item, graph)
}

func newBase(item content.Item, slugElement string) Base {
	b := Base{
		ObjectID:   ObjectID(item.ID, item.Language),
		ID:         item.ID,
		Codename:   item.Codename,
		Name:       item.Name,
		Language:   item.Language,
		Type:       item.Type,
		Collection: item.Collection,
		Content:    []ContentBlock{},
	}
	if slug, ok := item.SlugValue(slugElement); ok {
		b.Slug = slug
	}
	return b
}

// CampgroundBuilder extracts the typed campground fields from their
// named elements. Linked items play no part in this shape.
type CampgroundBuilder struct {
	slugElement string
}

func (b *CampgroundBuilder) Build(item content.Item, _ content.Graph) Record {
	rec := CampgroundRecord{Base: newBase(item, b.slugElement)}

	if name, ok := textValue(item, "name"); ok {
		rec.Name = name
	}
	rec.Phone, _ = textValue(item, "phone")
	rec.Email, _ = textValue(item, "email")
	rec.GooglePlaceID, _ = textValue(item, "google_place_id")
	rec.Latitude = numberValue(item, "latitude")
	rec.Longitude = numberValue(item, "longitude")
	rec.Amenities = termCodenames(item, "amenities")
	rec.WaysToStay = termCodenames(item, "ways_to_stay")

	if terms := termCodenames(item, "region"); len(terms) > 0 {
		rec.Region = terms[0]
	}

	rec.Address, _ = textValue(item, "address")
	if parts, ok := ParseAddress(rec.Address); ok {
		rec.City = parts.City
		rec.State = parts.State
		rec.Zip = parts.Zip
	}

	if markup, ok := textValue(item, "description"); ok {
		rec.Description = StripHTML(markup)
	}
	return rec
}

// GenericBuilder wraps the aggregator's flattened block for every
// content type without a structured mapping.
type GenericBuilder struct {
	slugElement string
	aggregator  *Aggregator
}

func (b *GenericBuilder) Build(item content.Item, graph content.Graph) Record {
	rec := GenericRecord{Base: newBase(item, b.slugElement)}
	rec.Content = []ContentBlock{b.aggregator.Flatten(item, graph)}
	return rec
}

func textValue(item content.Item, codename string) (string, bool) {
	el, ok := item.Elements.Get(codename)
	if !ok {
		return "", false
	}
	return el.StringValue()
}

func numberValue(item content.Item, codename string) *float64 {
	el, ok := item.Elements.Get(codename)
	if !ok {
		return nil
	}
	n, ok := el.NumberValue()
	if !ok {
		return nil
	}
	return &n
}

func termCodenames(item content.Item, codename string) []string {
	el, ok := item.Elements.Get(codename)
	if !ok {
		return nil
	}
	terms := el.TaxonomyTerms()
	if len(terms) == 0 {
		return nil
	}
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		out = append(out, t.Codename)
	}
	return out
}
