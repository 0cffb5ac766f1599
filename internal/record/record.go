// Package record builds the indexable search records for published
// content items: a structured shape for campgrounds and a generic
// flattened-text shape for everything else.
package record

// Record is one unit written to the search index. Key returns the
// objectID, the index primary key used for dedup and delete targeting.
type Record interface {
	Key() string
}

// ObjectID derives the index key for one language variant of an item.
// It is recomputed on every run and never stored by this service.
func ObjectID(itemID, language string) string {
	return itemID + "_" + language
}

// ContentBlock is the flattened text of one item in a generic record.
// Parents holds the ids of linked items that carry their own slug and
// are therefore indexed on their own instead of being inlined here.
type ContentBlock struct {
	ID         string   `json:"id"`
	Codename   string   `json:"codename"`
	Type       string   `json:"type"`
	Language   string   `json:"language"`
	Collection string   `json:"collection"`
	Parents    []string `json:"parents"`
	Contents   string   `json:"contents"`
}

// Base carries the fields every record shape shares.
type Base struct {
	ObjectID   string         `json:"objectID"`
	ID         string         `json:"id"`
	Codename   string         `json:"codename"`
	Name       string         `json:"name"`
	Language   string         `json:"language"`
	Type       string         `json:"type"`
	Collection string         `json:"collection"`
	Slug       string         `json:"slug,omitempty"`
	Content    []ContentBlock `json:"content"`
}

func (b Base) Key() string {
	return b.ObjectID
}

// CampgroundRecord is the structured shape. Content stays empty; search
// relevance comes from the typed fields. Absent elements stay absent in
// the index rather than defaulting to zero values, with Address the one
// exception: it indexes as an empty string when unset.
type CampgroundRecord struct {
	Base

	Phone         string   `json:"phone,omitempty"`
	Email         string   `json:"email,omitempty"`
	GooglePlaceID string   `json:"google_place_id,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Amenities     []string `json:"amenities,omitempty"`
	WaysToStay    []string `json:"ways_to_stay,omitempty"`
	Region        string   `json:"region,omitempty"`
	Address       string   `json:"address"`
	City          string   `json:"city,omitempty"`
	State         string   `json:"state,omitempty"`
	Zip           string   `json:"zip,omitempty"`
	Description   string   `json:"description,omitempty"`
}

// GenericRecord is the fallback shape: the item's own text plus every
// slugless linked item, flattened into Content blocks.
type GenericRecord struct {
	Base
}
