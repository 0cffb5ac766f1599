// Package content models published items of the headless content store
// and the link graph between them, as served by the delivery API.
package content

import "encoding/json"

type Item struct {
	ID         string
	Name       string
	Codename   string
	Language   string
	Type       string
	Collection string
	Elements   Elements
}

// Key identifies one language variant of one item. Traversals are
// deduplicated on this key, never on codename alone.
type Key struct {
	ID       string
	Language string
}

func (it Item) Key() Key {
	return Key{ID: it.ID, Language: it.Language}
}

// SlugValue returns the value of the named element when it holds a
// non-empty string. Items with a slug are independently addressable and
// therefore indexed on their own.
func (it Item) SlugValue(slugElement string) (string, bool) {
	el, ok := it.Elements.Get(slugElement)
	if !ok {
		return "", false
	}
	s, ok := el.StringValue()
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func (it *Item) UnmarshalJSON(data []byte) error {
	var wire struct {
		System struct {
			ID         string `json:"id"`
			Name       string `json:"name"`
			Codename   string `json:"codename"`
			Language   string `json:"language"`
			Type       string `json:"type"`
			Collection string `json:"collection"`
		} `json:"system"`
		Elements Elements `json:"elements"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	it.ID = wire.System.ID
	it.Name = wire.System.Name
	it.Codename = wire.System.Codename
	it.Language = wire.System.Language
	it.Type = wire.System.Type
	it.Collection = wire.System.Collection
	it.Elements = wire.Elements
	return nil
}
