package content

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Entry pairs an element with its codename key.
type Entry struct {
	Codename string
	Element  Element
}

// Elements is the element map of an item, preserving the key order of
// the source document. Iterating in document order keeps aggregated
// output stable across runs, which keeps reprocessing idempotent.
type Elements struct {
	entries []Entry
	index   map[string]int
}

func (e Elements) Get(codename string) (Element, bool) {
	i, ok := e.index[codename]
	if !ok {
		return Element{}, false
	}
	return e.entries[i].Element, true
}

// Entries returns the elements in document order. Callers must not
// mutate the returned slice.
func (e Elements) Entries() []Entry {
	return e.entries
}

func (e Elements) Len() int {
	return len(e.entries)
}

func (e *Elements) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode elements: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("decode elements: expected object, got %v", tok)
	}

	e.entries = nil
	e.index = make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode elements: %w", err)
		}
		codename, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode elements: expected key, got %v", tok)
		}
		var el Element
		if err := dec.Decode(&el); err != nil {
			return fmt.Errorf("decode elements: %q: %w", codename, err)
		}
		e.index[codename] = len(e.entries)
		e.entries = append(e.entries, Entry{Codename: codename, Element: el})
	}
	return nil
}
