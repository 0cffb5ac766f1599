package record

import (
	"strings"

	"github.com/camphaven/searchsync/internal/content"
	"github.com/camphaven/searchsync/pkg/stringsutil"
)

// Aggregator flattens an item and its slugless linked items into one
// ContentBlock, depth-first. Linked items that carry a slug are indexed
// on their own, so only their ids are recorded, under Parents.
type Aggregator struct {
	slugElement string
}

func NewAggregator(slugElement string) *Aggregator {
	return &Aggregator{slugElement: slugElement}
}

// Flatten walks item's element list in document order, concatenating
// every string-valued element (rich text is stripped to plain text
// first) and recursing into slugless linked items. Each (id, language)
// pair contributes its text at most once, whatever shape the link
// graph takes, so cycles and diamonds terminate with no duplication.
func (a *Aggregator) Flatten(item content.Item, graph content.Graph) ContentBlock {
	visited := map[content.Key]struct{}{item.Key(): {}}
	block, _ := a.flatten(item, graph, visited)
	return block
}

// flatten receives the visited set from its caller and returns the
// grown set alongside the block, so sibling branches observe each
// other's visits and a diamond never inlines the shared node twice.
func (a *Aggregator) flatten(
	item content.Item,
	graph content.Graph,
	visited map[content.Key]struct{},
) (ContentBlock, map[content.Key]struct{}) {
	var texts []string
	parents := []string{}
	parentSeen := make(map[string]struct{})

	addParent := func(id string) {
		if _, dup := parentSeen[id]; dup {
			return
		}
		parentSeen[id] = struct{}{}
		parents = append(parents, id)
	}

	for _, entry := range item.Elements.Entries() {
		el := entry.Element

		if text, ok := el.StringValue(); ok {
			if el.Kind == content.KindRichText {
				text = StripHTML(text)
			}
			texts = append(texts, text)
			continue
		}

		if el.Kind != content.KindLinkedItems {
			continue
		}
		for _, codename := range el.LinkedItemCodenames() {
			linked, ok := graph.Item(codename)
			if !ok {
				// Link target beyond the resolved depth or not
				// published in this language.
				continue
			}
			if _, slugged := linked.SlugValue(a.slugElement); slugged {
				addParent(linked.ID)
				continue
			}
			key := linked.Key()
			if _, seen := visited[key]; seen {
				continue
			}
			visited[key] = struct{}{}

			var child ContentBlock
			child, visited = a.flatten(linked, graph, visited)
			if child.Contents != "" {
				texts = append(texts, child.Contents)
			}
			for _, id := range child.Parents {
				addParent(id)
			}
		}
	}

	block := ContentBlock{
		ID:         item.ID,
		Codename:   item.Codename,
		Type:       item.Type,
		Language:   item.Language,
		Collection: item.Collection,
		Parents:    parents,
		Contents:   strings.Join(stringsutil.RemoveEmptyStrings(texts), " "),
	}
	return block, visited
}
