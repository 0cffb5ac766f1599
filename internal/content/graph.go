package content

// Graph is the set of items reachable from one root, keyed by codename.
// It is built once per notification from a single delivery response and
// is read-only afterwards.
type Graph map[string]Item

// Item looks up a linked item by codename. Links whose target was not
// returned by the delivery API resolve to false and are skipped.
func (g Graph) Item(codename string) (Item, bool) {
	it, ok := g[codename]
	return it, ok
}
