package record

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/camphaven/searchsync/pkg/stringsutil"
)

// StripHTML reduces rich-text markup to plain search text: tags
// removed, entities decoded, whitespace collapsed, trimmed.
func StripHTML(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return stringsutil.CollapseWhitespace(markup)
	}
	return stringsutil.CollapseWhitespace(doc.Text())
}
