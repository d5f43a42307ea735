// Package normalize post-processes fetched article pages before text
// extraction.
package normalize

import "github.com/PuerkitoBio/goquery"

// Images promotes lazily-loaded image references so the rendering
// pipeline sees a real src. When both attributes are present,
// data-enlarge wins: it references the full-resolution asset, while
// data-src carries the lazy-load placeholder's target. Pure and
// idempotent; the document is mutated in place and returned.
func Images(doc *goquery.Document) *goquery.Document {
	for _, attr := range []string{"data-src", "data-enlarge"} {
		doc.Find("img[" + attr + "]").Each(func(_ int, img *goquery.Selection) {
			if v, ok := img.Attr(attr); ok && v != "" {
				img.SetAttr("src", v)
			}
		})
	}
	return doc
}
