// Package cover locates the edition's cover image on an external
// front-pages index.
package cover

import (
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/printfeed/printfeed/discovery"
)

// DefaultIndexURL is the front-pages index carrying the paper's
// current cover scan.
const DefaultIndexURL = "https://www.frontpages.com/the-wall-street-journal/"

// coverSuffix identifies the full-resolution cover scan among the
// index thumbnails.
const coverSuffix = "750.jpg"

// Fetcher fetches and parses a page. *session.Session implements it.
type Fetcher interface {
	FetchDocument(pageURL string) (*goquery.Document, error)
}

// Find fetches the index page and returns the first qualifying cover
// image URL. A missing cover is not an error: the empty string is
// returned and the miss is logged. A nil logger falls back to stderr.
func Find(f Fetcher, indexURL string, logger *log.Logger) (string, error) {
	doc, err := f.FetchDocument(indexURL)
	if err != nil {
		return "", err
	}
	coverURL := FromIndex(doc, indexURL)
	if coverURL == "" {
		if logger == nil {
			logger = log.New(os.Stderr, "", log.LstdFlags)
		}
		logger.Printf("cover image unavailable on %s", indexURL)
	}
	return coverURL, nil
}

// FromIndex scans the index document's images in document order and
// returns the absolutized URL of the first whose path ends in the
// cover suffix, or the empty string.
func FromIndex(doc *goquery.Document, baseURL string) string {
	coverURL := ""
	doc.Find("img[src]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			return true
		}
		u, err := url.Parse(src)
		if err != nil || !strings.HasSuffix(u.Path, coverSuffix) {
			return true
		}
		coverURL = discovery.AbsolutizeURL(baseURL, src)
		return false
	})
	return coverURL
}
