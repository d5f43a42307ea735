package cover

import (
	"fmt"
	"log"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// stubFetcher serves one canned document.
type stubFetcher struct {
	html string
	err  error
}

func (f *stubFetcher) FetchDocument(string) (*goquery.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(f.html))
}

// TestFromIndex_FindsQualifyingImage verifies the first image whose
// path ends with the cover suffix wins
func TestFromIndex_FindsQualifyingImage(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<img src="/thumbs/banner.png">
		<img src="/scans/wsj-2026-08-29-750.jpg">
		<img src="/scans/other-750.jpg">
	</body></html>`)

	url := FromIndex(doc, "https://frontpages.example.com/the-paper/")

	assert.Equal(t, "https://frontpages.example.com/scans/wsj-2026-08-29-750.jpg", url)
}

// TestFromIndex_SuffixMatchesPathNotQuery verifies the suffix check
// applies to the URL path
func TestFromIndex_SuffixMatchesPathNotQuery(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<img src="/scans/cover.png?name=750.jpg">
		<img src="/scans/cover-750.jpg?width=200">
	</body></html>`)

	url := FromIndex(doc, "https://frontpages.example.com/")

	assert.Equal(t, "https://frontpages.example.com/scans/cover-750.jpg?width=200", url)
}

// TestFromIndex_NoMatch verifies absence yields an empty string
func TestFromIndex_NoMatch(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<img src="/thumbs/one.png">
		<img src="/thumbs/two.gif">
	</body></html>`)

	assert.Empty(t, FromIndex(doc, "https://frontpages.example.com/"))
}

// TestFind_MissingCoverNotAnError verifies Find returns empty with a
// nil error when the index has no qualifying image, and logs the miss
func TestFind_MissingCoverNotAnError(t *testing.T) {
	f := &stubFetcher{html: `<html><body><img src="/x.png"></body></html>`}
	var buf strings.Builder
	logger := log.New(&buf, "", 0)

	url, err := Find(f, "https://frontpages.example.com/", logger)

	require.NoError(t, err)
	assert.Empty(t, url)
	assert.Contains(t, buf.String(), "cover image unavailable")
}

// TestFind_HitDoesNotLog verifies a resolved cover produces no miss
// line
func TestFind_HitDoesNotLog(t *testing.T) {
	f := &stubFetcher{html: `<html><body><img src="/scans/cover-750.jpg"></body></html>`}
	var buf strings.Builder
	logger := log.New(&buf, "", 0)

	url, err := Find(f, "https://frontpages.example.com/", logger)

	require.NoError(t, err)
	assert.Equal(t, "https://frontpages.example.com/scans/cover-750.jpg", url)
	assert.Empty(t, buf.String())
}

// TestFind_FetchErrorPropagates verifies transport failures surface
// to the caller, which treats the cover as optional
func TestFind_FetchErrorPropagates(t *testing.T) {
	f := &stubFetcher{err: fmt.Errorf("connection refused")}

	_, err := Find(f, "https://frontpages.example.com/", nil)

	assert.Error(t, err)
}
