// Package edition defines the data model for one fetched print
// edition: ordered section feeds of articles plus cover and date
// metadata consumed by the rendering host.
package edition

// Article is a single discovered article. Identity is the URL; the
// host suppresses duplicate URLs across sections.
type Article struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Date        string `json:"date,omitempty"`
}

// Feed pairs a section title with its articles in discovery order.
type Feed struct {
	Title    string    `json:"title"`
	Articles []Article `json:"articles"`
}

// Limits caps output for fast iteration. Zero means unlimited.
type Limits struct {
	MaxSections           int
	MaxArticlesPerSection int
}

// Result is the full output of one recipe run, in landing-page
// discovery order.
type Result struct {
	Feeds    []Feed `json:"feeds"`
	CoverURL string `json:"cover_url,omitempty"`
	TimeFmt  string `json:"time_fmt"`
}

// ArticleCount returns the total number of articles across all feeds.
func (r *Result) ArticleCount() int {
	n := 0
	for _, f := range r.Feeds {
		n += len(f.Articles)
	}
	return n
}
