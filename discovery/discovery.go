// Package discovery enumerates the print edition: it reads section
// links off the landing page, scrapes each section's listing page
// into articles, and synthesizes the "What's News" digest feed.
package discovery

import (
	"log"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/printfeed/printfeed/edition"
)

// Landing page and listing selectors.
const (
	dateHintSelector     = "input[class*='DatePicker'][placeholder]"
	navContainerSelector = "[class*='WSJTheme--nav-container']"
	sectionLinkSelector  = "a[class*='WSJTheme--section-link']"
	listItemSelector     = "[class*='WSJTheme--list-item']"
	headlineLinkSelector = "h1 a, h2 a, h3 a"

	frontpageSuffix = "frontpage"
	paywallMarker   = "subscriber content"
)

// DefaultTimeFmt is the edition date layout used when the landing
// page carries no date-picker hint.
const DefaultTimeFmt = "Monday, January 2, 2006"

// Fetcher is the session surface discovery needs. *session.Session
// implements it.
type Fetcher interface {
	FetchDocument(pageURL string) (*goquery.Document, error)
	LandingDocument() (*goquery.Document, error)
	LandingURL() string
}

// Discoverer walks the landing page and section listings.
type Discoverer struct {
	Fetcher Fetcher
	Policy  Policy
	Limits  edition.Limits
	Logger  *log.Logger

	// Sources feeds the RSS fallback when the landing page yields no
	// sections.
	Sources []FeedSource

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// New creates a Discoverer with the default retry policy, the public
// RSS fallback sources, and no output limits.
func New(f Fetcher) *Discoverer {
	return &Discoverer{
		Fetcher: f,
		Policy:  DefaultPolicy(),
		Logger:  log.New(os.Stderr, "", log.LstdFlags),
		Sources: DefaultFeedSources,
		sleep:   time.Sleep,
	}
}

// section is one landing-page section link after title cleanup.
type section struct {
	title string
	url   string
}

// Edition discovers all section feeds in landing-page order and
// returns them with the edition date layout. Per-section failures
// degrade to omission; only a missing landing page is fatal.
func (d *Discoverer) Edition() ([]edition.Feed, string, error) {
	doc, err := d.Fetcher.LandingDocument()
	if err != nil {
		return nil, "", err
	}

	timeFmt := DefaultTimeFmt
	if ph, ok := doc.Find(dateHintSelector).First().Attr("placeholder"); ok && ph != "" {
		timeFmt = ph
	}

	sections := d.sections(doc)

	var feeds []edition.Feed
	for _, sec := range sections {
		if d.Limits.MaxSections > 0 && len(feeds) >= d.Limits.MaxSections {
			break
		}

		articles, secDoc := d.sectionArticles(sec)
		if len(articles) == 0 {
			d.logf("section %q yielded no articles after %d attempts, omitting", sec.title, d.Policy.attempts())
			continue
		}
		feeds = append(feeds, edition.Feed{Title: sec.title, Articles: articles})

		if isFrontpage(sec.url) && secDoc != nil {
			d.appendWhatsNews(&feeds, secDoc, sec.url)
		}
	}

	if len(feeds) == 0 {
		d.logf("no sections discovered from landing page, falling back to RSS feeds")
		feeds = d.rssFeeds()
	}

	return feeds, timeFmt, nil
}

// sections enumerates the top-level nav containers for section links.
func (d *Discoverer) sections(doc *goquery.Document) []section {
	var sections []section
	doc.Find(navContainerSelector).Each(func(_ int, nav *goquery.Selection) {
		nav.Find(sectionLinkSelector).Each(func(_ int, link *goquery.Selection) {
			title := SectionTitle(link.Text())
			if title == "" {
				return
			}
			href, ok := link.Attr("href")
			if !ok || href == "" {
				return
			}
			sections = append(sections, section{
				title: title,
				url:   AbsolutizeURL(d.Fetcher.LandingURL(), href),
			})
		})
	})
	return sections
}

// sectionArticles fetches one section's listing page under the retry
// policy. Fetch and parse errors count as zero-article attempts; the
// last successfully parsed document is returned for the frontpage
// digest pass.
func (d *Discoverer) sectionArticles(sec section) ([]edition.Article, *goquery.Document) {
	var lastDoc *goquery.Document
	for attempt := 1; attempt <= d.Policy.attempts(); attempt++ {
		if attempt > 1 {
			d.pause(d.Policy.pause())
		}

		doc, err := d.Fetcher.FetchDocument(sec.url)
		if err != nil {
			d.logf("section %q attempt %d: %v", sec.title, attempt, err)
			continue
		}
		lastDoc = doc

		articles := ExtractListing(doc, sec.url, d.Limits.MaxArticlesPerSection)
		if len(articles) > 0 {
			return articles, doc
		}
	}
	return nil, lastDoc
}

// appendWhatsNews inserts the synthesized digest feed immediately
// after the frontpage feed. A missing digest heading is logged and
// skipped.
func (d *Discoverer) appendWhatsNews(feeds *[]edition.Feed, doc *goquery.Document, baseURL string) {
	if d.Limits.MaxSections > 0 && len(*feeds) >= d.Limits.MaxSections {
		return
	}
	articles, err := WhatsNews(doc, baseURL)
	if err != nil {
		d.logf("frontpage digest: %v", err)
		return
	}
	if max := d.Limits.MaxArticlesPerSection; max > 0 && len(articles) > max {
		articles = articles[:max]
	}
	if len(articles) > 0 {
		*feeds = append(*feeds, edition.Feed{Title: "What's News", Articles: articles})
	}
}

// ExtractListing pulls articles out of a section listing page: per
// list-item container, the first heading link supplies title and URL
// and the first non-paywall paragraph supplies the description.
// max > 0 caps the number of articles.
func ExtractListing(doc *goquery.Document, baseURL string, max int) []edition.Article {
	var articles []edition.Article
	doc.Find(listItemSelector).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if max > 0 && len(articles) >= max {
			return false
		}

		link := item.Find(headlineLinkSelector).First()
		title := cleanText(link.Text())
		href, ok := link.Attr("href")
		if title == "" || !ok || href == "" {
			return true
		}

		description := ""
		item.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
			text := cleanText(p.Text())
			if text == "" || IsPaywallMarker(text) {
				return true
			}
			description = text
			return false
		})

		articles = append(articles, edition.Article{
			Title:       title,
			URL:         AbsolutizeURL(baseURL, href),
			Description: description,
		})
		return true
	})
	return articles
}

// IsPaywallMarker reports whether text is the subscriber-only
// placeholder rather than a real description.
func IsPaywallMarker(text string) bool {
	return strings.Contains(strings.ToLower(text), paywallMarker)
}

// SectionTitle derives a feed title from raw link text: trim,
// capitalize (first rune upper, rest lower), then repair the "U.s."
// the lowering pass produces.
func SectionTitle(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return strings.Replace(string(runes), "U.s.", "U.S.", 1)
}

// AbsolutizeURL resolves href against base. Already-absolute hrefs
// pass through unchanged, so the function is idempotent.
func AbsolutizeURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}

// isFrontpage reports whether a section URL is the distinguished
// frontpage section.
func isFrontpage(sectionURL string) bool {
	u, err := url.Parse(sectionURL)
	if err != nil {
		return strings.HasSuffix(strings.TrimRight(sectionURL, "/"), frontpageSuffix)
	}
	return strings.HasSuffix(strings.TrimRight(u.Path, "/"), frontpageSuffix)
}

// cleanText collapses runs of whitespace to single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (d *Discoverer) pause(dur time.Duration) {
	if d.sleep != nil {
		d.sleep(dur)
		return
	}
	time.Sleep(dur)
}

func (d *Discoverer) logf(format string, args ...any) {
	if d.Logger != nil {
		d.Logger.Printf(format, args...)
	}
}
