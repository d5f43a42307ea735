package discovery

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/printfeed/printfeed/edition"
)

const (
	whatsNewsMarker     = "what's news"
	articleLinkSelector = "a[href*='/articles/']"
)

// ErrNoWhatsNews means the frontpage carries no digest heading.
var ErrNoWhatsNews = errors.New("what's news heading not found")

// WhatsNews extracts the frontpage digest: it locates the heading
// whose text matches the digest marker case-insensitively, then turns
// every list item under the heading's parent that carries an article
// link into one article. The full item text serves as description,
// since the digest has no separate summaries.
func WhatsNews(doc *goquery.Document, baseURL string) ([]edition.Article, error) {
	var heading *goquery.Selection
	doc.Find("h1, h2, h3, h4").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(cleanText(h.Text())), whatsNewsMarker) {
			heading = h
			return false
		}
		return true
	})
	if heading == nil {
		return nil, ErrNoWhatsNews
	}

	var articles []edition.Article
	heading.Parent().Find("li").Each(func(_ int, item *goquery.Selection) {
		link := item.Find(articleLinkSelector).First()
		if link.Length() == 0 {
			return
		}
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}

		text := cleanText(item.Text())
		title := cleanText(link.Text())
		if title == "" {
			title = text
		}
		if title == "" {
			return
		}

		articles = append(articles, edition.Article{
			Title:       title,
			URL:         AbsolutizeURL(baseURL, href),
			Description: text,
		})
	})

	return articles, nil
}
