package discovery

import (
	"github.com/mmcdole/gofeed"
	"github.com/printfeed/printfeed/edition"
)

// FeedSource names one public RSS feed used when landing-page
// discovery comes up empty.
type FeedSource struct {
	Title string
	URL   string
}

// DefaultFeedSources lists the paper's public feeds in the order the
// fallback edition should present them.
var DefaultFeedSources = []FeedSource{
	{"World News", "https://feeds.content.dowjones.io/public/rss/RSSWorldNews"},
	{"U.S. Business", "https://feeds.content.dowjones.io/public/rss/WSJcomUSBusiness"},
	{"Markets", "https://feeds.content.dowjones.io/public/rss/RSSMarketsMain"},
	{"Technology", "https://feeds.content.dowjones.io/public/rss/RSSWSJD"},
	{"Opinion", "https://feeds.content.dowjones.io/public/rss/RSSOpinion"},
	{"Lifestyle", "https://feeds.content.dowjones.io/public/rss/RSSLifestyle"},
}

// rssFeeds builds fallback section feeds from the configured RSS
// sources. Individual feed failures are logged and skipped.
func (d *Discoverer) rssFeeds() []edition.Feed {
	parser := gofeed.NewParser()

	var feeds []edition.Feed
	for _, src := range d.Sources {
		if d.Limits.MaxSections > 0 && len(feeds) >= d.Limits.MaxSections {
			break
		}

		parsed, err := parser.ParseURL(src.URL)
		if err != nil {
			d.logf("rss fallback %q: %v", src.Title, err)
			continue
		}

		articles := FeedToArticles(parsed, d.Limits.MaxArticlesPerSection)
		if len(articles) == 0 {
			continue
		}
		feeds = append(feeds, edition.Feed{Title: src.Title, Articles: articles})
	}
	return feeds
}

// FeedToArticles maps parsed RSS/Atom items onto articles. Items
// without a title or link are skipped; max > 0 caps the output.
func FeedToArticles(feed *gofeed.Feed, max int) []edition.Article {
	var articles []edition.Article
	for _, item := range feed.Items {
		if max > 0 && len(articles) >= max {
			break
		}
		title := cleanText(item.Title)
		if title == "" || item.Link == "" {
			continue
		}

		date := ""
		if item.PublishedParsed != nil {
			date = item.PublishedParsed.Format(DefaultTimeFmt)
		}

		articles = append(articles, edition.Article{
			Title:       title,
			URL:         item.Link,
			Description: cleanText(item.Description),
			Date:        date,
		})
	}
	return articles
}
