// Package rules declares which regions of an article page survive
// extraction. Keep rules select the content containers; Remove rules
// strip ads, media chrome, and paywall furniture from what remains.
package rules

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Rule is a pure predicate over an HTML element. Every configured
// field must hold for the rule to match: tag name membership,
// attribute presence (with optional exact value), and non-empty
// intersection between the element's class list and Classes.
type Rule struct {
	Tags      []string
	Attr      string
	AttrValue string
	Classes   []string
}

// Matches reports whether an element with the given tag name and
// attributes satisfies the rule.
func (r Rule) Matches(tag string, attrs map[string]string) bool {
	if len(r.Tags) > 0 && !containsFold(r.Tags, tag) {
		return false
	}
	if r.Attr != "" {
		v, ok := attrs[r.Attr]
		if !ok {
			return false
		}
		if r.AttrValue != "" && v != r.AttrValue {
			return false
		}
	}
	if len(r.Classes) > 0 {
		if !intersects(strings.Fields(attrs["class"]), r.Classes) {
			return false
		}
	}
	return true
}

// MatchesSelection evaluates the rule against the first node of a
// goquery selection.
func (r Rule) MatchesSelection(sel *goquery.Selection) bool {
	node := sel.Get(0)
	if node == nil {
		return false
	}
	attrs := make(map[string]string, len(node.Attr))
	for _, a := range node.Attr {
		attrs[a.Key] = a.Val
	}
	return r.Matches(node.Data, attrs)
}

// Keep selects the article content containers on an article page.
var Keep = []Rule{
	{Classes: []string{"wsj-article-headline-wrap", "article_header"}},
	{Tags: []string{"section"}, Attr: "subscriptions-section", AttrValue: "content"},
}

// Remove strips navigation, ads, and media chrome from kept regions.
var Remove = []Rule{
	{Classes: []string{
		"wsj-ad", "newsletter-inset", "media-object-video",
		"media-object-podcast", "podcast--iframe",
		"dynamic-inset-overflow-button", "snippet-logo",
	}},
	{Attr: "role", AttrValue: "toolbar"},
	{Attr: "role", AttrValue: "complementary"},
	{Attr: "aria-label", AttrValue: "Sponsored Offers"},
	{Attr: "aria-label", AttrValue: "What to Read Next"},
	{Attr: "aria-label", AttrValue: "breadcrumbs"},
	{Attr: "aria-label", AttrValue: "Listen To Article"},
	{Tags: []string{"amp-iframe"}},
}

// MatchesAny reports whether any rule in the set matches the selection.
func MatchesAny(set []Rule, sel *goquery.Selection) bool {
	for _, r := range set {
		if r.MatchesSelection(sel) {
			return true
		}
	}
	return false
}

// Prune applies the Keep and Remove sets to an article document:
// when any Keep rule matches, the body is replaced by the matched
// regions in document order; matches of Remove rules are then
// deleted. The document is mutated in place and returned. Idempotent,
// no I/O.
func Prune(doc *goquery.Document) *goquery.Document {
	var kept []*goquery.Selection
	doc.Find("body *").Each(func(_ int, sel *goquery.Selection) {
		if !MatchesAny(Keep, sel) {
			return
		}
		// A matching ancestor already carries this element; hoisting
		// it too would flatten the kept region.
		if hasKeepAncestor(sel) {
			return
		}
		kept = append(kept, sel)
	})

	if len(kept) > 0 {
		body := doc.Find("body").First()
		for _, sel := range kept {
			sel.Remove()
		}
		body.Empty()
		for _, sel := range kept {
			body.AppendSelection(sel)
		}
	}

	var doomed []*goquery.Selection
	doc.Find("body *").Each(func(_ int, sel *goquery.Selection) {
		if MatchesAny(Remove, sel) {
			doomed = append(doomed, sel)
		}
	})
	for _, sel := range doomed {
		sel.Remove()
	}

	return doc
}

func hasKeepAncestor(sel *goquery.Selection) bool {
	nested := false
	sel.Parents().EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if MatchesAny(Keep, p) {
			nested = true
			return false
		}
		return true
	})
	return nested
}

func containsFold(set []string, s string) bool {
	for _, v := range set {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func intersects(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
