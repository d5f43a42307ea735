package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/printfeed/printfeed/normalize"
	"github.com/printfeed/printfeed/rules"
	"github.com/printfeed/printfeed/session"
)

// handleArticle fetches one article page and prints its readable
// body: lazy images are promoted, then the selector rules strip
// everything but the content regions.
func handleArticle(args []string) {
	fs := flag.NewFlagSet("article", flag.ExitOnError)
	asHTML := fs.Bool("html", false, "emit pruned HTML instead of text")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: article requires a URL argument")
		os.Exit(1)
	}
	articleURL := fs.Arg(0)

	sess, err := session.New(session.DefaultEndpoints(), session.Anonymous{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	doc, err := sess.FetchDocument(articleURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to fetch article: %v\n", err)
		os.Exit(1)
	}

	rules.Prune(normalize.Images(doc))

	if *asHTML {
		html, err := doc.Find("body").Html()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(html)
		return
	}

	body := doc.Find("body")
	blocks := body.Find("h1, h2, h3, p")
	if blocks.Length() == 0 {
		fmt.Println(strings.Join(strings.Fields(body.Text()), " "))
		return
	}
	blocks.Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text != "" {
			fmt.Println(text)
			fmt.Println()
		}
	})
}
