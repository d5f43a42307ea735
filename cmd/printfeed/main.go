package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/printfeed/printfeed/archive"
)

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	subcommand := os.Args[1]

	switch subcommand {
	case "fetch":
		handleFetch(os.Args[2:])
	case "editions":
		handleEditions(os.Args[2:])
	case "article":
		handleArticle(os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

func handleEditions(args []string) {
	fs := flag.NewFlagSet("editions", flag.ExitOnError)
	archivePath := fs.String("archive", getEnv("PRINTFEED_ARCHIVE", "printfeed.db"), "edition archive database path")
	fs.Parse(args)

	store, err := archive.Open(*archivePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open archive: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	editions, err := store.ListEditions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list editions: %v\n", err)
		os.Exit(1)
	}

	if len(editions) == 0 {
		fmt.Println("No archived editions.")
		return
	}

	for _, e := range editions {
		fmt.Printf("%s  %s  %d articles\n",
			e.EditionID, e.FetchedAt.Format("2006-01-02 15:04"), e.ArticleCount)
	}
}

func printUsage() {
	fmt.Println("printfeed - print edition fetcher")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  printfeed <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  fetch      Fetch today's print edition")
	fmt.Println("  article    Fetch one article and print its readable body")
	fmt.Println("  editions   List archived editions")
	fmt.Println("  help       Show this help")
	fmt.Println()
	fmt.Println("Run 'printfeed <command> -h' for command flags.")
}
