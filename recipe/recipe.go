// Package recipe orchestrates one run: bootstrap the session,
// discover the edition's section feeds, and look up the cover image.
package recipe

import (
	"log"
	"os"

	"github.com/printfeed/printfeed/cover"
	"github.com/printfeed/printfeed/discovery"
	"github.com/printfeed/printfeed/edition"
	"github.com/printfeed/printfeed/session"
)

// Config is the immutable configuration for one run.
type Config struct {
	Endpoints session.Endpoints

	// Auth is nil for anonymous access or session.Credentials for a
	// subscriber login.
	Auth session.Auth

	Limits edition.Limits
	Policy discovery.Policy

	// CoverIndexURL is the front-pages index; empty skips the cover
	// lookup entirely.
	CoverIndexURL string

	Logger *log.Logger
}

// DefaultConfig targets the production site with no limits.
func DefaultConfig() Config {
	return Config{
		Endpoints:     session.DefaultEndpoints(),
		Policy:        discovery.DefaultPolicy(),
		CoverIndexURL: cover.DefaultIndexURL,
	}
}

// Run executes the recipe. Only session bootstrap failures (transport
// on the landing page, rejected credentials) are fatal; per-section
// and cover failures degrade to omission plus a log line.
func (cfg Config) Run() (*edition.Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	sess, err := session.New(cfg.Endpoints, cfg.Auth)
	if err != nil {
		return nil, err
	}
	if err := sess.Bootstrap(); err != nil {
		return nil, err
	}

	disc := discovery.New(sess)
	disc.Policy = cfg.Policy
	disc.Limits = cfg.Limits
	disc.Logger = logger

	feeds, timeFmt, err := disc.Edition()
	if err != nil {
		return nil, err
	}

	result := &edition.Result{
		Feeds:   feeds,
		TimeFmt: timeFmt,
	}

	if cfg.CoverIndexURL != "" {
		coverURL, err := cover.Find(sess, cfg.CoverIndexURL, logger)
		if err != nil {
			logger.Printf("cover lookup failed: %v", err)
		} else {
			result.CoverURL = coverURL
		}
	}

	return result, nil
}
