package weblink

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

// DefaultPattern captures the file name without extension (group 1) and the
// version (group 2) of a link such as "socat-1.7.4.3.tar.gz".
const DefaultPattern = `({name}-({pin}(?:\.[0-9]+)+))\.tar\.gz`

// WebLinkRepository scrapes a download page for archive links.
type WebLinkRepository struct {
	fetcher  repositories.FetchRepository
	selector string
	pattern  string
}

// NewWebLinkRepository creates the directory-listing release source.
func NewWebLinkRepository(
	fetcher repositories.FetchRepository,
	source entities.SourceConfig,
) repositories.ReleaseSourceRepository {
	selector := source.Selector
	if selector == "" {
		selector = entities.DefaultSelector
	}
	pattern := source.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &WebLinkRepository{fetcher: fetcher, selector: selector, pattern: pattern}
}

func (r *WebLinkRepository) Kind() string { return entities.SourceWebLink }

// Discover returns the highest versioned archive linked from the page.
func (r *WebLinkRepository) Discover(
	ctx context.Context,
	query entities.ReleaseQuery,
) (*entities.Release, error) {
	rgx, err := compilePattern(r.pattern, query)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(query.RootURL)
	if err != nil {
		return nil, fmt.Errorf("invalid root URL %q: %w", query.RootURL, err)
	}

	body, err := r.fetcher.Get(ctx, query.RootURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %w", entities.ErrFetchFailed, query.RootURL, err)
	}

	var latest *entities.Release
	doc.Find(r.selector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		match := rgx.FindStringSubmatch(href)
		if match == nil {
			return
		}

		v, parseErr := entities.ParseVersion(match[2])
		if parseErr != nil {
			logger.Debugf("[%s] Skipping link %q: %v", query.Name, href, parseErr)
			return
		}
		if latest != nil && !v.GreaterThan(latest.Version) {
			return
		}

		ref, refErr := url.Parse(strings.TrimSpace(href))
		if refErr != nil {
			logger.Debugf("[%s] Skipping link %q: %v", query.Name, href, refErr)
			return
		}
		latest = &entities.Release{
			Name:    match[1],
			URL:     base.ResolveReference(ref).String(),
			File:    match[0],
			Version: v,
		}
	})

	if latest == nil {
		return nil, fmt.Errorf(
			"%w: failed to get latest %s version from %s",
			entities.ErrNoQualifyingRelease, query.Name, query.RootURL,
		)
	}
	return latest, nil
}

// compilePattern substitutes the quoted name and pin into the pattern.
func compilePattern(pattern string, query entities.ReleaseQuery) (*regexp.Regexp, error) {
	expr := strings.NewReplacer(
		"{name}", regexp.QuoteMeta(query.Name),
		entities.PinPlaceholder, regexp.QuoteMeta(query.Pin),
	).Replace(pattern)

	rgx, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid link pattern %q: %w", expr, err)
	}
	if rgx.NumSubexp() < 2 {
		return nil, fmt.Errorf("link pattern %q needs a name group and a version group", expr)
	}
	return rgx, nil
}
