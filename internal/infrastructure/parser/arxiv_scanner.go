package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"PreprintScanner/internal/domain"
	"PreprintScanner/internal/ports"
	"PreprintScanner/internal/scanner"
)

const (
	// DefaultOrigin is prefixed to relative PDF links.
	DefaultOrigin    = "https://arxiv.org"
	defaultUserAgent = "PreprintScanner/1.0"
)

// ArxivScanner fetches an arXiv listing page and splits it into entries.
type ArxivScanner struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

var _ scanner.Scanner = (*ArxivScanner)(nil)

// NewArxivScanner wires an HTTP client; a nil client gets a 20s timeout.
func NewArxivScanner(client *http.Client, logger *slog.Logger) *ArxivScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &ArxivScanner{client: client, userAgent: defaultUserAgent, logger: logger}
}

// WithUserAgent overrides the User-Agent header sent with listing requests.
func (a *ArxivScanner) WithUserAgent(ua string) *ArxivScanner {
	if ua != "" {
		a.userAgent = ua
	}
	return a
}

// Name identifies the strategy inside the registry.
func (a *ArxivScanner) Name() string {
	return "arxiv"
}

// Scan downloads req.URL and returns one lazily extracted entry per <dd>.
func (a *ArxivScanner) Scan(ctx context.Context, req scanner.Request) ([]ports.ListingEntry, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("listing url is empty")
	}

	doc, err := a.fetchDocument(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	origin := req.Origin
	if origin == "" {
		origin = DefaultOrigin
	}

	entries := splitEntries(doc, origin)
	if a.logger != nil {
		a.logger.Debug("listing fetched", "url", req.URL, "entries", len(entries))
	}
	return entries, nil
}

func (a *ArxivScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func splitEntries(doc *goquery.Document, origin string) []ports.ListingEntry {
	var entries []ports.ListingEntry
	doc.Find("dd").Each(func(_ int, dd *goquery.Selection) {
		entries = append(entries, &listingEntry{
			dt:     dd.PrevFiltered("dt"),
			dd:     dd,
			origin: origin,
		})
	})
	return entries
}

// listingEntry defers extraction until the pipeline actually evaluates it.
type listingEntry struct {
	dt, dd *goquery.Selection
	origin string
}

func (e *listingEntry) Extract() (domain.ArticleRecord, error) {
	return ExtractRecord(e.dt, e.dd, e.origin)
}

// ExtractRecord builds a record from a <dd> entry and its preceding <dt>
// title fragment. The popularity field is left for the scorer.
func ExtractRecord(dt, dd *goquery.Selection, origin string) (domain.ArticleRecord, error) {
	if dt == nil || dt.Length() == 0 {
		return domain.ArticleRecord{}, &domain.ExtractionError{Element: "title fragment"}
	}

	externalID, ok := dt.Find(`a[title="Abstract"]`).First().Attr("id")
	externalID = strings.TrimSpace(externalID)
	if !ok || externalID == "" {
		return domain.ArticleRecord{}, &domain.ExtractionError{Element: "abstract link identifier"}
	}

	href, ok := dt.Find(`a[title="Download PDF"]`).First().Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return domain.ArticleRecord{}, &domain.ExtractionError{Element: "pdf link"}
	}

	title, ok := blockText(dd, ".list-title", "Title:")
	if !ok || title == "" {
		return domain.ArticleRecord{}, &domain.ExtractionError{Element: "title block"}
	}
	authors, ok := blockText(dd, ".list-authors", "Authors:")
	if !ok || authors == "" {
		return domain.ArticleRecord{}, &domain.ExtractionError{Element: "authors block"}
	}
	subjects, ok := blockText(dd, ".list-subjects", "Subjects:")
	if !ok || subjects == "" {
		return domain.ArticleRecord{}, &domain.ExtractionError{Element: "subjects block"}
	}
	comments, _ := blockText(dd, ".list-comments", "Comments:")

	return domain.ArticleRecord{
		ExternalID:    externalID,
		Title:         title,
		Authors:       authors,
		Subjects:      subjects,
		Comments:      comments,
		PDFLink:       absoluteLink(origin, href),
		HasJournalRef: dd.Find(".list-journal-ref").Length() > 0,
	}, nil
}

// blockText returns the visible text of the first element matching selector,
// with whitespace collapsed and the leading label removed. ok is false when
// the element is absent.
func blockText(dd *goquery.Selection, selector, label string) (string, bool) {
	block := dd.Find(selector).First()
	if block.Length() == 0 {
		return "", false
	}
	text := strings.Join(strings.Fields(block.Text()), " ")
	text = strings.TrimPrefix(text, label)
	return strings.TrimSpace(text), true
}

func absoluteLink(origin, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimSuffix(origin, "/") + href
}
