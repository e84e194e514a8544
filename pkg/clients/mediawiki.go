package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/Wikimedia-Suomi/PendingChangesBot-ng-sub000/pkg/apperrors"
)

// MediaWiki calls one wiki's action API.
type MediaWiki struct {
	httpClient *http.Client
	apiURL     string
	logger     *zap.Logger
}

// NewMediaWiki creates a client for a wiki's action API. An empty apiURL
// derives the standard endpoint from the language code and family,
// e.g. https://fi.wikipedia.org/w/api.php.
func NewMediaWiki(apiURL, code, family string, logger *zap.Logger) *MediaWiki {
	if apiURL == "" {
		apiURL = fmt.Sprintf("https://%s.%s.org/w/api.php", code, family)
	}
	return &MediaWiki{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		apiURL:     apiURL,
		logger:     logger.Named("mediawiki").With(zap.String("wiki", code)),
	}
}

func (c *MediaWiki) query(ctx context.Context, params url.Values, out any) error {
	params.Set("format", "json")
	params.Set("formatversion", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: api returned status %d", apperrors.ErrDependencyUnavailable, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// RevisionWikitext fetches the main-slot content of a revision.
func (c *MediaWiki) RevisionWikitext(ctx context.Context, revID int64) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "revisions")
	params.Set("revids", strconv.FormatInt(revID, 10))
	params.Set("rvprop", "content")
	params.Set("rvslots", "main")

	var response struct {
		Query struct {
			Pages []struct {
				Revisions []struct {
					Slots struct {
						Main struct {
							Content string `json:"content"`
						} `json:"main"`
					} `json:"slots"`
				} `json:"revisions"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := c.query(ctx, params, &response); err != nil {
		return "", err
	}

	for _, page := range response.Query.Pages {
		for _, rev := range page.Revisions {
			if rev.Slots.Main.Content != "" {
				return rev.Slots.Main.Content, nil
			}
		}
	}
	return "", fmt.Errorf("revision %d: %w", revID, apperrors.ErrNotFound)
}

// RenderedHTML fetches the parsed HTML of a revision.
func (c *MediaWiki) RenderedHTML(ctx context.Context, revID int64) (string, error) {
	if revID == 0 {
		return "", nil
	}

	params := url.Values{}
	params.Set("action", "parse")
	params.Set("oldid", strconv.FormatInt(revID, 10))
	params.Set("prop", "text")

	var response struct {
		Parse struct {
			Text string `json:"text"`
		} `json:"parse"`
	}
	if err := c.query(ctx, params, &response); err != nil {
		return "", err
	}
	return response.Parse.Text, nil
}

// RedirectAliases fetches the localized redirect magic words from
// siteinfo.
func (c *MediaWiki) RedirectAliases(ctx context.Context) ([]string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("meta", "siteinfo")
	params.Set("siprop", "magicwords")

	var response struct {
		Query struct {
			MagicWords []struct {
				Name    string   `json:"name"`
				Aliases []string `json:"aliases"`
			} `json:"magicwords"`
		} `json:"query"`
	}
	if err := c.query(ctx, params, &response); err != nil {
		return nil, err
	}

	for _, word := range response.Query.MagicWords {
		if word.Name == "redirect" {
			return word.Aliases, nil
		}
	}
	return nil, fmt.Errorf("redirect magic word: %w", apperrors.ErrNotFound)
}

// HasManualUnapproval reports whether the most recent review log action
// for the revision is an un-approval. A reviewer who has pulled an edit
// back out of the approved state must not be overridden by automation.
func (c *MediaWiki) HasManualUnapproval(ctx context.Context, pageTitle string, revID int64) (bool, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "logevents")
	params.Set("letype", "review")
	params.Set("letitle", pageTitle)
	params.Set("lelimit", "50")
	params.Set("leprop", "ids|type|details|timestamp|user")

	var response struct {
		Query struct {
			LogEvents []struct {
				Action    string         `json:"action"`
				Timestamp string         `json:"timestamp"`
				Params    map[string]any `json:"params"`
			} `json:"logevents"`
		} `json:"query"`
	}
	if err := c.query(ctx, params, &response); err != nil {
		return false, err
	}

	for _, event := range response.Query.LogEvents {
		eventRevID, ok := logEventRevID(event.Params)
		if !ok || eventRevID != revID {
			continue
		}
		switch event.Action {
		case "unapprove", "unapprove2":
			c.logger.Info("Revision was manually un-approved",
				zap.Int64("rev_id", revID),
				zap.String("action", event.Action),
				zap.String("timestamp", event.Timestamp))
			return true, nil
		default:
			return false, nil
		}
	}
	return false, nil
}

// logEventRevID extracts the revision id stored as positional parameter
// "0" in review log entries.
func logEventRevID(params map[string]any) (int64, bool) {
	raw, ok := params["0"]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return int64(v), true
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return id, true
	}
	return 0, false
}

// DomainPreviouslyUsed reports whether any article (namespace 0) already
// links to the domain.
func (c *MediaWiki) DomainPreviouslyUsed(ctx context.Context, domain string) (bool, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "exturlusage")
	params.Set("euquery", domain)
	params.Set("eunamespace", "0")
	params.Set("eulimit", "1")

	var response struct {
		Query struct {
			ExtURLUsage []struct {
				PageID int64 `json:"pageid"`
			} `json:"exturlusage"`
		} `json:"query"`
	}
	if err := c.query(ctx, params, &response); err != nil {
		return false, err
	}
	return len(response.Query.ExtURLUsage) > 0, nil
}
