package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/bibliobot/internal/models"
	"github.com/lehigh-university-libraries/bibliobot/internal/providers"
)

var (
	// ErrUpstream is returned when the provider cannot be reached or answers with a non-2xx status
	ErrUpstream = errors.New("provider unavailable")
	// ErrMalformed is returned when the provider's response does not have the expected shape
	ErrMalformed = errors.New("malformed provider response")
)

const coverStyle = "jpg_rgb_0050w"

// query parameter names understood by the products endpoint
var queryKeys = map[models.SearchKind]string{
	models.KindTitle: "work_title_cont",
	models.KindISBN:  "isbn_eq",
	models.KindDate:  "pub_date_eq",
}

// Client queries a provider's products API
type Client struct {
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a new catalog client. Lookups that take longer than
// timeout fail with ErrUpstream.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
}

// Normalize returns the value sent to the provider for a request
func (c *Client) Normalize(req models.SearchRequest) string {
	switch req.Kind {
	case models.KindISBN:
		return models.NormalizeISBN(req.Text)
	case models.KindDate:
		if req.Text == "today" {
			return c.now().Format("2006-01-02")
		}
	}
	return req.Text
}

// QueryURL builds the products search URL for a request
func (c *Client) QueryURL(p providers.Provider, req models.SearchRequest) (string, error) {
	return queryURL(p, req.Kind, c.Normalize(req))
}

func queryURL(p providers.Provider, kind models.SearchKind, value string) (string, error) {
	key, ok := queryKeys[kind]
	if !ok {
		return "", fmt.Errorf("unsupported search kind: %s", kind)
	}
	if value == "" {
		return "", fmt.Errorf("search text is required")
	}

	return fmt.Sprintf("%s/api/products.json?q[%s]=%s",
		strings.TrimRight(p.BaseURL, "/"), key, url.QueryEscape(value)), nil
}

// Search performs one products lookup against the provider
func (c *Client) Search(ctx context.Context, p providers.Provider, req models.SearchRequest) (*models.SearchResult, error) {
	value := c.Normalize(req)
	searchURL, err := queryURL(p, req.Kind, value)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", p.DisplayName, err)
	}
	httpReq.Header.Set("Authorization", "Token token="+p.Secret)
	httpReq.Header.Set("Accept", "application/json")

	slog.DebugContext(ctx, "Querying provider", "provider", p.Name, "kind", req.Kind, "url", searchURL)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch from %s: %w", ErrUpstream, p.DisplayName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %s API returned status %d: %s", ErrUpstream, p.DisplayName, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s response: %w", ErrUpstream, p.DisplayName, err)
	}

	products, err := decodeProducts(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, p.DisplayName, err)
	}

	return &models.SearchResult{
		Request:  models.SearchRequest{Kind: req.Kind, Text: value},
		Products: products,
	}, nil
}

// scalar is an identifier or amount the API sends either as a JSON number or
// as a string. Null and any other shape decode to the empty string.
type scalar string

func (s *scalar) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	switch {
	case len(raw) > 0 && raw[0] == '"':
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return err
		}
		*s = scalar(strings.TrimSpace(str))
	case len(raw) > 0 && (raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')):
		*s = scalar(raw)
	default:
		*s = ""
	}
	return nil
}

func (s scalar) numeric() bool {
	_, err := strconv.ParseFloat(string(s), 64)
	return err == nil
}

// productsResponse is the body of /api/products.json
type productsResponse struct {
	Products *[]product `json:"products"`
}

type product struct {
	WorkID                      scalar   `json:"work_id"`
	FullTitle                   string   `json:"full_title"`
	Authorship                  string   `json:"authorship"`
	ISBN                        string   `json:"isbn"`
	PubDate                     string   `json:"pub_date"`
	RightsNotAvailableCountries []string `json:"rights_not_available_countries"`
	SupportingResources         []struct {
		StyleURLs []struct {
			Style string `json:"style"`
			URL   string `json:"url"`
		} `json:"style_urls"`
	} `json:"supportingresources"`
	Prices []struct {
		CurrencyCode   string `json:"currency_code"`
		PriceQualifier string `json:"price_qualifier"`
		PriceAmount    scalar `json:"price_amount"`
	} `json:"prices"`
	MarketingTexts []struct {
		Code         string `json:"code"`
		ExternalText string `json:"external_text"`
	} `json:"marketingtexts"`
}

func decodeProducts(body []byte) ([]models.ProductRecord, error) {
	var parsed productsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.Products == nil {
		return nil, fmt.Errorf("response has no products list")
	}

	records := make([]models.ProductRecord, 0, len(*parsed.Products))
	for _, p := range *parsed.Products {
		records = append(records, p.record())
	}
	return records, nil
}

// record flattens the nested API structures. Each optional part is resolved
// on its own so a missing one never hides the others.
func (p product) record() models.ProductRecord {
	rec := models.ProductRecord{
		WorkID:              string(p.WorkID),
		FullTitle:           p.FullTitle,
		Author:              p.Authorship,
		ISBN:                p.ISBN,
		PubDate:             p.PubDate,
		TerritoriesExcluded: p.RightsNotAvailableCountries,
		HasMarketingTexts:   len(p.MarketingTexts) > 0,
	}

cover:
	for _, res := range p.SupportingResources {
		for _, style := range res.StyleURLs {
			if style.Style == coverStyle && style.URL != "" {
				rec.CoverURL = style.URL
				break cover
			}
		}
	}

	for _, price := range p.Prices {
		if price.CurrencyCode == "GBP" && price.PriceQualifier == "05" && price.PriceAmount.numeric() {
			rec.PriceGBP = string(price.PriceAmount)
			break
		}
	}

	for _, text := range p.MarketingTexts {
		if text.Code == "01" {
			rec.Description = text.ExternalText
			break
		}
	}

	return rec
}
