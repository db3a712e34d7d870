// Package formatter turns provider search results into chat replies.
package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/bibliobot/internal/models"
	"github.com/lehigh-university-libraries/bibliobot/internal/providers"
)

const (
	NotFoundText = "I didn't find anything, sorry. Could you change your search and try again?"
	noCover      = "none"
	noPrice      = "(None found)"
)

var htmlEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// Format builds the reply for a search result. Zero or several matches give a
// plain text reply; exactly one match gives an attachment.
func Format(result *models.SearchResult, p providers.Provider) (models.Reply, error) {
	switch len(result.Products) {
	case 0:
		return models.TextReply(NotFoundText), nil
	case 1:
		attachment, err := Attachment(result.Products[0], result.Request, p)
		if err != nil {
			return models.Reply{}, err
		}
		return models.AttachmentReply(attachment), nil
	default:
		return models.TextReply(Summary(result.Products, result.Request, p)), nil
	}
}

// Summary renders one line per product under a preamble describing the search
func Summary(products []models.ProductRecord, req models.SearchRequest, p providers.Provider) string {
	return preamble(req, p) + "\n" + Lines(products)
}

// Lines renders each product as "{title}, which has the ISBN {isbn}", one per
// line, in the order given.
func Lines(products []models.ProductRecord) string {
	lines := make([]string, 0, len(products))
	for _, product := range products {
		lines = append(lines, fmt.Sprintf("%s, which has the ISBN %s", product.FullTitle, models.NormalizeISBN(product.ISBN)))
	}
	return strings.Join(lines, "\n")
}

func preamble(req models.SearchRequest, p providers.Provider) string {
	switch req.Kind {
	case models.KindDate:
		return fmt.Sprintf("%s has these books publishing on %s:", p.DisplayName, req.Text)
	case models.KindISBN:
		return fmt.Sprintf("%s has these books with the ISBN %s:", p.DisplayName, req.Text)
	default:
		return fmt.Sprintf("%s has these books with '%s' in the title:", p.DisplayName, req.Text)
	}
}

// Attachment renders the detail card for a single product
func Attachment(product models.ProductRecord, req models.SearchRequest, p providers.Provider) (models.Attachment, error) {
	pubDate, err := PublicationDate(product.PubDate)
	if err != nil {
		return models.Attachment{}, fmt.Errorf("product %s: %w", product.WorkID, err)
	}

	isbn := models.NormalizeISBN(product.ISBN)
	pretext := fmt.Sprintf("This search matched _%s_ in %s.", product.FullTitle, p.DisplayName)
	if req.Kind == models.KindISBN {
		isbn = models.NormalizeISBN(req.Text)
		pretext = fmt.Sprintf("This ISBN is for _%s_ according to %s.", product.FullTitle, p.DisplayName)
	}

	thumb := product.CoverURL
	if thumb == "" {
		thumb = noCover
	}

	price := product.PriceGBP
	if price == "" {
		price = noPrice
	}

	territoryTitle, territories := Territories(product.TerritoriesExcluded, p.Territories)

	return models.Attachment{
		Pretext:    pretext,
		Title:      product.FullTitle,
		TitleLink:  p.WorkURL(product.WorkID),
		AuthorName: product.Author,
		ThumbURL:   thumb,
		Fields: []models.Field{
			{Title: "ISBN", Value: isbn, Short: true},
			{Title: "Publication Date", Value: pubDate, Short: true},
			{Title: "GBP Price", Value: "£" + price, Short: true},
			{Title: territoryTitle, Value: territories, Short: true},
			{Title: "Description", Value: Description(product, p), Short: false},
		},
		Footer:     p.DisplayName + " API",
		FooterIcon: p.FaviconURL,
		MrkdwnIn:   []string{"pretext"},
	}, nil
}

// PublicationDate renders a provider date as "02 Jan 2006"
func PublicationDate(raw string) (string, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02 Jan 2006"), nil
		}
	}
	return "", fmt.Errorf("unparseable publication date %q", raw)
}

// Territories returns the field title and value for a product's rights exclusions
func Territories(excluded []string, style providers.TerritoryStyle) (string, string) {
	list := strings.Join(excluded, ", ")
	if style == providers.TerritoriesWorld {
		if len(excluded) == 0 {
			return "Territories", "World"
		}
		return "Territories", "World excluding " + list
	}
	if len(excluded) == 0 {
		return "Territories Excluded", "None"
	}
	return "Territories Excluded", list
}

// Description returns the main marketing text, HTML-escaped for the chat
// platform, or a placeholder naming the provider.
func Description(product models.ProductRecord, p providers.Provider) string {
	if !product.HasMarketingTexts {
		return fmt.Sprintf("(There is no description in %s)", p.DisplayName)
	}
	if product.Description == "" {
		return fmt.Sprintf("(There is no main description for this title in %s)", p.DisplayName)
	}
	return htmlEscaper.Replace(product.Description)
}
