package models

import "strings"

// SearchKind selects which product attribute a search matches against
type SearchKind string

const (
	KindTitle SearchKind = "title"
	KindISBN  SearchKind = "isbn"
	KindDate  SearchKind = "date"
)

// SearchRequest is a single lookup issued against a provider
type SearchRequest struct {
	Kind SearchKind `json:"kind"`
	Text string     `json:"text"`
}

// ProductRecord is one product edition as returned by a provider
type ProductRecord struct {
	WorkID              string   `json:"work_id"`
	FullTitle           string   `json:"full_title"`
	Author              string   `json:"author"`
	ISBN                string   `json:"isbn"`
	PubDate             string   `json:"pub_date"`
	TerritoriesExcluded []string `json:"territories_excluded"`
	CoverURL            string   `json:"cover_url,omitempty"`   // empty when no 50px jpg exists
	PriceGBP            string   `json:"price_gbp,omitempty"`   // empty when no GBP/05 price exists
	Description         string   `json:"description,omitempty"` // main (code 01) marketing text
	HasMarketingTexts   bool     `json:"has_marketing_texts"`
}

// SearchResult holds the products matching a request, in provider order
type SearchResult struct {
	Request  SearchRequest   `json:"request"`
	Products []ProductRecord `json:"products"`
}

// Field is one entry of an attachment's fields table
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Attachment is the chat platform's rich card
type Attachment struct {
	Pretext    string   `json:"pretext,omitempty"`
	Title      string   `json:"title"`
	TitleLink  string   `json:"title_link,omitempty"`
	AuthorName string   `json:"author_name,omitempty"`
	ThumbURL   string   `json:"thumb_url,omitempty"`
	Fields     []Field  `json:"fields"`
	Footer     string   `json:"footer,omitempty"`
	FooterIcon string   `json:"footer_icon,omitempty"`
	MrkdwnIn   []string `json:"mrkdwn_in,omitempty"`
}

// Reply is the JSON envelope sent back for a slash command. A reply either
// carries plain text or a single attachment, never both.
type Reply struct {
	ResponseType string       `json:"response_type"`
	Text         string       `json:"text"`
	Attachments  []Attachment `json:"attachments,omitempty"`
}

const ResponseEphemeral = "ephemeral"

// TextReply builds a plain text reply
func TextReply(text string) Reply {
	return Reply{ResponseType: ResponseEphemeral, Text: text}
}

// AttachmentReply builds a reply carrying one attachment
func AttachmentReply(a Attachment) Reply {
	return Reply{ResponseType: ResponseEphemeral, Attachments: []Attachment{a}}
}

// IsAttachment reports whether the reply is a rich card
func (r Reply) IsAttachment() bool {
	return len(r.Attachments) > 0
}

// NormalizeISBN removes hyphens from an ISBN
func NormalizeISBN(isbn string) string {
	return strings.ReplaceAll(isbn, "-", "")
}
