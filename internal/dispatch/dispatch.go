// Package dispatch routes slash command text to a provider search and
// selects the reply shape for the result.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/bibliobot/internal/formatter"
	"github.com/lehigh-university-libraries/bibliobot/internal/models"
	"github.com/lehigh-university-libraries/bibliobot/internal/providers"
)

// Searcher performs a single provider lookup
type Searcher interface {
	Search(ctx context.Context, p providers.Provider, req models.SearchRequest) (*models.SearchResult, error)
}

// Subcommand describes one entry of a provider's command set
type Subcommand struct {
	Name  string
	Kind  models.SearchKind
	Usage string
	Desc  string
}

// Subcommands lists the supported subcommands. The unnamed entry is the
// default title search used for bare text.
var Subcommands = []Subcommand{
	{
		Kind:  models.KindTitle,
		Usage: "[text to search by title]",
		Desc:  "Shows you books which contain the words you enter in their title.",
	},
	{
		Name:  "isbn",
		Kind:  models.KindISBN,
		Usage: "isbn [ISBN to search for]",
		Desc:  "Shows you %s data for the title with a matching ISBN.",
	},
	{
		Name:  "date",
		Kind:  models.KindDate,
		Usage: "date [YYYY-MM-DD]",
		Desc:  "Shows you which books in %s publish on a date in yyyy-mm-dd.",
	},
}

const helpSubcommand = "help"

type loggerKey struct{}

// WithLogger stores a request-scoped logger in ctx
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func loggerFrom(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// Dispatcher maps slash commands to provider searches
type Dispatcher struct {
	registry *providers.Registry
	searcher Searcher
}

// New creates a dispatcher over the given providers
func New(registry *providers.Registry, searcher Searcher) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		searcher: searcher,
	}
}

// Parse splits command text into a subcommand and its argument. Text whose
// first token is not a known subcommand is a title search on the whole text.
func Parse(text string) (Subcommand, string) {
	text = strings.TrimSpace(text)
	fields := strings.Fields(text)
	if len(fields) > 0 {
		token := strings.ToLower(fields[0])
		for _, sub := range Subcommands {
			if sub.Name != "" && sub.Name == token {
				return sub, strings.TrimSpace(text[len(fields[0]):])
			}
		}
	}
	return Subcommands[0], text
}

// Run executes the text of a slash command against the provider registered
// under command. Failures are reported to the user as plain text.
func (d *Dispatcher) Run(ctx context.Context, command, text string) models.Reply {
	logger := loggerFrom(ctx)
	command = strings.TrimPrefix(strings.TrimSpace(command), "/")

	p, ok := d.registry.Get(command)
	if !ok {
		logger.Warn("Unknown slash command", "command", command)
		return models.TextReply(fmt.Sprintf("Unknown command: /%s", command))
	}

	if fields := strings.Fields(text); len(fields) == 1 && strings.EqualFold(fields[0], helpSubcommand) {
		return models.TextReply(Help(p))
	}

	sub, arg := Parse(text)
	if arg == "" {
		return models.TextReply(fmt.Sprintf("Usage: /%s %s", p.Name, sub.Usage))
	}

	req := models.SearchRequest{Kind: sub.Kind, Text: arg}
	logger = logger.With("provider", p.Name, "kind", req.Kind)

	result, err := d.searcher.Search(ctx, p, req)
	if err != nil {
		logger.Error("Provider search failed", "err", err)
		return failure(p)
	}

	reply, err := formatter.Format(result, p)
	if err != nil {
		logger.Error("Unable to format provider response", "err", err)
		return failure(p)
	}

	logger.Info("Search complete", "matches", len(result.Products), "attachment", reply.IsAttachment())
	return reply
}

// Help lists the provider's subcommands
func Help(p providers.Provider) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Available /%s commands:", p.Name)
	for _, sub := range Subcommands {
		desc := sub.Desc
		if strings.Contains(desc, "%s") {
			desc = fmt.Sprintf(desc, p.DisplayName)
		}
		fmt.Fprintf(&b, "\n/%s %s - %s", p.Name, sub.Usage, desc)
	}
	return b.String()
}

func failure(p providers.Provider) models.Reply {
	return models.TextReply(fmt.Sprintf("Something went wrong while searching %s, sorry. Please try again later.", p.DisplayName))
}
