package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/upnext/internal/formatter"
	"github.com/desertthunder/upnext/internal/models"
	"github.com/desertthunder/upnext/internal/services"
	"github.com/desertthunder/upnext/internal/shared"
	"github.com/desertthunder/upnext/internal/shelf"
	"github.com/urfave/cli/v3"
)

// Lookup fetches cards for the given ids from the catalog of the given kind.
func (r *Runner) Lookup(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args()
	if args.Len() < 2 {
		return fmt.Errorf("%w: usage: lookup <kind> <ids...>", shared.ErrMissingArgument)
	}

	kind, err := parseKind(args.First())
	if err != nil {
		return err
	}

	var cards []models.Card
	switch kind {
	case models.KindMovie:
		cards, err = lookupIDs(ctx, r.catalogs.Movies, shelf.Movies, args.Tail())
	case models.KindGame:
		cards, err = lookupIDs(ctx, r.catalogs.Games, shelf.VideoGames, args.Tail())
	case models.KindBoard:
		cards, err = lookupIDs(ctx, r.catalogs.BoardGames, shelf.BoardGames, args.Tail())
	case models.KindBook:
		cards, err = lookupIDs(ctx, r.catalogs.Books, shelf.Books, args.Tail())
	}
	if err != nil {
		return err
	}

	r.logger.Debug("lookup complete", "kind", kind, "requested", args.Len()-1, "found", len(cards))
	return r.writeCards(cmd, fmt.Sprintf("Lookup: %s", kind.Path()), cards)
}

// Search runs a free-text search against one catalog.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	kind, err := parseKind(cmd.String("kind"))
	if err != nil {
		return err
	}

	searcher := r.catalogs.Searcher(kind)
	if searcher == nil {
		return fmt.Errorf("%w: %s search is not configured", shared.ErrMissingCredentials, kind)
	}

	cards, err := searcher.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return r.writeCards(cmd, fmt.Sprintf("Search: %s", query), cards)
}

// Bestsellers prints one NYT bestseller list.
func (r *Runner) Bestsellers(ctx context.Context, cmd *cli.Command) error {
	if r.catalogs.Bestsellers == nil {
		return fmt.Errorf("%w: set NYT_API_KEY to fetch bestsellers", shared.ErrMissingCredentials)
	}

	list, err := r.catalogs.Bestsellers.Bestsellers(ctx, cmd.String("list"))
	if err != nil {
		return fmt.Errorf("failed to fetch bestsellers: %w", err)
	}

	title := list.Name
	if list.Date != "" {
		title += " (" + list.Date + ")"
	}
	return r.writeCards(cmd, title, list.Books)
}

// Reviewed prints the games OpenCritic reviewed this week.
func (r *Runner) Reviewed(ctx context.Context, cmd *cli.Command) error {
	if r.catalogs.Reviews == nil {
		return fmt.Errorf("%w: set OPENCRITIC_API_KEY to fetch reviews", shared.ErrMissingCredentials)
	}

	games, err := r.catalogs.Reviews.ReviewedThisWeek(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch reviews: %w", err)
	}
	return r.writeCards(cmd, "Reviewed this week", games)
}

// writeCards encodes cards per the --format, --pretty and --output flags.
func (r *Runner) writeCards(cmd *cli.Command, title string, cards []models.Card) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	pretty := cmd.Bool("pretty")

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(path, format, title, cards, pretty); err != nil {
			return err
		}
		r.logger.Info("export written", "path", path, "format", format, "items", len(cards))
		return nil
	}

	data, err := formatter.Export(format, title, cards, pretty)
	if err != nil {
		return err
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return r.writeBytes(data)
}

func lookupIDs[T models.ID](ctx context.Context, catalog services.Catalog[T], variant shelf.Variant[T], raw []string) ([]models.Card, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: %s catalog is not configured", shared.ErrMissingCredentials, variant.Kind)
	}

	ids := make([]T, 0, len(raw))
	for _, s := range raw {
		id, ok := variant.Coerce(s)
		if !ok {
			return nil, fmt.Errorf("%w: %q", shared.ErrInvalidID, s)
		}
		ids = append(ids, id)
	}

	cards, err := catalog.Lookup(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s lookup failed: %w", catalog.Name(), err)
	}
	return cards, nil
}

func parseKind(s string) (models.Kind, error) {
	kind, err := models.ParseKind(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidKind, err)
	}
	return kind, nil
}
