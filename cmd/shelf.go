package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/upnext/internal/models"
	"github.com/desertthunder/upnext/internal/shared"
	"github.com/desertthunder/upnext/internal/shelf"
	"github.com/urfave/cli/v3"
)

type shelfResult[T models.ID] struct {
	IDs   []T    `json:"ids"`
	Value string `json:"value"`
}

// ShelfDecode prints the ids a cookie value holds, normalized the way the API reads them.
func (r *Runner) ShelfDecode(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args()
	if args.Len() < 1 {
		return fmt.Errorf("%w: usage: shelf decode <kind> <value>", shared.ErrMissingArgument)
	}

	kind, err := parseKind(args.First())
	if err != nil {
		return err
	}
	value := args.Get(1)

	return r.withVariant(kind,
		func(v shelf.Variant[int64]) error { return r.writeJSON(v.Parse(value), false) },
		func(v shelf.Variant[string]) error { return r.writeJSON(v.Parse(value), false) },
	)
}

// ShelfAdd adds an id to a cookie value and prints the result.
func (r *Runner) ShelfAdd(ctx context.Context, cmd *cli.Command) error {
	return r.shelfEdit(cmd, "add")
}

// ShelfRemove removes an id from a cookie value and prints the result.
func (r *Runner) ShelfRemove(ctx context.Context, cmd *cli.Command) error {
	return r.shelfEdit(cmd, "remove")
}

func (r *Runner) shelfEdit(cmd *cli.Command, action string) error {
	args := cmd.Args()
	if args.Len() < 2 {
		return fmt.Errorf("%w: usage: shelf %s <kind> <id>", shared.ErrMissingArgument, action)
	}

	kind, err := parseKind(args.First())
	if err != nil {
		return err
	}
	value, raw, asJSON := cmd.String("value"), args.Get(1), cmd.Bool("json")

	return r.withVariant(kind,
		func(v shelf.Variant[int64]) error { return editList(r, v, value, raw, action, asJSON) },
		func(v shelf.Variant[string]) error { return editList(r, v, value, raw, action, asJSON) },
	)
}

// withVariant calls ints or strs with the list variant of kind, capped per [shared.LimitsConfig].
func (r *Runner) withVariant(kind models.Kind, ints func(shelf.Variant[int64]) error, strs func(shelf.Variant[string]) error) error {
	limits := r.config.Limits
	switch kind {
	case models.KindMovie:
		return ints(shelf.Movies.WithCap(limits.Movies))
	case models.KindGame:
		return ints(shelf.VideoGames.WithCap(limits.VideoGames))
	case models.KindBoard:
		return ints(shelf.BoardGames.WithCap(limits.BoardGames))
	case models.KindBook:
		return strs(shelf.Books.WithCap(limits.Books))
	default:
		return fmt.Errorf("%w: %s", shared.ErrInvalidKind, kind)
	}
}

func editList[T models.ID](r *Runner, v shelf.Variant[T], value, raw, action string, asJSON bool) error {
	id, ok := v.Coerce(raw)
	if !ok {
		return fmt.Errorf("%w: %q", shared.ErrInvalidID, raw)
	}

	list := v.Parse(value)
	switch action {
	case "add":
		list = v.Add(list, id)
	case "remove":
		list = v.Remove(list, id)
	default:
		return fmt.Errorf("%w: %s", shared.ErrInvalidAction, action)
	}

	cookie := v.NewCookie(list, r.config.Server.Production())
	if asJSON {
		return r.writeJSON(shelfResult[T]{IDs: list, Value: cookie.Value}, false)
	}
	return r.writePlain("%s\n", cookie.Value)
}
