package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/upnext/internal/models"
)

const (
	igdbImageURL       = "https://images.igdb.com/igdb/image/upload/t_cover_big/%s.jpg"
	openCriticImageURL = "https://img.opencritic.com/"
)

// MovieCard maps a TMDB movie. imageBase is the poster size prefix (e.g. https://image.tmdb.org/t/p/w500).
func MovieCard(m TMDBMovie, imageBase string) models.Card {
	card := models.Card{
		ID:          strconv.FormatInt(m.ID, 10),
		Kind:        models.KindMovie,
		Title:       firstNonEmpty(m.Title, m.OriginalTitle),
		ReleaseDate: models.StringPtr(m.ReleaseDate),
		Href:        models.Href(models.KindMovie, strconv.FormatInt(m.ID, 10)),
		Score:       percent(m.VoteAverage * 10),
	}
	if m.PosterPath != nil && *m.PosterPath != "" {
		card.ImageURL = models.StringPtr(strings.TrimRight(imageBase, "/") + "/" + strings.TrimLeft(*m.PosterPath, "/"))
	}
	if len(m.Genres) > 0 {
		names := make([]string, 0, len(m.Genres))
		for _, g := range m.Genres {
			names = append(names, g.Name)
		}
		card.Subtitle = strings.Join(names, ", ")
	}
	return card
}

// GameCard maps an IGDB game.
func GameCard(g IGDBGame) models.Card {
	id := strconv.FormatInt(g.ID, 10)
	card := models.Card{
		ID:    id,
		Kind:  models.KindGame,
		Title: g.Name,
		Href:  models.Href(models.KindGame, id),
		Score: percent(g.TotalRating),
	}
	if g.Cover != nil && g.Cover.ImageID != "" {
		card.ImageURL = models.StringPtr(fmt.Sprintf(igdbImageURL, g.Cover.ImageID))
	}
	if g.FirstReleaseDate > 0 {
		card.ReleaseDate = models.StringPtr(time.Unix(g.FirstReleaseDate, 0).UTC().Format(time.DateOnly))
	}

	platforms := make([]string, 0, len(g.Platforms))
	for _, p := range g.Platforms {
		if name := firstNonEmpty(p.Abbreviation, p.Name); name != "" {
			platforms = append(platforms, name)
		}
	}
	card.Subtitle = strings.Join(platforms, ", ")
	return card
}

// BoardGameCard maps a BoardGameGeek thing or search item. Search items carry no image.
func BoardGameCard(t BGGThing) models.Card {
	id := strconv.FormatInt(t.ID, 10)
	card := models.Card{
		ID:       id,
		Kind:     models.KindBoard,
		Title:    t.PrimaryName(),
		ImageURL: models.StringPtr(httpsURL(firstNonEmpty(t.Image, t.Thumbnail))),
		Href:     models.Href(models.KindBoard, id),
	}
	if year := t.YearPublished.Value; year != "" && year != "0" {
		card.ReleaseDate = models.StringPtr(year)
	}

	minPlayers, maxPlayers := t.MinPlayers.Value, t.MaxPlayers.Value
	switch {
	case minPlayers != "" && maxPlayers != "" && minPlayers != maxPlayers:
		card.Subtitle = minPlayers + "–" + maxPlayers + " players"
	case minPlayers != "" && minPlayers != "0":
		card.Subtitle = minPlayers + " players"
	}
	return card
}

// BookCard maps a Google Books volume.
func BookCard(v GoogleVolume) models.Card {
	info := v.VolumeInfo
	card := models.Card{
		ID:          v.ID,
		Kind:        models.KindBook,
		Title:       info.Title,
		ReleaseDate: models.StringPtr(info.PublishedDate),
		Href:        models.Href(models.KindBook, v.ID),
		Subtitle:    strings.Join(info.Authors, ", "),
	}
	if info.ImageLinks != nil {
		card.ImageURL = models.StringPtr(httpsURL(firstNonEmpty(info.ImageLinks.Thumbnail, info.ImageLinks.SmallThumbnail)))
	}
	return card
}

// BestsellerCard maps an NYT list entry. The id is the ISBN-13 (falling back to ISBN-10, then the title).
func BestsellerCard(b NYTBook) models.Card {
	id := firstNonEmpty(b.PrimaryISBN13, b.PrimaryISBN10, b.Title)
	card := models.Card{
		ID:       id,
		Kind:     models.KindBook,
		Title:    b.Title,
		ImageURL: models.StringPtr(httpsURL(b.BookImage)),
		Subtitle: b.Author,
	}
	if isbn := firstNonEmpty(b.PrimaryISBN13, b.PrimaryISBN10); isbn != "" {
		card.Href = "/books/search?q=isbn:" + isbn
	} else {
		card.Href = "/books/search?q=" + strings.ReplaceAll(strings.ToLower(b.Title), " ", "+")
	}
	return card
}

// ReviewedCard maps an OpenCritic game. OpenCritic reports -1 when a game has no top critic score.
func ReviewedCard(g OpenCriticGame) models.Card {
	card := models.Card{
		ID:    strconv.FormatInt(g.ID, 10),
		Kind:  models.KindGame,
		Title: g.Name,
		Href:  fmt.Sprintf("https://opencritic.com/game/%d", g.ID),
		Score: percent(g.TopCriticScore),
	}
	if len(g.FirstReleaseDate) >= len(time.DateOnly) {
		card.ReleaseDate = models.StringPtr(g.FirstReleaseDate[:len(time.DateOnly)])
	}
	if box := g.Images.Box; box != nil {
		if path := firstNonEmpty(box.Sm, box.Og); path != "" {
			card.ImageURL = models.StringPtr(openCriticImageURL + strings.TrimLeft(path, "/"))
		}
	}
	return card
}

// httpsURL upgrades protocol-relative and http URLs to https.
func httpsURL(raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.HasPrefix(raw, "http://"):
		return "https://" + strings.TrimPrefix(raw, "http://")
	default:
		return raw
	}
}

// percent rounds a 0-100 score, returning nil for missing or negative scores.
func percent(score float64) *int {
	if score <= 0 || math.IsNaN(score) {
		return nil
	}
	n := int(math.Round(score))
	return &n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
