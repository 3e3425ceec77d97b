package services

import (
	"testing"

	"github.com/desertthunder/upnext/internal/models"
)

func TestMappers(t *testing.T) {
	t.Run("MovieCard", func(t *testing.T) {
		poster := "/poster.jpg"
		card := MovieCard(TMDBMovie{
			ID:          27205,
			Title:       "Inception",
			PosterPath:  &poster,
			ReleaseDate: "2010-07-15",
			VoteAverage: 8.369,
			Genres:      []TMDBGenre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
		}, "https://image.tmdb.org/t/p/w342/")

		if models.Deref(card.ImageURL) != "https://image.tmdb.org/t/p/w342/poster.jpg" {
			t.Errorf("unexpected image %q", models.Deref(card.ImageURL))
		}
		if card.Score == nil || *card.Score != 84 {
			t.Errorf("expected score 84, got %v", card.Score)
		}
		if card.Subtitle != "Action, Science Fiction" {
			t.Errorf("unexpected subtitle %q", card.Subtitle)
		}
		if models.Deref(card.ReleaseDate) != "2010-07-15" {
			t.Errorf("unexpected release date %v", card.ReleaseDate)
		}
	})

	t.Run("MovieCard falls back to original title", func(t *testing.T) {
		card := MovieCard(TMDBMovie{ID: 1, OriginalTitle: "Amélie"}, tmdbImageBaseURL)
		if card.Title != "Amélie" {
			t.Errorf("unexpected title %q", card.Title)
		}
		if card.ImageURL != nil || card.Score != nil {
			t.Error("expected nil image and score")
		}
	})

	t.Run("GameCard", func(t *testing.T) {
		card := GameCard(IGDBGame{
			ID:               7346,
			Name:             "The Legend of Zelda: Breath of the Wild",
			FirstReleaseDate: 1488499200,
			TotalRating:      92.4,
			Cover:            &IGDBImage{ImageID: "co3p2d"},
			Platforms:        []IGDBPlatform{{Name: "Nintendo Switch", Abbreviation: "Switch"}, {Name: "Wii U"}},
		})

		if models.Deref(card.ImageURL) != "https://images.igdb.com/igdb/image/upload/t_cover_big/co3p2d.jpg" {
			t.Errorf("unexpected image %q", models.Deref(card.ImageURL))
		}
		if models.Deref(card.ReleaseDate) != "2017-03-03" {
			t.Errorf("unexpected release date %q", models.Deref(card.ReleaseDate))
		}
		if card.Subtitle != "Switch, Wii U" {
			t.Errorf("unexpected subtitle %q", card.Subtitle)
		}
		if card.Href != "/games/7346" {
			t.Errorf("unexpected href %q", card.Href)
		}
	})

	t.Run("GameCard without cover or date", func(t *testing.T) {
		card := GameCard(IGDBGame{ID: 1, Name: "TBA"})
		if card.ImageURL != nil || card.ReleaseDate != nil || card.Score != nil {
			t.Errorf("expected nil optional fields, got %+v", card)
		}
	})

	t.Run("BoardGameCard", func(t *testing.T) {
		tests := []struct {
			name     string
			thing    BGGThing
			subtitle string
			release  *string
		}{
			{
				name:     "player range",
				thing:    BGGThing{ID: 1, MinPlayers: BGGValue{"2"}, MaxPlayers: BGGValue{"5"}, YearPublished: BGGValue{"2004"}},
				subtitle: "2–5 players",
				release:  models.StringPtr("2004"),
			},
			{
				name:     "fixed player count",
				thing:    BGGThing{ID: 2, MinPlayers: BGGValue{"2"}, MaxPlayers: BGGValue{"2"}},
				subtitle: "2 players",
			},
			{
				name:  "unknown year",
				thing: BGGThing{ID: 3, YearPublished: BGGValue{"0"}},
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				card := BoardGameCard(tt.thing)
				if card.Subtitle != tt.subtitle {
					t.Errorf("expected subtitle %q, got %q", tt.subtitle, card.Subtitle)
				}
				if models.Deref(card.ReleaseDate) != models.Deref(tt.release) {
					t.Errorf("expected release %q, got %q", models.Deref(tt.release), models.Deref(card.ReleaseDate))
				}
				if card.Kind != models.KindBoard {
					t.Errorf("unexpected kind %s", card.Kind)
				}
			})
		}
	})

	t.Run("BookCard prefers thumbnail", func(t *testing.T) {
		card := BookCard(GoogleVolume{
			ID: "abc",
			VolumeInfo: GoogleVolumeInfo{
				Title:      "Book",
				ImageLinks: &GoogleImageLinks{SmallThumbnail: "http://x/small", Thumbnail: "http://x/large"},
			},
		})
		if models.Deref(card.ImageURL) != "https://x/large" {
			t.Errorf("unexpected image %q", models.Deref(card.ImageURL))
		}
	})

	t.Run("BestsellerCard falls back to ISBN-10", func(t *testing.T) {
		card := BestsellerCard(NYTBook{Title: "X", PrimaryISBN10: "0451524934"})
		if card.ID != "0451524934" || card.Href != "/books/search?q=isbn:0451524934" {
			t.Errorf("unexpected card %+v", card)
		}
	})

	t.Run("ReviewedCard uses og image when sm missing", func(t *testing.T) {
		card := ReviewedCard(OpenCriticGame{ID: 5, Images: OpenCriticImages{Box: &OpenCriticImage{Og: "/game/5/o/box.jpg"}}})
		if models.Deref(card.ImageURL) != "https://img.opencritic.com/game/5/o/box.jpg" {
			t.Errorf("unexpected image %q", models.Deref(card.ImageURL))
		}
	})
}

func TestHTTPSURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"//cf.geekdo-images.com/a.jpg", "https://cf.geekdo-images.com/a.jpg"},
		{"http://books.google.com/x", "https://books.google.com/x"},
		{"https://already.example/x", "https://already.example/x"},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := httpsURL(tt.in); got != tt.want {
			t.Errorf("httpsURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if percent(0) != nil || percent(-1) != nil {
		t.Error("expected nil for missing scores")
	}
	if p := percent(72.5); p == nil || *p != 73 {
		t.Errorf("expected 73, got %v", p)
	}
}
