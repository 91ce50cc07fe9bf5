package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"shelf/internal/app"
	"shelf/internal/book"
	"shelf/internal/config"
	"shelf/internal/logger"
	"shelf/internal/movie"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

var sampleBooks = []struct {
	book.NewBook
	status book.Status
	rating *float64
}{
	{book.NewBook{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy", Year: intPtr(1937), ISBN: "9780261103573"}, book.StatusRead, floatPtr(5)},
	{book.NewBook{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", Year: intPtr(1965)}, book.StatusRead, floatPtr(4.5)},
	{book.NewBook{Title: "Emma", Author: "Jane Austen", Genre: "Classic", Year: intPtr(1815)}, book.StatusReading, nil},
	{book.NewBook{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Genre: "Science Fiction", Year: intPtr(1969)}, book.StatusUnread, nil},
	{book.NewBook{Title: "Middlemarch", Author: "George Eliot", Genre: "Classic", Year: intPtr(1871)}, book.StatusRead, floatPtr(4)},
}

var sampleMovies = []movie.NewMovie{
	{Title: "Spirited Away", Genre: "Animation", Year: intPtr(2001), Rating: floatPtr(9.7), Watched: true, Director: "Hayao Miyazaki", Source: movie.SourceGhibli},
	{Title: "My Neighbor Totoro", Genre: "Animation", Year: intPtr(1988), Rating: floatPtr(9.3), Director: "Hayao Miyazaki", Source: movie.SourceGhibli},
	{Title: "Heat", Genre: "Crime", Year: intPtr(1995), Rating: floatPtr(8.3), Watched: true, Director: "Michael Mann"},
	{Title: "Arrival", Genre: "Science Fiction", Year: intPtr(2016), Director: "Denis Villeneuve"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console"})

	a := app.New(cfg, log)
	force := len(os.Args) > 1 && os.Args[1] == "--force"

	if err := seedBooks(a, force, log); err != nil {
		log.Fatal().Err(err).Msg("failed to seed books")
	}
	if err := seedMovies(a, force, log); err != nil {
		log.Fatal().Err(err).Msg("failed to seed movies")
	}
}

func seedBooks(a *app.App, force bool, log zerolog.Logger) error {
	if n := len(a.BookRepo.Snapshot()); n > 0 && !force {
		log.Info().Int("count", n).Msg("books already present, skipping (use --force to add anyway)")
		return nil
	}
	for _, s := range sampleBooks {
		b, err := a.Books.Add(s.NewBook)
		if err != nil {
			return err
		}
		if s.status != book.StatusUnread {
			if _, err := a.Books.UpdateStatus(b.ID, s.status); err != nil {
				return err
			}
		}
		if s.rating != nil {
			if _, err := a.Books.Rate(b.ID, *s.rating); err != nil {
				return err
			}
		}
	}
	log.Info().Int("count", len(sampleBooks)).Str("file", a.BookRepo.Path()).Msg("seeded books")
	return nil
}

func seedMovies(a *app.App, force bool, log zerolog.Logger) error {
	if n := len(a.MovieRepo.Snapshot()); n > 0 && !force {
		log.Info().Int("count", n).Msg("movies already present, skipping (use --force to add anyway)")
		return nil
	}
	for _, m := range sampleMovies {
		if _, err := a.Movies.Add(m); err != nil {
			return err
		}
	}
	log.Info().Int("count", len(sampleMovies)).Str("file", a.MovieRepo.Path()).Msg("seeded movies")
	return nil
}
