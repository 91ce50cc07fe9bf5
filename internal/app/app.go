// Package app wires repositories, catalog clients and services from a Config.
package app

import (
	"github.com/rs/zerolog"

	"shelf/internal/book"
	"shelf/internal/config"
	"shelf/internal/movie"
	"shelf/internal/platform/ghibli"
	"shelf/internal/platform/omdb"
	"shelf/internal/platform/openlibrary"
)

type App struct {
	BookRepo  *book.FileRepository
	MovieRepo *movie.FileRepository
	Books     *book.Service
	Movies    *movie.Service
}

// New opens both collections and builds the services on top of them.
func New(cfg *config.Config, logger zerolog.Logger) *App {
	bookRepo := book.NewFileRepository(cfg.BooksFile, logger)
	movieRepo := movie.NewFileRepository(cfg.MoviesFile, logger)

	openLibrary := openlibrary.NewGuardedClient(
		openlibrary.NewClient(cfg.OpenLibraryURL, cfg.UserAgent, cfg.LookupTimeout, cfg.OpenLibraryRPS), logger)
	ghibliClient := ghibli.NewGuardedClient(ghibli.NewClient(cfg.GhibliURL, cfg.LookupTimeout), logger)
	omdbClient := omdb.NewGuardedClient(omdb.NewClient(cfg.OMDBURL, cfg.OMDBAPIKey, cfg.LookupTimeout), logger)

	if !omdbClient.Enabled() {
		logger.Debug().Msg("OMDB_API_KEY not set, movie lookups use Studio Ghibli only")
	}

	bookEnricher := book.NewEnricher(openLibrary, logger).WithCache(cfg.LookupCacheTTL)
	movieEnricher := movie.NewEnricher(ghibliClient, omdbClient, logger).WithCache(cfg.LookupCacheTTL)

	return &App{
		BookRepo:  bookRepo,
		MovieRepo: movieRepo,
		Books:     book.NewService(bookRepo, bookEnricher, logger),
		Movies:    movie.NewService(movieRepo, movieEnricher, logger),
	}
}
