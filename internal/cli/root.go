// Package cli implements the shelf command line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"shelf/internal/app"
	"shelf/internal/book"
	"shelf/internal/collection"
	"shelf/internal/config"
	"shelf/internal/logger"
	"shelf/internal/movie"
)

var (
	outputJSON bool
	logLevel   string

	settings     *config.Config
	bookService  *book.Service
	movieService *movie.Service
)

var rootCmd = &cobra.Command{
	Use:   "shelf",
	Short: "Manage a personal book and movie collection",
	Long: `shelf keeps books and movies in local JSON files.
Books can be looked up by ISBN on Open Library, movies by title in the
Studio Ghibli catalog and, with OMDB_API_KEY set, on OMDB.`,
	SilenceUsage:      true,
	PersistentPreRunE: configure,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level written to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetServices installs the services used by every command. configure leaves
// them alone once set.
func SetServices(cfg *config.Config, books *book.Service, movies *movie.Service) {
	settings = cfg
	bookService = books
	movieService = movies
}

func configure(cmd *cobra.Command, _ []string) error {
	if settings != nil && bookService != nil && movieService != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: cmd.ErrOrStderr(),
	})
	a := app.New(cfg, log)
	SetServices(cfg, a.Books, a.Movies)
	return nil
}

func requireBooks() error {
	if bookService == nil {
		return errors.New("book service not configured")
	}
	return nil
}

func requireMovies() error {
	if movieService == nil {
		return errors.New("movie service not configured")
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// persisted reports a persist failure as a warning when the change itself
// went through, and passes every other error back.
func persisted(cmd *cobra.Command, err error) error {
	if errors.Is(err, collection.ErrPersist) {
		cmd.PrintErrln("warning: change applied but could not be saved:", err)
		return nil
	}
	return err
}

func optionalInt(cmd *cobra.Command, name string, v int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func optionalFloat(cmd *cobra.Command, name string, v float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func stars(r *float64) string {
	if r == nil {
		return "unrated"
	}
	return fmt.Sprintf("%.1f", *r)
}

func yearString(y *int) string {
	if y == nil {
		return "n/a"
	}
	return fmt.Sprint(*y)
}
