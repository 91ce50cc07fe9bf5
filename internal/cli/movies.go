package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shelf/internal/movie"
)

var (
	movieTitle       string
	movieGenre       string
	movieYear        int
	movieRating      float64
	movieWatched     bool
	movieDirector    string
	movieDescription string

	movieFilter      string
	movieSearchBy    string
	movieUnwatched   bool
	movieDeleteTitle string
	movieRecGenre    string
	movieMinRating   float64
)

var moviesCmd = &cobra.Command{
	Use:   "movies",
	Short: "Manage the movie collection",
}

var moviesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a movie",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireMovies(); err != nil {
			return err
		}
		m, err := movieService.Add(movie.NewMovie{
			Title:       movieTitle,
			Genre:       movieGenre,
			Year:        optionalInt(cmd, "year", movieYear),
			Rating:      optionalFloat(cmd, "rating", movieRating),
			Watched:     movieWatched,
			Director:    movieDirector,
			Description: movieDescription,
		})
		if err := persisted(cmd, err); err != nil {
			return err
		}
		return printMovie(cmd, m, "Added")
	},
}

var moviesLookupCmd = &cobra.Command{
	Use:   "lookup [title]",
	Short: "Add a movie using details from Studio Ghibli or OMDB",
	Long: `Looks the title up in the Studio Ghibli catalog first. When nothing
matches and OMDB_API_KEY is set, OMDB is asked next.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireMovies(); err != nil {
			return err
		}
		m, err := movieService.AddFromTitle(context.Background(), args[0])
		if err := persisted(cmd, err); err != nil {
			return err
		}
		return printMovie(cmd, m, "Added")
	},
}

var moviesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List movies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireMovies(); err != nil {
			return err
		}
		filter, err := movie.ParseFilter(movieFilter)
		if err != nil {
			return err
		}
		return printMovies(cmd, movieService.List(filter))
	},
}

var moviesSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search movies by title, or by exact genre with --by genre",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireMovies(); err != nil {
			return err
		}
		switch strings.ToLower(movieSearchBy) {
		case "", "title":
			return printMovies(cmd, movieService.Search(args[0]))
		case "genre":
			return printMovies(cmd, movieService.SearchByGenre(args[0]))
		default:
			return fmt.Errorf("%w: cannot search by %q", movie.ErrInvalidField, movieSearchBy)
		}
	},
}

var moviesWatchedCmd = &cobra.Command{
	Use:   "watched [id]",
	Short: "Mark a movie as watched",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireMovies(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		m, err := movieService.MarkWatched(id, !movieUnwatched)
		if err := persisted(cmd, err); err != nil {
			return err
		}
		return printMovie(cmd, m, "Updated")
	},
}

var moviesRateCmd = &cobra.Command{
	Use:   "rate [id] [rating]",
	Short: "Rate a movie from 0 to 10",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireMovies(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		r, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", movie.ErrInvalidRating, args[1])
		}
		m, err := movieService.Rate(id, r)
		if err := persisted(cmd, err); err != nil {
			return err
		}
		return printMovie(cmd, m, "Rated")
	},
}

var moviesUpdateCmd = &cobra.Command{
	Use:   "update [id] [field] [value]",
	Short: "Set one field of a movie",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireMovies(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		field, err := movie.ParseField(args[1])
		if err != nil {
			return err
		}
		m, err := movieService.Update(id, field, args[2])
		if err := persisted(cmd, err); err != nil {
			return err
		}
		return printMovie(cmd, m, "Updated")
	},
}

var moviesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Remove a movie by id, or every movie with --title",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireMovies(); err != nil {
			return err
		}
		if movieDeleteTitle != "" {
			removed, err := movieService.DeleteByTitle(movieDeleteTitle)
			if err := persisted(cmd, err); err != nil {
				return err
			}
			if outputJSON {
				return printJSON(cmd, removed)
			}
			cmd.Printf("Deleted %d movie(s) titled %q\n", len(removed), movieDeleteTitle)
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("an id or --title is required")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		m, err := movieService.Delete(id)
		if err := persisted(cmd, err); err != nil {
			return err
		}
		return printMovie(cmd, m, "Deleted")
	},
}

var moviesRecommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "List the best rated movies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireMovies(); err != nil {
			return err
		}
		return printMovies(cmd, movieService.Recommend(movieRecGenre, movieMinRating))
	},
}

var moviesGenresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the genres in the collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireMovies(); err != nil {
			return err
		}
		genres := movieService.Genres()
		if outputJSON {
			return printJSON(cmd, genres)
		}
		if len(genres) == 0 {
			cmd.Println("No genres found.")
			return nil
		}
		for _, g := range genres {
			cmd.Println(g)
		}
		return nil
	},
}

var moviesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireMovies(); err != nil {
			return err
		}
		s := movieService.Statistics()
		if outputJSON {
			return printJSON(cmd, s)
		}
		cmd.Printf("Total movies:   %d\n", s.Total)
		cmd.Printf("Watched:        %d\n", s.Watched)
		cmd.Printf("Unwatched:      %d\n", s.Unwatched)
		cmd.Printf("Average rating: %.2f\n", s.AverageRating)
		cmd.Printf("Genres:         %d\n", s.Genres)
		return nil
	},
}

func init() {
	moviesAddCmd.Flags().StringVar(&movieTitle, "title", "", "movie title (required)")
	moviesAddCmd.Flags().StringVar(&movieGenre, "genre", "", "genre, defaults to Unknown")
	moviesAddCmd.Flags().IntVar(&movieYear, "year", 0, "release year")
	moviesAddCmd.Flags().Float64Var(&movieRating, "rating", 0, "rating from 0 to 10")
	moviesAddCmd.Flags().BoolVar(&movieWatched, "watched", false, "already watched")
	moviesAddCmd.Flags().StringVar(&movieDirector, "director", "", "director")
	moviesAddCmd.Flags().StringVar(&movieDescription, "description", "", "short description")

	moviesListCmd.Flags().StringVarP(&movieFilter, "filter", "f", movie.FilterAll, "all, watched or unwatched")
	moviesSearchCmd.Flags().StringVar(&movieSearchBy, "by", "title", "title or genre")
	moviesWatchedCmd.Flags().BoolVar(&movieUnwatched, "unwatched", false, "mark as not watched instead")
	moviesDeleteCmd.Flags().StringVar(&movieDeleteTitle, "title", "", "delete every movie with this title")
	moviesRecommendCmd.Flags().StringVar(&movieRecGenre, "genre", "", "restrict to one genre")
	moviesRecommendCmd.Flags().Float64Var(&movieMinRating, "min-rating", movie.DefaultMinRating, "minimum rating")

	moviesCmd.AddCommand(
		moviesAddCmd, moviesLookupCmd, moviesListCmd, moviesSearchCmd, moviesWatchedCmd,
		moviesRateCmd, moviesUpdateCmd, moviesDeleteCmd, moviesRecommendCmd,
		moviesGenresCmd, moviesStatsCmd,
	)
	rootCmd.AddCommand(moviesCmd)
}

func movieLine(m movie.Movie) string {
	watched := "unwatched"
	if m.Watched {
		watched = "watched"
	}
	return fmt.Sprintf("[%d] %s (%s) %s - %s, %s", m.ID, m.Title, yearString(m.Year), m.Genre, watched, stars(m.Rating))
}

func printMovie(cmd *cobra.Command, m movie.Movie, verb string) error {
	if outputJSON {
		return printJSON(cmd, m)
	}
	cmd.Printf("%s: %s\n", verb, movieLine(m))
	return nil
}

func printMovies(cmd *cobra.Command, movies []movie.Movie) error {
	if outputJSON {
		if movies == nil {
			movies = []movie.Movie{}
		}
		return printJSON(cmd, movies)
	}
	if len(movies) == 0 {
		cmd.Println("No movies found.")
		return nil
	}
	for _, m := range movies {
		cmd.Println(movieLine(m))
	}
	return nil
}
