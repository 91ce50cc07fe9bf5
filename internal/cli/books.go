package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shelf/internal/book"
)

var (
	bookTitle  string
	bookAuthor string
	bookGenre  string
	bookYear   int
	bookISBN   string

	bookStatusFilter string
	bookSearchBy     string
	bookRecGenre     string
	bookMinRating    float64
	bookGroupBy      string
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Manage the book collection",
}

var booksAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a book",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireBooks(); err != nil {
			return err
		}
		b, err := bookService.Add(book.NewBook{
			Title:  bookTitle,
			Author: bookAuthor,
			Genre:  bookGenre,
			Year:   optionalInt(cmd, "year", bookYear),
			ISBN:   bookISBN,
		})
		if err := persisted(cmd, err); err != nil {
			return err
		}
		return printBook(cmd, b, "Added")
	},
}

var booksISBNCmd = &cobra.Command{
	Use:   "isbn [isbn]",
	Short: "Add a book by looking its ISBN up on Open Library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireBooks(); err != nil {
			return err
		}
		b, err := bookService.AddFromISBN(context.Background(), args[0])
		if err := persisted(cmd, err); err != nil {
			return err
		}
		return printBook(cmd, b, "Added")
	},
}

var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List books, optionally filtered by reading status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireBooks(); err != nil {
			return err
		}
		return printBooks(cmd, bookService.List(bookStatusFilter))
	},
}

var booksGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireBooks(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		b, err := bookService.Get(id)
		if err != nil {
			return err
		}
		return printBook(cmd, b, "")
	},
}

var booksSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search books by title, author or genre",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireBooks(); err != nil {
			return err
		}
		books, err := bookService.Search(args[0], book.Field(bookSearchBy))
		if err != nil {
			return err
		}
		return printBooks(cmd, books)
	},
}

var booksStatusCmd = &cobra.Command{
	Use:   "status [id] [unread|reading|read]",
	Short: "Change the reading status of a book",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireBooks(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		status, err := book.ParseStatus(args[1])
		if err != nil {
			return err
		}
		b, err := bookService.UpdateStatus(id, status)
		if err := persisted(cmd, err); err != nil {
			return err
		}
		return printBook(cmd, b, "Updated")
	},
}

var booksRateCmd = &cobra.Command{
	Use:   "rate [id] [rating]",
	Short: "Rate a book from 0 to 5",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireBooks(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		r, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", book.ErrInvalidRating, args[1])
		}
		b, err := bookService.Rate(id, r)
		if err := persisted(cmd, err); err != nil {
			return err
		}
		return printBook(cmd, b, "Rated")
	},
}

var booksNotesCmd = &cobra.Command{
	Use:   "notes [id] [text]",
	Short: "Replace the notes on a book",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireBooks(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		b, err := bookService.SetNotes(id, args[1])
		if err := persisted(cmd, err); err != nil {
			return err
		}
		return printBook(cmd, b, "Updated")
	},
}

var booksUpdateCmd = &cobra.Command{
	Use:   "update [id] [field] [value]",
	Short: "Set one field of a book",
	Long: `Sets one of title, author, genre, year, isbn, status, rating or notes.
An empty value clears year, isbn and rating.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireBooks(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		field, err := book.ParseField(args[1])
		if err != nil {
			return err
		}
		b, err := bookService.Update(id, field, args[2])
		if err := persisted(cmd, err); err != nil {
			return err
		}
		return printBook(cmd, b, "Updated")
	},
}

var booksDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Remove a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireBooks(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		b, err := bookService.Delete(id)
		if err := persisted(cmd, err); err != nil {
			return err
		}
		return printBook(cmd, b, "Deleted")
	},
}

var booksRecommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "List the best rated books",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireBooks(); err != nil {
			return err
		}
		return printBooks(cmd, bookService.Recommend(bookRecGenre, bookMinRating))
	},
}

var booksOrganizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Group books by genre or author",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireBooks(); err != nil {
			return err
		}
		groups, err := bookService.Group(book.Field(bookGroupBy))
		if err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd, groups)
		}
		if len(groups) == 0 {
			cmd.Println("No books found.")
			return nil
		}
		for _, key := range sortedKeys(groups) {
			cmd.Printf("%s (%d)\n", key, len(groups[key]))
			for _, b := range groups[key] {
				cmd.Printf("  %s\n", bookLine(b))
			}
		}
		return nil
	},
}

var booksStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireBooks(); err != nil {
			return err
		}
		s := bookService.Statistics()
		if outputJSON {
			return printJSON(cmd, s)
		}
		cmd.Printf("Total books:    %d\n", s.TotalBooks)
		cmd.Printf("Read:           %d\n", s.Read)
		cmd.Printf("Reading:        %d\n", s.Reading)
		cmd.Printf("Unread:         %d\n", s.Unread)
		cmd.Printf("Average rating: %.2f\n", s.AverageRating)
		cmd.Printf("Genres:         %d\n", s.UniqueGenres)
		cmd.Printf("Authors:        %d\n", s.UniqueAuthors)
		return nil
	},
}

func init() {
	booksAddCmd.Flags().StringVar(&bookTitle, "title", "", "book title (required)")
	booksAddCmd.Flags().StringVar(&bookAuthor, "author", "", "book author (required)")
	booksAddCmd.Flags().StringVar(&bookGenre, "genre", "", "genre, defaults to Unknown")
	booksAddCmd.Flags().IntVar(&bookYear, "year", 0, "publication year")
	booksAddCmd.Flags().StringVar(&bookISBN, "isbn", "", "ISBN-10 or ISBN-13")

	booksListCmd.Flags().StringVarP(&bookStatusFilter, "status", "s", "all", "all, unread, reading or read")
	booksSearchCmd.Flags().StringVar(&bookSearchBy, "by", "title", "title, author or genre")
	booksRecommendCmd.Flags().StringVar(&bookRecGenre, "genre", "", "restrict to one genre")
	booksRecommendCmd.Flags().Float64Var(&bookMinRating, "min-rating", book.DefaultMinRating, "minimum rating")
	booksOrganizeCmd.Flags().StringVar(&bookGroupBy, "by", "genre", "genre or author")

	booksCmd.AddCommand(
		booksAddCmd, booksISBNCmd, booksListCmd, booksGetCmd, booksSearchCmd,
		booksStatusCmd, booksRateCmd, booksNotesCmd, booksUpdateCmd, booksDeleteCmd,
		booksRecommendCmd, booksOrganizeCmd, booksStatsCmd,
	)
	rootCmd.AddCommand(booksCmd)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func bookLine(b book.Book) string {
	// Format: [ID] Title by Author (Year) - status, rating
	return fmt.Sprintf("[%d] %s by %s (%s) - %s, %s", b.ID, b.Title, b.Author, yearString(b.Year), b.Status, stars(b.Rating))
}

func printBook(cmd *cobra.Command, b book.Book, verb string) error {
	if outputJSON {
		return printJSON(cmd, b)
	}
	if verb != "" {
		cmd.Printf("%s: ", verb)
	}
	cmd.Println(bookLine(b))
	return nil
}

func printBooks(cmd *cobra.Command, books []book.Book) error {
	if outputJSON {
		if books == nil {
			books = []book.Book{}
		}
		return printJSON(cmd, books)
	}
	if len(books) == 0 {
		cmd.Println("No books found.")
		return nil
	}
	for _, b := range books {
		cmd.Println(bookLine(b))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
