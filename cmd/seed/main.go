package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"mediatracker/internal/book"
	"mediatracker/internal/config"
	"mediatracker/internal/isbn"
	"mediatracker/internal/logging"
	"mediatracker/internal/movie"
	"mediatracker/internal/platform/postgres"
	"mediatracker/internal/user"
)

var demoBooks = []book.Input{
	{Title: "Dune", Author: "Frank Herbert", ISBN: "978-0-441-17271-9", Status: book.StatusFinished},
	{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", ISBN: "0-441-47812-3", Status: book.StatusReading},
	{Title: "Piranesi", Author: "Susanna Clarke", ISBN: "9781635575637"},
}

var demoMovies = []movie.Input{
	{Title: "Arrival", Director: "Denis Villeneuve", ReleaseYear: intPtr(2016), TMDbID: "329865", Status: movie.StatusWatched, Rating: movie.Value(9.0)},
	{Title: "Stalker", Director: "Andrei Tarkovsky", ReleaseYear: intPtr(1979), Status: movie.StatusToWatch},
	{Title: "Spirited Away", Director: "Hayao Miyazaki", ReleaseYear: intPtr(2001), Genre: "Animation, Fantasy", Status: movie.StatusWatching},
}

var words = []string{"Silent", "Iron", "Hidden", "Last", "Glass", "Northern", "Burning", "Paper", "Distant", "Quiet"}

func intPtr(v int) *int { return &v }

func main() {
	var (
		email    = flag.String("email", "demo@example.com", "Demo account email")
		password = flag.String("password", "Demo#Pass123", "Demo account password")
		count    = flag.Int("count", 500, "Number of generated books for the demo account")
	)
	flag.Parse()

	config.LoadEnvFiles()
	logging.Init(logging.Config{Level: os.Getenv("LOG_LEVEL"), Format: "console"})

	if err := run(context.Background(), *email, *password, *count); err != nil {
		logging.Fatal().Err(err).Msg("seed failed")
	}
}

func run(ctx context.Context, email, password string, count int) error {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = config.Defaults().DBDSN
	}
	pool, err := postgres.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	timeout := 30 * time.Second
	users := user.NewService(user.NewPostgresRepo(pool, timeout))
	books := book.NewService(book.NewPostgresRepo(pool, timeout))
	movies := movie.NewService(movie.NewPostgresRepo(pool, timeout))

	u, err := users.Register(ctx, email, "demo", password)
	if errors.Is(err, user.ErrAlreadyExists) {
		u, err = users.Authenticate(ctx, email, password)
	}
	if err != nil {
		return fmt.Errorf("demo user: %w", err)
	}
	logging.Info().Str("user_id", u.ID).Str("email", u.Email).Msg("demo user ready")

	for _, in := range demoBooks {
		if _, err := books.Create(ctx, u.ID, in); err != nil {
			return fmt.Errorf("book %q: %w", in.Title, err)
		}
	}
	for _, in := range demoMovies {
		if _, err := movies.Create(ctx, u.ID, in); err != nil {
			return fmt.Errorf("movie %q: %w", in.Title, err)
		}
	}

	rows := generatedBooks(u.ID, count)
	n, err := pool.CopyFrom(ctx,
		pgx.Identifier{"books"},
		[]string{"user_id", "title", "author", "isbn", "status"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy generated books: %w", err)
	}

	logging.Info().
		Int("books", len(demoBooks)+int(n)).
		Int("movies", len(demoMovies)).
		Msg("seed complete")
	return nil
}

func generatedBooks(userID string, count int) [][]any {
	statuses := []string{book.StatusToRead, book.StatusReading, book.StatusFinished}
	rows := make([][]any, 0, count)
	for i := range count {
		title := fmt.Sprintf("%s %s %d", words[rand.IntN(len(words))], words[rand.IntN(len(words))], i+1)
		author := fmt.Sprintf("Author %d", rand.IntN(200)+1)
		rows = append(rows, []any{userID, title, author, syntheticISBN(i), statuses[rand.IntN(len(statuses))]})
	}
	return rows
}

// syntheticISBN builds a valid ISBN-13 in the 979 range from n.
func syntheticISBN(n int) string {
	body := fmt.Sprintf("979%09d", n%1_000_000_000)
	sum := 0
	for i, c := range body {
		d := int(c - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	code := body + strconv.Itoa((10-sum%10)%10)
	if !isbn.IsValid13(code) {
		panic("seed: generated invalid ISBN " + code)
	}
	return code
}
