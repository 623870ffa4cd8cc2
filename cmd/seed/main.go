// Command seed loads sample data from csv files into the database.
// Files are expected to follow the fixture layout: category.csv,
// genre.csv, users.csv, titles.csv, genre_title.csv, review.csv and
// comments.csv, each with a header row. Rows that already exist are
// skipped, so the command is safe to re-run.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	var dsn, dir string
	flag.StringVar(&dsn, "dsn", "", "database connection string (defaults to DB_DSN)")
	flag.StringVar(&dir, "dir", "data", "directory with csv fixtures")
	flag.Parse()

	godotenv.Load()
	if dsn == "" {
		dsn = os.Getenv("DB_DSN")
	}
	if dsn == "" {
		log.Fatal("no dsn provided, set -dsn or DB_DSN")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer pool.Close()

	loaders := []struct {
		file string
		cols int
		load func(ctx context.Context, row []string) error
	}{
		{"category.csv", 3, func(ctx context.Context, row []string) error {
			_, err := pool.Exec(ctx,
				`INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
				row[0], row[1], row[2])
			return err
		}},
		{"genre.csv", 3, func(ctx context.Context, row []string) error {
			_, err := pool.Exec(ctx,
				`INSERT INTO genres (id, name, slug) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
				row[0], row[1], row[2])
			return err
		}},
		{"users.csv", 7, func(ctx context.Context, row []string) error {
			_, err := pool.Exec(ctx,
				`INSERT INTO users (id, username, email, role, bio, first_name, last_name)
				VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''))
				ON CONFLICT DO NOTHING`,
				row[0], row[1], row[2], row[3], row[4], row[5], row[6])
			return err
		}},
		{"titles.csv", 4, func(ctx context.Context, row []string) error {
			_, err := pool.Exec(ctx,
				`INSERT INTO titles (id, name, year, category_id) VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`,
				row[0], row[1], row[2], row[3])
			return err
		}},
		{"genre_title.csv", 3, func(ctx context.Context, row []string) error {
			_, err := pool.Exec(ctx,
				`INSERT INTO genres_titles (title_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				row[1], row[2])
			return err
		}},
		{"review.csv", 6, func(ctx context.Context, row []string) error {
			_, err := pool.Exec(ctx,
				`INSERT INTO reviews (id, title_id, text, author_id, score, created_at)
				VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT DO NOTHING`,
				row[0], row[1], row[2], row[3], row[4], row[5])
			return err
		}},
		{"comments.csv", 5, func(ctx context.Context, row []string) error {
			_, err := pool.Exec(ctx,
				`INSERT INTO comments (id, review_id, text, author_id, created_at)
				VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`,
				row[0], row[1], row[2], row[3], row[4])
			return err
		}},
	}

	for _, l := range loaders {
		n, err := loadFile(ctx, filepath.Join(dir, l.file), l.cols, l.load)
		if err != nil {
			log.Fatalf("%s: %v", l.file, err)
		}
		log.Printf("%s: loaded %d rows", l.file, n)
	}

	if err := resetSequences(ctx, pool); err != nil {
		log.Fatalf("failed to reset sequences: %v", err)
	}
	log.Print("done")
}

func loadFile(ctx context.Context, path string, cols int, load func(ctx context.Context, row []string) error) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	if _, err := reader.Read(); err != nil { // header
		return 0, err
	}
	var n int
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, err
		}
		if len(row) < cols {
			return n, fmt.Errorf("row %d: expected %d columns, got %d", n+1, cols, len(row))
		}
		if err := load(ctx, row); err != nil {
			return n, fmt.Errorf("row %d: %w", n+1, err)
		}
		n++
	}
	return n, nil
}

// resetSequences bumps each id sequence past the highest inserted id so
// subsequent inserts through the api do not collide with fixture rows.
func resetSequences(ctx context.Context, pool *pgxpool.Pool) error {
	tables := []string{"categories", "genres", "users", "titles", "reviews", "comments"}
	for _, table := range tables {
		query := fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 1)) FROM %s`,
			table, table,
		)
		if _, err := pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("%s: %w", table, err)
		}
	}
	return nil
}
