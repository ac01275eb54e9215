// Command finder runs a restaurant search against the API and prints the results,
// following pagination cursors.
//
//	finder -server http://localhost:8080 -pages 3 "cheap sushi in New York"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"

	"github.com/octobees/restaurant-finder/api/internal/client"
	"github.com/octobees/restaurant-finder/api/internal/dto"
	"github.com/octobees/restaurant-finder/api/internal/render"
)

func main() {
	server := flag.String("server", envOr("FINDER_SERVER", "http://localhost:8080"), "API base URL")
	pages := flag.Int("pages", 1, "maximum number of pages to fetch")
	timeout := flag.Duration("timeout", time.Minute, "overall deadline")
	flag.Parse()

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: finder [-server URL] [-pages N] <query>")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	c, err := client.New(nil, *server)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(ctx, c, os.Stdout, query, *pages); err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.NotRestaurant {
			fmt.Fprintln(os.Stderr, apiErr.Message)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "search failed: %v\n", err)
		os.Exit(1)
	}
}

// run fetches up to maxPages pages, echoing the cursor and params of each page back.
func run(ctx context.Context, c client.Searcher, w io.Writer, query string, maxPages int) error {
	if maxPages < 1 {
		maxPages = 1
	}
	keyword := ""
	req := dto.SearchRequest{Query: query}
	count := 0

	for page := 1; page <= maxPages; page++ {
		resp, err := c.Execute(ctx, req, uuid.NewString())
		if err != nil {
			return err
		}
		if keyword == "" && resp.Params.Parameters.Query != nil {
			keyword = *resp.Params.Parameters.Query
		}

		for _, r := range resp.Results {
			count++
			fmt.Fprintf(w, "%d. ", count)
			if err := render.Card(w, r, keyword); err != nil {
				return err
			}
			fmt.Fprintln(w)
		}

		if resp.NextCursor == nil {
			break
		}
		params := resp.Params
		req = dto.SearchRequest{Query: query, Cursor: *resp.NextCursor, Params: &params}
	}

	if count == 0 {
		fmt.Fprintln(w, "No restaurants found.")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
