// Prints the latest posts of the portfolio's Medium feed
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/olivierh59500/constellation/internal/blog"
)

func main() {
	feed := flag.String("feed", blog.DefaultFeed, "RSS feed URL")
	endpoint := flag.String("endpoint", blog.DefaultEndpoint, "rss2json endpoint")
	limit := flag.Int("limit", blog.DefaultLimit, "maximum number of posts")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	flag.Parse()

	c := &blog.Client{
		HTTP:     &http.Client{Timeout: *timeout},
		Endpoint: *endpoint,
		Limit:    *limit,
	}
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := printFeed(ctx, os.Stdout, c, *feed); err != nil {
		log.Printf("Blog fetch failed: %v", err)
		os.Exit(1)
	}
}

func printFeed(ctx context.Context, w io.Writer, c *blog.Client, feed string) error {
	cards, err := c.Fetch(ctx, feed)
	if err != nil {
		fmt.Fprintln(w, "Unable to load articles right now.")
		return err
	}
	for i, card := range cards {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, card)
	}
	return nil
}
