// catalog-dump fetches the remote catalog and prints it as JSON. Developer
// tool for inspecting what the storefront will serve.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/catalog"
)

func main() {
	var (
		baseURL  string
		category string
		timeout  time.Duration
	)

	flag.StringVar(&baseURL, "catalog-url", "https://fakestoreapi.com", "remote catalog API base URL")
	flag.StringVar(&category, "category", "", "limit dump to one category")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := catalog.NewClient(baseURL, timeout)

	var (
		products []catalog.Product
		err      error
	)
	if category != "" {
		products, err = client.ProductsByCategory(ctx, category)
	} else {
		products, err = client.Products(ctx)
	}
	if err != nil {
		slog.Error("Fetch catalog", "err", err)
		os.Exit(1)
	}

	e := &jx.Encoder{}
	e.SetIdent(2)
	e.Arr(func(e *jx.Encoder) {
		for _, p := range products {
			e.Obj(func(e *jx.Encoder) {
				e.Field("id", func(e *jx.Encoder) { e.Int(p.ID) })
				e.Field("title", func(e *jx.Encoder) { e.Str(p.Title) })
				e.Field("price", func(e *jx.Encoder) { e.Num(jx.Num(p.Price.String())) })
				e.Field("category", func(e *jx.Encoder) { e.Str(p.Category) })
				e.Field("rating", func(e *jx.Encoder) { e.Num(jx.Num(p.Rating.Rate.String())) })
			})
		}
	})
	fmt.Println(e.String())
}
