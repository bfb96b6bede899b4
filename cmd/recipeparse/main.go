package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/jlucaspains/sharp-cooking-api/internal/core/image"
	"github.com/jlucaspains/sharp-cooking-api/internal/core/parser"
	"github.com/jlucaspains/sharp-cooking-api/internal/core/recipe"
	"github.com/jlucaspains/sharp-cooking-api/internal/core/scraper"
	"github.com/jlucaspains/sharp-cooking-api/internal/infrastructure/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Unit catalog shared by every command.
	Catalog *parser.UnitCatalog

	// Recipes parses web pages. Wired from config when nil.
	Recipes URLParser
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Catalog: parser.DefaultUnitCatalog(),
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:     ctx,
		Stdin:   stdin,
		Stdout:  stdout,
		Stderr:  stderr,
		Catalog: m.Catalog,
	}

	cli := &CLI{}
	p, err := kong.New(cli,
		kong.Name("recipeparse"),
		kong.Description("Parse recipe ingredient and instruction lines."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = p.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'recipeparse --help' to see available commands")
	}

	switch args[0] {
	case "help", "--help", "-h":
		_, _ = p.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := p.Parse(args)
	if err != nil {
		return err
	}

	if args[0] == "url" {
		if m.Recipes == nil {
			svc, closeFn, err := newRecipeService(m.Catalog)
			if err != nil {
				return err
			}
			defer closeFn()
			m.Recipes = svc
		}
		deps.Recipes = m.Recipes
	}

	return kongCtx.Run()
}

// newRecipeService wires the scraper the same way the API server does, without a cache.
// The returned func stops the host limiter.
func newRecipeService(catalog *parser.UnitCatalog) (*recipe.Service, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	client := scraper.NewClient(cfg.Scraper)
	limiter := scraper.NewHostLimiter(cfg.Scraper.HostRPS)
	s := scraper.NewHTMLScraper(client, limiter)
	return recipe.NewService(s, image.NewService(cfg.Image, client), nil, catalog, cfg.Backup.Workers), limiter.Close, nil
}
