package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jlucaspains/sharp-cooking-api/internal/core/parser"
	"github.com/jlucaspains/sharp-cooking-api/internal/core/recipe"
)

// URLParser parses a recipe from a web page.
type URLParser interface {
	ParseURL(ctx context.Context, req recipe.ParseRequest) (*recipe.Recipe, error)
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Catalog *parser.UnitCatalog
	Recipes URLParser
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Ingredient  IngredientCmd  `cmd:"" help:"Parse ingredient lines into quantity and unit"`
	Instruction InstructionCmd `cmd:"" help:"Estimate minutes for instruction lines"`
	URL         URLCmd         `cmd:"" name:"url" help:"Scrape and parse a recipe web page"`
}

// IngredientCmd is the "ingredient" subcommand.
type IngredientCmd struct {
	Lines []string `arg:"" optional:"" help:"Ingredient lines; reads a newline-separated block from stdin when omitted"`
	Lang  string   `default:"en" help:"Language tag of the lines"`
}

// InstructionCmd is the "instruction" subcommand.
type InstructionCmd struct {
	Lines []string `arg:"" optional:"" help:"Instruction lines; reads a newline-separated block from stdin when omitted"`
	Lang  string   `default:"en" help:"Language tag of the lines"`
}

// URLCmd is the "url" subcommand.
type URLCmd struct {
	URL           string `arg:"" help:"Recipe page URL"`
	DownloadImage bool   `short:"d" help:"Embed the recipe image as a data URI"`
}

// Run executes the ingredient command.
func (c *IngredientCmd) Run(deps *Dependencies) error {
	if len(c.Lines) > 0 {
		return writeJSON(deps.Stdout, parser.ParseIngredientLines(c.Lines, c.Lang, deps.Catalog))
	}
	block, err := readBlock(deps.Stdin)
	if err != nil {
		return err
	}
	return writeJSON(deps.Stdout, parser.ParseIngredients(block, c.Lang, deps.Catalog))
}

// Run executes the instruction command.
func (c *InstructionCmd) Run(deps *Dependencies) error {
	if len(c.Lines) > 0 {
		return writeJSON(deps.Stdout, parser.ParseInstructionLines(c.Lines, c.Lang))
	}
	block, err := readBlock(deps.Stdin)
	if err != nil {
		return err
	}
	return writeJSON(deps.Stdout, parser.ParseInstructions(block, c.Lang))
}

// Run executes the url command.
func (c *URLCmd) Run(deps *Dependencies) error {
	r, err := deps.Recipes.ParseURL(deps.Ctx, recipe.ParseRequest{URL: c.URL, DownloadImage: c.DownloadImage})
	if err != nil {
		return err
	}
	return writeJSON(deps.Stdout, r)
}

// readBlock reads stdin, dropping one trailing newline so a piped file does not gain an empty line.
func readBlock(r io.Reader) (string, error) {
	if r == nil {
		return "", nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSuffix(strings.ReplaceAll(string(b), "\r\n", "\n"), "\n"), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
