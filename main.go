package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/briangreenhill/pokedex/cache"
	"github.com/briangreenhill/pokedex/internal/dex"
	"github.com/briangreenhill/pokedex/pokeapi"
)

const version = "v0.1.0"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

type rootFlags struct {
	baseURL string
	verbose bool
}

func (f *rootFlags) client(errOut io.Writer) *pokeapi.Client {
	level := zerolog.WarnLevel
	if f.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: errOut}).Level(level).With().Timestamp().Logger()
	return pokeapi.New(
		pokeapi.WithBaseURL(f.baseURL),
		pokeapi.WithCache(cache.NewMemory()),
		pokeapi.WithLogger(logger),
	)
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:          "pokedex",
		Short:        "Browse the Pokémon catalog from the terminal",
		SilenceUsage: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVar(&flags.baseURL, "base-url", pokeapi.DefaultBaseURL, "Catalog API base URL")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log every catalog request")

	cmd.AddCommand(
		newShowCmd(flags),
		newSearchCmd(flags),
		newPageCmd(flags),
		newVersionCmd(),
	)
	return cmd
}

func newShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "show <id>",
		Short:   "Show one entry by catalog number",
		Example: `  pokedex show 25`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			p, err := flags.client(cmd.ErrOrStderr()).ResolveByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), pokeapi.FormatPokemon(p))
			return err
		},
	}
}

func newSearchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "search <name>",
		Short:   "Look up an entry by name",
		Example: `  pokedex search Pikachu`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := dex.New(flags.client(cmd.ErrOrStderr()))
			v := c.Search(cmd.Context(), args[0])
			if v.NotFound {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Pokémon not found.")
				return err
			}
			return printEntries(cmd.OutOrStdout(), v)
		},
	}
}

func newPageCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "page <n>",
		Short:   "List one page of the catalog",
		Example: `  pokedex page 1`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid page %q", args[0])
			}
			if last := (dex.TotalCount + dex.PageSize - 1) / dex.PageSize; n > last {
				return fmt.Errorf("page %d is out of range, last page is %d", n, last)
			}
			c := dex.New(flags.client(cmd.ErrOrStderr()), dex.WithOffset((n-1)*dex.PageSize))
			v := c.Load(cmd.Context())
			if len(v.Entries) == 0 {
				return fmt.Errorf("could not load page %d", n)
			}
			if err := printEntries(cmd.OutOrStdout(), v); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Page %d of %d\n", v.CurrentPage, v.TotalPages)
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "pokedex %s\n", version)
			return err
		},
	}
}

func printEntries(w io.Writer, v dex.View) error {
	for i, p := range v.Entries {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(w, pokeapi.FormatPokemon(p)); err != nil {
			return err
		}
	}
	return nil
}

