// Command catalogctl queries the board game catalog from a terminal using
// the same source configuration as the server.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"boardgame-catalog/config"
	"boardgame-catalog/internal/browse"
	"boardgame-catalog/internal/catalog"
	"boardgame-catalog/internal/catalog/source"
	"boardgame-catalog/internal/logging"
	"boardgame-catalog/internal/render"
)

var rootCmd = &cobra.Command{
	Use:           "catalogctl",
	Short:         "Browse the board game catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var listFlags struct {
	search       string
	genre        string
	sort         string
	playersFrom  string
	playersTo    string
	playtimeFrom string
	playtimeTo   string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List games matching the given filters",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "Print the genre options",
	Args:  cobra.NoArgs,
	RunE:  runGenres,
}

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show the details of one game",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	f := listCmd.Flags()
	f.StringVar(&listFlags.search, "q", "", "search title and description")
	f.StringVar(&listFlags.genre, "genre", catalog.GenreAll, "exact genre")
	f.StringVar(&listFlags.sort, "sort", string(catalog.SortNone), "none, title, playtime-desc or rating-desc")
	f.StringVar(&listFlags.playersFrom, "players-from", "", "lowest player count")
	f.StringVar(&listFlags.playersTo, "players-to", "", "highest player count")
	f.StringVar(&listFlags.playtimeFrom, "playtime-from", "", "shortest playtime in minutes")
	f.StringVar(&listFlags.playtimeTo, "playtime-to", "", "longest playtime in minutes")

	rootCmd.AddCommand(listCmd, genresCmd, showCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newController loads the catalog once and wires it to the text renderer.
// Unlike the server, a failed load is an error here.
func newController(ctx context.Context) (*browse.Controller, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.NewWithWriter(os.Stderr, cfg.Environment, cfg.LogLevel)

	src, err := source.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := catalog.NewStore(logger)
	if err := store.Load(ctx, src); err != nil {
		return nil, err
	}

	engine := catalog.NewEngineForLanguage(cfg.CollationLanguage)
	return browse.NewController(store, engine, render.NewText(cfg.FeaturedBadge), cfg.FeaturedGameID), nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctrl, err := newController(cmd.Context())
	if err != nil {
		return err
	}

	criteria := browse.CriteriaFromValues(map[string][]string{
		browse.ParamSearch:       {listFlags.search},
		browse.ParamGenre:        {listFlags.genre},
		browse.ParamSort:         {listFlags.sort},
		browse.ParamPlayersFrom:  {listFlags.playersFrom},
		browse.ParamPlayersTo:    {listFlags.playersTo},
		browse.ParamPlaytimeFrom: {listFlags.playtimeFrom},
		browse.ParamPlaytimeTo:   {listFlags.playtimeTo},
	})

	out := cmd.OutOrStdout()
	if criteria.IsDefault() {
		if err := ctrl.RenderFeatured(out); err != nil {
			return err
		}
	}
	_, err = ctrl.Update(out, criteria)
	return err
}

func runGenres(cmd *cobra.Command, args []string) error {
	ctrl, err := newController(cmd.Context())
	if err != nil {
		return err
	}

	for _, g := range ctrl.GenreOptions() {
		fmt.Fprintln(cmd.OutOrStdout(), g)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("game id must be an integer: %q", args[0])
	}

	ctrl, err := newController(cmd.Context())
	if err != nil {
		return err
	}

	found, err := ctrl.Detail(cmd.OutOrStdout(), id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("game %d not found", id)
	}
	return nil
}
