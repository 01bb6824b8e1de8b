package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/cmurphy1140/WordWeave-sub001/internal/cache"
)

var clearAll bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the artifact cache",
	Args:  cobra.NoArgs,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-category entry counts and cache size",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		svc, err := newCacheService()
		if err != nil {
			return err
		}

		stats := svc.Stats()
		names := make([]string, 0, len(stats.Counts))
		for name := range stats.Counts {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Printf("%s %d\n", runewidth.FillRight(name, 20), stats.Counts[name])
		}
		fmt.Printf("%s %d\n", runewidth.FillRight("total", 20), stats.Total())
		fmt.Printf("%s %s\n", runewidth.FillRight("serialized size", 20), humanize.Bytes(uint64(stats.SerializedBytes))) //nolint:gosec
		return nil
	},
}

var cacheListCmd = &cobra.Command{
	Use:   "list [CATEGORY]",
	Short: "List cached entries, most recent first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		category := cache.CategoryPoems
		if len(args) == 1 {
			category = args[0]
		}

		svc, err := newCacheService()
		if err != nil {
			return err
		}

		items := svc.ListAll(category)
		if len(items) == 0 {
			fmt.Println(subtle("Nothing cached in " + category + "."))
			return nil
		}
		for _, item := range items {
			words := runewidth.Truncate(item.Input.String(), 36, "…")
			fmt.Printf("%s %s\n", runewidth.FillRight(words, 38), subtle(humanize.Time(item.WrittenAt)))
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [CATEGORY]",
	Short: "Drop one category, or everything with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if clearAll == (len(args) == 1) {
			return fmt.Errorf("name a category or pass --all")
		}

		svc, err := newCacheService()
		if err != nil {
			return err
		}

		if clearAll {
			svc.ClearAll()
			fmt.Println("Cleared the whole artifact cache.")
			return nil
		}
		svc.Clear(args[0])
		fmt.Println("Cleared category:", args[0])
		return nil
	},
}

var cacheWarmCmd = &cobra.Command{
	Use:   "warm FILE",
	Short: "Pre-generate poems for word triples listed in FILE",
	Long: paragraph(
		fmt.Sprintf("\n%s the poem cache from a file of candidate word triples, one per line: VERB ADJECTIVE NOUN. Lines starting with # are skipped. Triples already cached are not regenerated; a triple that fails to generate is skipped, not fatal.", keyword("Warm")),
	),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		candidates, err := readCandidates(args[0])
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			fmt.Println(subtle("No candidates found."))
			return nil
		}

		svc, err := newCacheService()
		if err != nil {
			return err
		}
		client := newBackendClient()

		produce := func(ctx context.Context, in cache.Input) (json.RawMessage, error) {
			poem, err := client.GeneratePoem(ctx, in)
			if err != nil {
				return nil, err
			}
			return json.Marshal(poem)
		}

		warmed := svc.Warm(cmd.Context(), cache.CategoryPoems, candidates, produce)
		fmt.Printf("Warmed %d of %d candidates.\n", warmed, len(candidates))
		return nil
	},
}

// readCandidates parses a warm file: one word triple per line.
func readCandidates(path string) ([]cache.Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open candidates file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var candidates []cache.Input
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		words := strings.Fields(text)
		if len(words) != 3 {
			return nil, fmt.Errorf("line %d: want VERB ADJECTIVE NOUN, got %q", line, text)
		}
		candidates = append(candidates, cache.Input{Verb: words[0], Adjective: words[1], Noun: words[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("unable to read candidates file: %w", err)
	}
	return candidates, nil
}

func init() {
	cacheClearCmd.Flags().BoolVar(&clearAll, "all", false, "clear every category")
	cacheCmd.AddCommand(cacheStatsCmd, cacheListCmd, cacheClearCmd, cacheWarmCmd)
}
