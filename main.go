// Package main provides the entry point for the WordWeave CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	gap "github.com/muesli/go-app-paths"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/cmurphy1140/WordWeave-sub001/internal/cache"
	"github.com/cmurphy1140/WordWeave-sub001/internal/generate"
	"github.com/cmurphy1140/WordWeave-sub001/utils"
)

const appName = "wordweave"

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	width      uint
	copyPoem   bool
	refresh    bool
	analyze    bool

	rootCmd = &cobra.Command{
		Use:   "wordweave VERB ADJECTIVE NOUN",
		Short: "Turn three words into a poem, with a warm local cache",
		Long: paragraph(
			fmt.Sprintf("\nTurn three words into a %s. Generated poems and their visual-theme analyses are cached locally, so asking for the same words again is instant and free.", keyword("poem")),
		),
		Example:          "  wordweave dance ethereal moonlight\n  wordweave dance ethereal moonlight --analyze --copy",
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.ExactArgs(3),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

// envOverrides are runtime settings read from the environment. They take
// precedence over the config file but not over explicit flags.
type envOverrides struct {
	APIURL   string `env:"WORDWEAVE_API_URL"`
	CacheDir string `env:"WORDWEAVE_CACHE_DIR"`
}

func validateOptions(cmd *cobra.Command) error {
	width = viper.GetUint("width")

	overrides, err := env.ParseAs[envOverrides]()
	if err != nil {
		return fmt.Errorf("error parsing environment: %w", err)
	}
	if overrides.APIURL != "" {
		viper.Set("api.url", overrides.APIURL)
	}
	if overrides.CacheDir != "" {
		viper.Set("cache.dir", overrides.CacheDir)
	}

	if viper.GetString("api.url") == "" {
		return fmt.Errorf("no backend configured: set api.url in the config file or WORDWEAVE_API_URL")
	}

	applyLogLevel()

	// Word-wrap at the terminal width unless one was given explicitly.
	if !cmd.Flags().Changed("width") && width == 0 {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				width = uint(w) //nolint:gosec
			}
		}
		if width > 100 {
			width = 100
		}
		if width == 0 {
			width = 80
		}
	}
	return nil
}

func execute(cmd *cobra.Command, args []string) error {
	for _, arg := range args {
		if strings.ContainsAny(arg, " \t") {
			return fmt.Errorf("words cannot contain spaces: %q", arg)
		}
	}
	in := cache.Input{Verb: args[0], Adjective: args[1], Noun: args[2]}

	svc, err := newCacheService()
	if err != nil {
		return err
	}
	applyPreferences(svc, cmd.Flags().Changed("width"), cmd.Flags().Changed("analyze"))

	client := newBackendClient()
	ctx := cmd.Context()

	poem, hit := cache.GetValue[generate.Poem](svc, cache.CategoryPoems, in)
	if refresh || !hit {
		p, err := client.GeneratePoem(ctx, in)
		if err != nil {
			return fmt.Errorf("unable to generate poem: %w", err)
		}
		poem = *p
		if err := cache.PutValue(svc, cache.CategoryPoems, in, poem); err != nil {
			log.Warn("could not cache poem", "error", err)
		}
	} else {
		log.Debug("poem served from cache", "input", in.String())
	}

	printPoem(poem, hit && !refresh)

	if copyPoem {
		if err := clipboard.WriteAll(poem.Poem); err != nil {
			log.Warn("could not copy poem to clipboard", "error", err)
		} else {
			fmt.Println(subtle("Copied poem to clipboard."))
		}
	}

	if analyze {
		theme, hit := cache.GetValue[generate.ThemeAnalysis](svc, cache.CategoryThemes, in)
		if refresh || !hit {
			a, err := client.AnalyzeTheme(ctx, poem.Poem)
			if err != nil {
				return fmt.Errorf("unable to analyze theme: %w", err)
			}
			theme = *a
			if err := cache.PutValue(svc, cache.CategoryThemes, in, theme); err != nil {
				log.Warn("could not cache theme analysis", "error", err)
			}
		}
		printTheme(theme)
	}

	rememberPreferences(svc, cmd.Flags().Changed("width"))
	return nil
}

// preferences are the sticky per-user defaults kept in the
// user-preferences category. The category holds a single entry; its key
// just needs to be stable across runs.
type preferences struct {
	Width   uint `json:"width"`
	Analyze bool `json:"analyze"`
}

var preferencesInput = cache.Input{Verb: "remember", Adjective: "local", Noun: "defaults"}

// applyPreferences fills in defaults from the cached preferences for flags
// the user did not pass on this run. Only widths the user once set
// explicitly are remembered, so a remembered width beats the detected one.
func applyPreferences(svc *cache.Service, widthSet, analyzeSet bool) {
	prefs, ok := cache.GetValue[preferences](svc, cache.CategoryPreferences, preferencesInput)
	if !ok {
		return
	}
	if !widthSet && prefs.Width > 0 {
		width = prefs.Width
	}
	if !analyzeSet {
		analyze = prefs.Analyze
	}
}

// rememberPreferences stores the run's choices as the next run's defaults.
func rememberPreferences(svc *cache.Service, widthSet bool) {
	prefs, _ := cache.GetValue[preferences](svc, cache.CategoryPreferences, preferencesInput)
	if widthSet {
		prefs.Width = width
	}
	prefs.Analyze = analyze
	if err := cache.PutValue(svc, cache.CategoryPreferences, preferencesInput, prefs); err != nil {
		log.Debug("could not remember preferences", "error", err)
	}
}

func printPoem(p generate.Poem, cached bool) {
	fmt.Println()
	fmt.Println(indent.String(poemStyle.Render(wordwrap.String(p.Poem, int(width)-2)), 2)) //nolint:gosec
	fmt.Println()

	footer := p.Theme
	if p.Metadata.Emotion != "" {
		footer += " · " + p.Metadata.Emotion
	}
	if cached {
		footer += " · cached"
	}
	fmt.Println(indent.String(subtle(footer), 2))
}

func printTheme(t generate.ThemeAnalysis) {
	fmt.Println()
	fmt.Println(indent.String(keyword("Theme analysis"), 2))
	fmt.Println(indent.String(fmt.Sprintf("emotion:   %s (%.1f)", t.Emotion.Primary, t.Emotion.Intensity), 2))

	swatches := make([]string, 0, len(t.Colors.Palette))
	for _, c := range t.Colors.Palette {
		swatches = append(swatches, c.Hex)
	}
	fmt.Println(indent.String("palette:   "+strings.Join(swatches, " "), 2))
	fmt.Println(indent.String(fmt.Sprintf("animation: %s/%s, %dms", t.Animation.Style, t.Animation.MovementType, t.Animation.Timing.DurationMS), 2))
	fmt.Println(indent.String(fmt.Sprintf("type:      %s, weight %d", t.Typography.Mood, t.Typography.FontWeight), 2))
}

// newCacheService builds the artifact cache from configuration: durable
// blob under the user cache dir unless overridden.
func newCacheService() (*cache.Service, error) {
	path := utils.ExpandPath(viper.GetString("cache.dir"))
	if path == "" {
		scope := gap.NewScope(gap.User, appName)
		dir, err := scope.CacheDir()
		if err != nil {
			return nil, fmt.Errorf("unable to resolve cache directory: %w", err)
		}
		path = dir
	}
	path = filepath.Join(path, "artifacts.cache")

	adapter, err := cache.NewFileAdapter(path, viper.GetInt("cache.compression"))
	if err != nil {
		return nil, fmt.Errorf("unable to open artifact cache: %w", err)
	}
	svc, err := cache.New(categoriesFromConfig(), adapter)
	if err != nil {
		return nil, fmt.Errorf("unable to build artifact cache: %w", err)
	}
	return svc, nil
}

// categoriesFromConfig returns the default category table with any
// per-category overrides from the config file applied.
func categoriesFromConfig() []cache.Category {
	cats := cache.DefaultCategories()
	for i, c := range cats {
		key := "cache.categories." + c.Name
		if n := viper.GetInt(key + ".max_items"); n > 0 {
			cats[i].MaxItems = n
		}
		if d := viper.GetDuration(key + ".ttl"); d > 0 {
			cats[i].TTL = d
		}
	}
	return cats
}

func newBackendClient() *generate.Client {
	return generate.NewClient(generate.ClientConfig{
		BaseURL:           viper.GetString("api.url"),
		Timeout:           viper.GetDuration("api.timeout"),
		RequestsPerSecond: viper.GetFloat64("api.requests_per_second"),
	})
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().UintVarP(&width, "width", "w", 0, "word-wrap at width (set to 0 for terminal width)")
	rootCmd.Flags().BoolVarP(&copyPoem, "copy", "c", false, "copy the poem to the clipboard")
	rootCmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "bypass the cache read and regenerate")
	rootCmd.Flags().BoolVarP(&analyze, "analyze", "a", false, "also derive the visual-theme analysis")

	// Config bindings
	_ = viper.BindPFlag("width", rootCmd.Flags().Lookup("width"))

	viper.SetDefault("width", 0)
	viper.SetDefault("api.url", "https://api.wordweave.dev")
	viper.SetDefault("api.timeout", generate.DefaultTimeout)
	viper.SetDefault("api.requests_per_second", generate.DefaultRequestsPerSecond)
	viper.SetDefault("cache.dir", "")
	viper.SetDefault("cache.compression", 3)
	viper.SetDefault("log.level", "")

	rootCmd.AddCommand(configCmd, manCmd, cacheCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, appName)
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, appName)}, dirs...)
	}

	if c := os.Getenv("WORDWEAVE_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName(appName)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix(appName)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		viper.OnConfigChange(func(e fsnotify.Event) {
			applyLogLevel()
			log.Debug("Configuration reloaded", "file", e.Name)
		})
		viper.WatchConfig()
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], appName+".yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
