package lint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/shapelint/internal"
	tt "github.com/gnolang/shapelint/internal/types"
)

// DefaultConfigFile is the config file looked up when none is given.
const DefaultConfigFile = ".shapelint.yaml"

type LintEngine interface {
	Run(filePath string) ([]tt.Issue, error)
	RunSource(source []byte) ([]tt.Issue, error)
	IgnoreRule(rule string)
	IgnorePath(path string)
}

// New builds an engine from the config file at configurationPath. An empty
// path means the built-in defaults.
func New(configurationPath string, opts ...internal.Option) (*internal.Engine, error) {
	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, err
	}

	engine, err := internal.NewEngine(config.Rules, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configurationPath, err)
	}
	for _, rule := range config.Ignore {
		engine.IgnoreRule(rule)
	}
	for _, path := range config.IgnorePaths {
		engine.IgnorePath(path)
	}
	return engine, nil
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	sources [][]byte,
	processor func(LintEngine, []byte) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return allIssues, err
		}
		issues, err := processor(engine, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	paths []string,
	processor func(LintEngine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var allIssues []tt.Issue
	for _, path := range paths {
		issues, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return allIssues, err
		}
		allIssues = append(allIssues, issues...)
	}

	return allIssues, nil
}

// ProcessPath lints a file, or every .go and .gno file below a directory
// using one worker per CPU. Files that fail to lint are logged and skipped.
// When ctx is cancelled the issues found so far are returned with ctx's
// error. Issues are ordered by file and position.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	path string,
	processor func(LintEngine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !hasDesiredExtension(path) {
			return nil, nil
		}
		return processor(engine, path)
	}

	files, err := collectFiles(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return []tt.Issue{}, nil
	}

	bar := newProgressBar(len(files), path)
	results := make([][]tt.Issue, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(runtime.NumCPU(), len(files)))

	for i, fp := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			defer bar.Add(1)

			fileIssues, err := processor(engine, fp)
			if err != nil {
				logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				return nil
			}
			results[i] = fileIssues
			return nil
		})
	}
	waitErr := g.Wait()
	_ = bar.Finish()

	issues := []tt.Issue{}
	for _, r := range results {
		issues = append(issues, r...)
	}
	sortIssues(issues)

	if err := ctx.Err(); err != nil {
		return issues, err
	}
	return issues, waitErr
}

// collectFiles returns the lintable files below root in lexical order.
// Hidden directories are skipped.
func collectFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if hasDesiredExtension(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", root, err)
	}
	return files, nil
}

// newProgressBar draws on stderr when it is a terminal and discards
// otherwise.
func newProgressBar(total int, description string) *progressbar.ProgressBar {
	var w io.Writer = io.Discard
	if term.IsTerminal(int(os.Stderr.Fd())) {
		w = os.Stderr
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func sortIssues(issues []tt.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Start.Offset != b.Start.Offset {
			return a.Start.Offset < b.Start.Offset
		}
		return a.Rule < b.Rule
	})
}

func ProcessFile(engine LintEngine, filePath string) ([]tt.Issue, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine LintEngine, source []byte) ([]tt.Issue, error) {
	return engine.RunSource(source)
}

var desiredExtensions = map[string]bool{
	".go":  true,
	".gno": true,
}

func hasDesiredExtension(path string) bool {
	return desiredExtensions[filepath.Ext(path)]
}

// Config represents the overall configuration with a name and the per-rule
// settings.
type Config struct {
	Name        string                   `yaml:"name" toml:"name"`
	Rules       map[string]tt.ConfigRule `yaml:"rules" toml:"rules"`
	Ignore      []string                 `yaml:"ignore,omitempty" toml:"ignore,omitempty"`
	IgnorePaths []string                 `yaml:"ignore-paths,omitempty" toml:"ignore-paths,omitempty"`
}

var errUnknownConfigFormat = errors.New("unknown config format")

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) config file. An
// empty path yields the zero Config.
func LoadConfig(configurationPath string) (Config, error) {
	var config Config
	if configurationPath == "" {
		return config, nil
	}

	switch strings.ToLower(filepath.Ext(configurationPath)) {
	case ".toml":
		if _, err := toml.DecodeFile(configurationPath, &config); err != nil {
			return config, fmt.Errorf("error parsing %s: %w", configurationPath, err)
		}
	case ".yaml", ".yml", "":
		f, err := os.Open(configurationPath)
		if err != nil {
			return config, err
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&config); err != nil && !errors.Is(err, io.EOF) {
			return config, fmt.Errorf("error parsing %s: %w", configurationPath, err)
		}
	default:
		return config, fmt.Errorf("%s: %w", configurationPath, errUnknownConfigFormat)
	}

	return config, nil
}

// WriteConfig stores config at path in the format its extension selects.
func WriteConfig(path string, config Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.NewEncoder(f).Encode(config)
	default:
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		err = enc.Encode(config)
		if err == nil {
			err = enc.Close()
		}
	}
	if err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return f.Close()
}
