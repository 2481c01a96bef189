// Package config reads evaluation settings from .properties files.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hscells/themeval"
	"github.com/hscells/themeval/eval"
	"github.com/hscells/themeval/output"
	"github.com/magiconair/properties"
	"github.com/pkg/errors"
)

// Keys understood in a properties file.
const (
	KeyReference      = "reference.path"
	KeyTaxonomy       = "taxonomy.dir"
	KeyCache          = "cache.dir"
	KeyDepths         = "eval.depths"
	KeyRuns           = "eval.runs"
	KeyConfusionDepth = "eval.confusion.depth"
	KeySortByScore    = "eval.sort_by_score"
	KeyFormat         = "output.format"
	KeyLabels         = "output.labels"
)

// FileName is the name of the per-user configuration file looked up in the home directory.
const FileName = ".themeval.properties"

// Config holds the settings of an evaluation.
type Config struct {
	ReferencePath  string
	TaxonomyDir    string
	CacheDir       string
	Depths         []int
	Runs           []themeval.Run
	ConfusionDepth int
	SortByScore    bool
	Format         string
	Labels         bool
}

// Default is the configuration used when nothing is set.
func Default() Config {
	return Config{
		ReferencePath:  filepath.Join("resources", "ref-rcan-themes.gob.gz"),
		Depths:         themeval.DefaultDepths(),
		Runs:           append([]themeval.Run(nil), themeval.Runs...),
		ConfusionDepth: eval.DefaultConfusionDepth,
		Format:         "text",
	}
}

// UserPath is the per-user configuration file, or "" when the home directory is unknown.
func UserPath() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, FileName)
}

// Load builds a configuration from the defaults, the per-user file if there is one, then the given files in order.
// Files named explicitly must exist.
func Load(paths ...string) (Config, error) {
	c := Default()
	if user := UserPath(); user != "" {
		if _, err := os.Stat(user); err == nil {
			var err error
			c, err = LoadFile(user, c)
			if err != nil {
				return Config{}, err
			}
		}
	}
	for _, path := range paths {
		var err error
		c, err = LoadFile(path, c)
		if err != nil {
			return Config{}, err
		}
	}
	return c, c.Validate()
}

// LoadFile overlays the properties file at path on base.
func LoadFile(path string, base Config) (Config, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return Config{}, errors.Wrap(err, "load configuration")
	}
	c, err := Apply(p, base)
	if err != nil {
		return Config{}, errors.Wrap(err, path)
	}
	return c, nil
}

// Apply overlays the keys set in p on base. Relative paths are kept as they are.
func Apply(p *properties.Properties, base Config) (Config, error) {
	c := base
	c.ReferencePath = p.GetString(KeyReference, c.ReferencePath)
	c.TaxonomyDir = p.GetString(KeyTaxonomy, c.TaxonomyDir)
	c.CacheDir = p.GetString(KeyCache, c.CacheDir)
	c.Format = p.GetString(KeyFormat, c.Format)

	if v, ok := p.Get(KeyDepths); ok {
		depths, err := ParseDepths(v)
		if err != nil {
			return Config{}, errors.Wrap(err, KeyDepths)
		}
		c.Depths = depths
	}
	if v, ok := p.Get(KeyRuns); ok {
		runs, err := ParseRuns(v)
		if err != nil {
			return Config{}, errors.Wrap(err, KeyRuns)
		}
		c.Runs = runs
	}
	if v, ok := p.Get(KeyConfusionDepth); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Config{}, errors.Wrapf(err, "%s", KeyConfusionDepth)
		}
		c.ConfusionDepth = n
	}
	for key, dst := range map[string]*bool{KeySortByScore: &c.SortByScore, KeyLabels: &c.Labels} {
		if v, ok := p.Get(key); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return Config{}, errors.Wrapf(err, "%s", key)
			}
			*dst = b
		}
	}
	return c, nil
}

// ParseDepths parses a comma separated list of evaluation depths.
func ParseDepths(s string) ([]int, error) {
	var depths []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.Errorf("invalid depth %q", part)
		}
		depths = append(depths, n)
	}
	return themeval.ValidateDepths(depths)
}

// ParseRuns parses a comma separated list of runs.
func ParseRuns(s string) ([]themeval.Run, error) {
	var runs []themeval.Run
	seen := make(map[themeval.Run]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, err := themeval.ParseRun(part)
		if err != nil {
			return nil, err
		}
		if !seen[r] {
			seen[r] = true
			runs = append(runs, r)
		}
	}
	if len(runs) == 0 {
		return nil, errors.New("no run given")
	}
	return runs, nil
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.ReferencePath == "" {
		return errors.New("no reference file configured")
	}
	if _, err := themeval.ValidateDepths(c.Depths); err != nil {
		return err
	}
	if len(c.Runs) == 0 {
		return errors.New("no run configured")
	}
	if c.ConfusionDepth < themeval.MinDepth || c.ConfusionDepth > themeval.MaxDepth {
		return errors.Errorf("confusion depth %d out of range [%d, %d]", c.ConfusionDepth, themeval.MinDepth, themeval.MaxDepth)
	}
	if _, err := output.GetFormatter(c.Format); err != nil {
		return err
	}
	return nil
}

// Option overrides a setting, typically from a command line flag.
type Option func(*Config)

// The string options below leave the setting unchanged when given an empty value, so that unset flags can be
// passed through as they are.

// Reference sets the reference file.
func Reference(path string) Option {
	return func(c *Config) {
		if len(path) > 0 {
			c.ReferencePath = path
		}
	}
}

// Taxonomy sets the taxonomy resource directory.
func Taxonomy(dir string) Option {
	return func(c *Config) {
		if len(dir) > 0 {
			c.TaxonomyDir = dir
		}
	}
}

// Cache sets the decode cache directory.
func Cache(dir string) Option {
	return func(c *Config) {
		if len(dir) > 0 {
			c.CacheDir = dir
		}
	}
}

// Format sets the output format.
func Format(name string) Option {
	return func(c *Config) {
		if len(name) > 0 {
			c.Format = name
		}
	}
}

// Depths sets the evaluation depths.
func Depths(depths []int) Option {
	return func(c *Config) {
		if len(depths) > 0 {
			c.Depths = depths
		}
	}
}

// Runs sets the runs to evaluate.
func Runs(runs []themeval.Run) Option {
	return func(c *Config) {
		if len(runs) > 0 {
			c.Runs = runs
		}
	}
}

// Labels turns on per-label statistics. False leaves the setting unchanged.
func Labels(on bool) Option {
	return func(c *Config) {
		c.Labels = c.Labels || on
	}
}

// SortByScore re-sorts rankings by score before truncation. False leaves the setting unchanged.
func SortByScore(on bool) Option {
	return func(c *Config) {
		c.SortByScore = c.SortByScore || on
	}
}

// With applies options and validates the result.
func (c Config) With(options ...Option) (Config, error) {
	for _, option := range options {
		option(&c)
	}
	return c, c.Validate()
}
