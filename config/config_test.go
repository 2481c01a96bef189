package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hscells/themeval"
	"github.com/hscells/themeval/config"
	"github.com/magiconair/properties"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := config.Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, c.Depths)
	assert.Equal(t, []themeval.Run{themeval.Theme, themeval.SubThemes}, c.Runs)
	assert.Equal(t, 1, c.ConfusionDepth)
	assert.Equal(t, "text", c.Format)
	assert.False(t, c.Labels)
	assert.False(t, c.SortByScore)
	assert.Empty(t, c.CacheDir)
}

func TestApply(t *testing.T) {
	p := properties.MustLoadString(`
reference.path = /data/ref.gob.zst
taxonomy.dir = /data/taxonomy
cache.dir = /tmp/themeval
eval.depths = 3, 1, 1
eval.runs = sub_themes
eval.confusion.depth = 2
eval.sort_by_score = true
output.format = json
output.labels = true
`)
	c, err := config.Apply(p, config.Default())
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.Equal(t, "/data/ref.gob.zst", c.ReferencePath)
	assert.Equal(t, "/data/taxonomy", c.TaxonomyDir)
	assert.Equal(t, "/tmp/themeval", c.CacheDir)
	assert.Equal(t, []int{1, 3}, c.Depths)
	assert.Equal(t, []themeval.Run{themeval.SubThemes}, c.Runs)
	assert.Equal(t, 2, c.ConfusionDepth)
	assert.True(t, c.SortByScore)
	assert.Equal(t, "json", c.Format)
	assert.True(t, c.Labels)
}

func TestApplyKeepsUnsetKeys(t *testing.T) {
	base := config.Default()
	base.TaxonomyDir = "tax"
	c, err := config.Apply(properties.MustLoadString("output.format = csv\n"), base)
	require.NoError(t, err)
	assert.Equal(t, "tax", c.TaxonomyDir)
	assert.Equal(t, base.Depths, c.Depths)
	assert.Equal(t, "csv", c.Format)
}

func TestApplyInvalid(t *testing.T) {
	for name, src := range map[string]string{
		"depth out of range": "eval.depths = 0,1\n",
		"depth not a number": "eval.depths = one\n",
		"no depth":           "eval.depths = ,\n",
		"unknown run":        "eval.runs = topics\n",
		"confusion depth":    "eval.confusion.depth = x\n",
		"labels":             "output.labels = maybe\n",
		"sort by score":      "eval.sort_by_score = 2\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := config.Apply(properties.MustLoadString(src), config.Default())
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	c := config.Default()
	c.Format = "xml"
	assert.Error(t, c.Validate())

	c = config.Default()
	c.ConfusionDepth = 6
	assert.Error(t, c.Validate())

	c = config.Default()
	c.ReferencePath = ""
	assert.Error(t, c.Validate())

	c = config.Default()
	c.Runs = nil
	assert.Error(t, c.Validate())
}

func TestLoadFilePrecedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, config.FileName),
		[]byte("output.format = yaml\ntaxonomy.dir = home-tax\n"), 0644))

	explicit := filepath.Join(t.TempDir(), "eval.properties")
	require.NoError(t, os.WriteFile(explicit, []byte("output.format = csv\n"), 0644))

	c, err := config.Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, "csv", c.Format)
	assert.Equal(t, "home-tax", c.TaxonomyDir)

	c, err = c.With(config.Format("json"), config.Labels(true), config.Reference("r.gob.gz"))
	require.NoError(t, err)
	assert.Equal(t, "json", c.Format)
	assert.True(t, c.Labels)
	assert.Equal(t, "r.gob.gz", c.ReferencePath)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.properties"))
	assert.Error(t, err)
}

func TestWithInvalidOption(t *testing.T) {
	_, err := config.Default().With(config.Format("html"))
	assert.Error(t, err)
}

func TestEmptyOptionsKeepSettings(t *testing.T) {
	base := config.Default()
	base.TaxonomyDir = "tax"
	base.Labels = true
	c, err := base.With(config.Reference(""), config.Taxonomy(""), config.Cache(""), config.Format(""),
		config.Depths(nil), config.Runs(nil), config.Labels(false), config.SortByScore(false))
	require.NoError(t, err)
	assert.Equal(t, base, c)

	c, err = base.With(config.Depths([]int{2}), config.Runs([]themeval.Run{themeval.Theme}), config.Cache("c"))
	require.NoError(t, err)
	assert.Equal(t, []int{2}, c.Depths)
	assert.Equal(t, []themeval.Run{themeval.Theme}, c.Runs)
	assert.Equal(t, "c", c.CacheDir)
}
