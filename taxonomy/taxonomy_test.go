package taxonomy_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hscells/themeval"
	"github.com/hscells/themeval/taxonomy"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	themesTSV = "0\tAucun\tnone\t1\n" +
		"1\tPolitique\tpolitics\t1\n" +
		"2\tSports\tsports\t0\n"
	subthemesTSV = "10\tÉlections\telections\t1\tfédérales et provinciales\n" +
		"\n" +
		"11\tHockey\thockey\t1\n" +
		"12\tArchives\tarchives\t0\n"
	relationsJSON = `[{"ThemeId": 1, "SubThemeIds": [10]}, {"ThemeId": "2", "SubThemeIds": ["11", 12]}]`
)

func writeResources(t *testing.T, relations string) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, taxonomy.ThemesFile), []byte(themesTSV), 0664))
	require.NoError(t, os.WriteFile(filepath.Join(dir, taxonomy.SubThemesFile), []byte(subthemesTSV), 0664))
	require.NoError(t, os.WriteFile(filepath.Join(dir, taxonomy.RelationsFile), []byte(relations), 0664))
	return dir
}

func TestLoad(t *testing.T) {
	tx, err := taxonomy.Load(writeResources(t, relationsJSON))
	require.NoError(t, err)

	th, ok := tx.Theme(2)
	require.True(t, ok)
	assert.Equal(t, "Sports", th.Name)
	assert.False(t, th.Active)
	assert.Equal(t, []themeval.LabelID{11, 12}, th.SubThemes)

	st, ok := tx.SubTheme(10)
	require.True(t, ok)
	assert.Equal(t, "elections", st.Codename)
	assert.Equal(t, "fédérales et provinciales", st.Comment)
	assert.Equal(t, themeval.LabelID(1), st.Theme)

	assert.Len(t, tx.Themes(), 3)
	assert.Equal(t, themeval.LabelID(0), tx.Themes()[0].ID)
	assert.Len(t, tx.SubThemes(), 3)

	assert.Equal(t, "Politique", tx.Name(themeval.Theme, 1))
	assert.Equal(t, "Hockey", tx.Name(themeval.SubThemes, 11))
	assert.Equal(t, "99", tx.Name(themeval.SubThemes, 99))
	assert.Equal(t, "politics", tx.Codename(themeval.Theme, 1))
	assert.Equal(t, "10", tx.Codename(themeval.Theme, 10))
}

func TestNilTaxonomyNames(t *testing.T) {
	var tx *taxonomy.Taxonomy
	assert.Equal(t, "4", tx.Name(themeval.Theme, 4))
	assert.Equal(t, "4", tx.Codename(themeval.SubThemes, 4))
}

func TestValidity(t *testing.T) {
	tx, err := taxonomy.Load(writeResources(t, relationsJSON))
	require.NoError(t, err)

	assert.True(t, tx.ValidTheme(1))
	assert.False(t, tx.ValidTheme(0))
	assert.False(t, tx.ValidTheme(2))
	assert.False(t, tx.ValidTheme(42))

	assert.True(t, tx.ValidSubThemes([]themeval.LabelID{10, 11}))
	assert.False(t, tx.ValidSubThemes([]themeval.LabelID{10, 12}))
	assert.False(t, tx.ValidSubThemes(nil))
}

func TestMultipleParents(t *testing.T) {
	_, err := taxonomy.Load(writeResources(t, `[{"ThemeId": 1, "SubThemeIds": [10]}, {"ThemeId": 2, "SubThemeIds": [10]}]`))
	require.Error(t, err)
	assert.Equal(t, taxonomy.ErrMultipleParents, errors.Cause(err))
}

func TestUnknownRelation(t *testing.T) {
	_, err := taxonomy.Load(writeResources(t, `[{"ThemeId": 7, "SubThemeIds": []}]`))
	assert.Error(t, err)
	_, err = taxonomy.Load(writeResources(t, `[{"ThemeId": 1, "SubThemeIds": [77]}]`))
	assert.Error(t, err)
}

func TestLoadMissing(t *testing.T) {
	_, err := taxonomy.Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "install the taxonomy resource files")
}

func TestReadThemesErrors(t *testing.T) {
	_, err := taxonomy.ReadThemes(strings.NewReader("1\tPolitique\n"))
	assert.Error(t, err)
	_, err = taxonomy.ReadThemes(strings.NewReader("x\tPolitique\tpolitics\t1\n"))
	assert.Error(t, err)
}

func TestParseRelationsErrors(t *testing.T) {
	_, err := taxonomy.ParseRelations([]byte(`{"ThemeId": 1}`))
	assert.Error(t, err)
	_, err = taxonomy.ParseRelations([]byte(`[{"ThemeId": "one"}]`))
	assert.Error(t, err)
}
