package urlpool

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPool(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "url_pool.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadParsesPoolFile(t *testing.T) {
	path := writeTestPool(t, `{
		"total": 2,
		"hosts": 1,
		"urls_by_host": {"a.example.com": ["/x", "/y"]}
	}`)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Total)
	assert.Equal(t, []string{"a.example.com"}, p.Hosts())
}

func TestLoadMissingFileIsFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestGetRandomLinksProducesWellFormedURLs(t *testing.T) {
	path := writeTestPool(t, `{
		"total": 2,
		"hosts": 1,
		"urls_by_host": {"a.example.com": ["/x?q=1", "/y"]}
	}`)
	p, err := Load(path)
	require.NoError(t, err)

	links := p.GetRandomLinks(5, rand.New(rand.NewSource(42)))
	assert.Len(t, links, 5)
	for _, l := range links {
		assert.Contains(t, l, "https://a.example.com/")
	}
}

func TestGetRandomLinksSkipsHostsWithNoPaths(t *testing.T) {
	path := writeTestPool(t, `{
		"total": 0,
		"hosts": 1,
		"urls_by_host": {"empty.example.com": []}
	}`)
	p, err := Load(path)
	require.NoError(t, err)

	links := p.GetRandomLinks(3, rand.New(rand.NewSource(1)))
	assert.Empty(t, links)
}
