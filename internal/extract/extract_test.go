package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractResolvesRelativeLinks(t *testing.T) {
	body := []byte(`<html><body>
		<a href="/a">a</a>
		<a href="https://other.example.com/b">b</a>
		<a href="c">c</a>
		<a href="mailto:x@example.com">skip</a>
	</body></html>`)

	links := NewLinks().Extract(body, "https://s.example.com/base/")

	assert.Contains(t, links, "https://s.example.com/a")
	assert.Contains(t, links, "https://other.example.com/b")
	assert.Contains(t, links, "https://s.example.com/base/c")
	assert.Len(t, links, 3)
}

func TestExtractOnMalformedHTMLReturnsEmpty(t *testing.T) {
	links := NewLinks().Extract([]byte("<html><body><div><p>unclosed <b>tags"), "https://s.example.com/")
	assert.Empty(t, links)
}

func TestExtractDeduplicatesLinks(t *testing.T) {
	body := []byte(`<a href="/x">x</a><a href="/x">x again</a>`)
	links := NewLinks().Extract(body, "https://s.example.com/")
	assert.Len(t, links, 1)
}
