// Package urlpool loads the static host-to-paths mapping used to
// manufacture "discovered" links when running in simulation mode.
package urlpool

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sync"
)

// Pool is an immutable, loaded-once snapshot of a url_pool.json document.
type Pool struct {
	Total       int                 `json:"total"`
	HostCount   int                 `json:"hosts"`
	URLsByHost  map[string][]string `json:"urls_by_host"`
	hostList    []string
}

// Load reads and parses a URL pool file. A missing or malformed file is
// a setup-time fatal condition for the caller to surface.
func Load(path string) (*Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read url pool %q: %w", path, err)
	}

	var p Pool
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse url pool %q: %w", path, err)
	}

	p.hostList = make([]string, 0, len(p.URLsByHost))
	for host := range p.URLsByHost {
		p.hostList = append(p.hostList, host)
	}

	return &p, nil
}

// Hosts returns the cached list of hosts present in the pool.
func (p *Pool) Hosts() []string {
	return p.hostList
}

// GetRandomLinks produces up to n URLs: for each, a host is picked
// uniformly at random, then a path uniformly at random from that host's
// paths, and concatenated as "https://" + host + path. A host with no
// paths yields no URL for that iteration, so fewer than n entries may be
// returned in pathological cases.
func (p *Pool) GetRandomLinks(n int, rng *rand.Rand) []string {
	if len(p.hostList) == 0 {
		return nil
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	links := make([]string, 0, n)
	for i := 0; i < n; i++ {
		host := p.hostList[rng.Intn(len(p.hostList))]
		paths := p.URLsByHost[host]
		if len(paths) == 0 {
			continue
		}
		path := paths[rng.Intn(len(paths))]
		links = append(links, "https://"+host+path)
	}
	return links
}

// Extractor is a urlpool-backed stand-in for the HTML link extractor,
// used in simulation mode where the simulated fetcher never returns a real
// body to parse. It ignores body and base and instead draws linksPerFetch
// fresh random links from the pool on every call, so the worker loop's
// link-feedback step still has something to feed the frontier.
type Extractor struct {
	pool          *Pool
	linksPerFetch int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewExtractor builds a Pool-backed extractor producing linksPerFetch
// links per Extract call.
func NewExtractor(pool *Pool, linksPerFetch int) *Extractor {
	if linksPerFetch < 0 {
		linksPerFetch = 0
	}
	return &Extractor{
		pool:          pool,
		linksPerFetch: linksPerFetch,
		rng:           rand.New(rand.NewSource(1)),
	}
}

func (e *Extractor) Extract(body []byte, base string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.GetRandomLinks(e.linksPerFetch, e.rng)
}
