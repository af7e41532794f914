// Command urlpoolgen emits a syntactically valid url_pool.json fixture so
// simulation mode (see cmd/webcrawl --simulation) can be exercised without
// hand-writing a pool file. It does not crawl anything; it is a stand-in
// for the offline collector that produces the real pool file in
// production, which is outside this repository's scope.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	var hosts []string
	var pathsPerHost int
	var out string

	cmd := &cobra.Command{
		Use:   "urlpoolgen",
		Short: "Generate a url_pool.json fixture for simulation mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(hosts) == 0 {
				hosts = []string{"a.example.com", "b.example.com", "c.example.com"}
			}
			return generate(out, hosts, pathsPerHost)
		},
	}

	cmd.Flags().StringSliceVar(&hosts, "host", nil, "host to include (repeatable); defaults to a small fixed set")
	cmd.Flags().IntVar(&pathsPerHost, "paths-per-host", 20, "number of synthetic paths to generate per host")
	cmd.Flags().StringVar(&out, "out", "url_pool.json", "output file path")

	return cmd
}

type poolDocument struct {
	Total      int                 `json:"total"`
	Hosts      int                 `json:"hosts"`
	URLsByHost map[string][]string `json:"urls_by_host"`
}

func generate(out string, hosts []string, pathsPerHost int) error {
	doc := poolDocument{
		Hosts:      len(hosts),
		URLsByHost: make(map[string][]string, len(hosts)),
	}

	for _, host := range hosts {
		paths := make([]string, 0, pathsPerHost)
		for i := 0; i < pathsPerHost; i++ {
			paths = append(paths, fmt.Sprintf("/page/%d", i))
		}
		doc.URLsByHost[host] = paths
		doc.Total += len(paths)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal url pool: %w", err)
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write url pool %q: %w", out, err)
	}

	fmt.Printf("wrote %s: %d hosts, %d paths\n", out, doc.Hosts, doc.Total)
	return nil
}
