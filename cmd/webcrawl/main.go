// Command webcrawl runs the polite concurrent crawler: seed URLs go in,
// pages come out, operational telemetry is served on a scrape endpoint.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	crawlconfig "github.com/jonesrussell/webcrawl/internal/config"
	"github.com/jonesrussell/webcrawl/internal/crawl"
	"github.com/jonesrussell/webcrawl/internal/dedup"
	"github.com/jonesrussell/webcrawl/internal/dnscache"
	"github.com/jonesrussell/webcrawl/internal/extract"
	"github.com/jonesrussell/webcrawl/internal/fetcher"
	"github.com/jonesrussell/webcrawl/internal/frontier"
	"github.com/jonesrussell/webcrawl/internal/logging"
	"github.com/jonesrussell/webcrawl/internal/telemetry"
	"github.com/jonesrussell/webcrawl/internal/urlpool"
	"github.com/jonesrussell/webcrawl/internal/worker"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := crawlconfig.Default()
	var configFile string

	cmd := &cobra.Command{
		Use:   "webcrawl [seed URL ...]",
		Short: "A polite, high-concurrency web crawler",
		RunE: func(cmd *cobra.Command, args []string) error {
			bindFlagsToConfig(cmd, &cfg)
			seeds := args
			if len(seeds) == 0 && !cfg.Simulation {
				seeds = []string{"https://example.com/"}
			}
			return runCrawl(cmd.Context(), cfg, seeds)
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "optional config file (viper-compatible: yaml/json/toml)")
	cmd.Flags().Int("max-pages", crawlconfig.DefaultMaxPages, "stop after this many completions")
	cmd.Flags().Int("workers", crawlconfig.DefaultWorkers, "number of concurrent workers")
	cmd.Flags().Int("max-per-host", crawlconfig.DefaultMaxPerHost, "max in-flight requests per host")
	cmd.Flags().Float64("delay-per-host", crawlconfig.DefaultDelayPerHost.Seconds(), "minimum seconds between dispatches to the same host")
	cmd.Flags().Bool("simulation", crawlconfig.DefaultSimulation, "use the simulated fetcher and URL pool")
	cmd.Flags().Int("delay-ms", int(crawlconfig.DefaultDelayMS.Milliseconds()), "simulation delay in milliseconds")
	cmd.Flags().String("url-pool", crawlconfig.DefaultURLPoolPath, "simulation URL pool path")
	cmd.Flags().Bool("bloom", crawlconfig.DefaultBloom, "use approximate (Bloom filter) dedup")
	cmd.Flags().Bool("dns-cache", crawlconfig.DefaultDNSCache, "enable the DNS resolver cache")
	cmd.Flags().String("metrics-addr", crawlconfig.DefaultMetricsAddr, "address for the Prometheus scrape endpoint")
	cmd.Flags().String("log-level", crawlconfig.DefaultLogLevel, "log level: debug, info, warn, error")

	cobra.OnInitialize(func() { initConfig(configFile) })

	return cmd
}

func initConfig(configFile string) {
	_ = godotenv.Load()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("webcrawl")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("WEBCRAWL")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig() // optional: absence of a config file is not an error
}

func bindFlagsToConfig(cmd *cobra.Command, cfg *crawlconfig.Config) {
	flags := cmd.Flags()

	cfg.MaxPages, _ = flags.GetInt("max-pages")
	cfg.Workers, _ = flags.GetInt("workers")
	cfg.MaxPerHost, _ = flags.GetInt("max-per-host")
	delaySeconds, _ := flags.GetFloat64("delay-per-host")
	cfg.DelayPerHost = time.Duration(delaySeconds * float64(time.Second))
	cfg.Simulation, _ = flags.GetBool("simulation")
	delayMS, _ := flags.GetInt("delay-ms")
	cfg.DelayMS = time.Duration(delayMS) * time.Millisecond
	cfg.URLPoolPath, _ = flags.GetString("url-pool")
	cfg.Bloom, _ = flags.GetBool("bloom")
	cfg.DNSCache, _ = flags.GetBool("dns-cache")
	cfg.MetricsAddr, _ = flags.GetString("metrics-addr")
	cfg.LogLevel, _ = flags.GetString("log-level")
}

func runCrawl(ctx context.Context, cfg crawlconfig.Config, seeds []string) error {
	log := logging.Must(cfg.LogLevel)
	defer log.Sync()

	var dedupIndex dedup.Index
	if cfg.Bloom {
		dedupIndex = dedup.NewApproximate(crawlconfig.DefaultBloomCapacity, crawlconfig.DefaultBloomErrorRate)
	} else {
		dedupIndex = dedup.NewExact()
	}

	metrics := telemetry.New(nil, telemetry.Labels{
		Mode:     cfg.Mode(),
		DNSCache: cfg.DNSCacheLabel(),
		Workers:  fmt.Sprintf("%d", cfg.Workers),
	})

	fr := frontier.New(frontier.Config{
		Dedup:        dedupIndex,
		MaxPerHost:   cfg.MaxPerHost,
		DelayPerHost: cfg.DelayPerHost,
		QueueGauge:   metrics.QueueSize,
		Logger:       log,
	})

	var resolver dnscache.Resolver
	if cfg.DNSCache {
		resolver = dnscache.NewCachingResolver(dnscache.NewNetResolver(), crawlconfig.DefaultDNSCacheEntries, crawlconfig.DefaultDNSCacheTTL, metrics)
	} else {
		resolver = dnscache.NewNetResolver()
	}

	var f fetcher.Fetcher
	var extractor extract.Extractor = extract.NewLinks()
	if cfg.Simulation {
		urlPool, err := urlpool.Load(cfg.URLPoolPath)
		if err != nil {
			return fmt.Errorf("simulation mode requires a URL pool; generate one with cmd/urlpoolgen: %w", err)
		}
		f = fetcher.NewSimulated(resolver, cfg.DelayMS)
		extractor = urlpool.NewExtractor(urlPool, 1)
		if len(seeds) == 0 {
			seeds = urlPool.GetRandomLinks(1, nil)
		}
	} else {
		f = fetcher.NewReal(fetcher.RealConfig{Timeout: crawlconfig.DefaultFetchTimeout, UserAgent: cfg.UserAgent})
	}

	driver := crawl.New(crawl.DriverConfig{
		Frontier:  fr,
		Fetcher:   f,
		Telemetry: telemetry.NewServer(cfg.MetricsAddr, log),
		Logger:    log,
		MaxPages:  cfg.MaxPages,
	})

	pool := worker.New(worker.Config{
		Count:     cfg.Workers,
		Frontier:  fr,
		Fetcher:   f,
		Extractor: extractor,
		Metrics:   metrics,
		Observer:  driver,
		Logger:    log,
	})
	driver.SetPool(pool)

	start := time.Now()
	if err := driver.Run(ctx, seeds); err != nil {
		return err
	}
	fmt.Println(crawl.Summary(driver.Completed(), time.Since(start), driver.FinalStats()))
	return nil
}
