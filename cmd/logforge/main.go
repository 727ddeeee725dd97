package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"

	"logforge/internal/config"
	"logforge/internal/gen"
	"logforge/internal/lock"
	"logforge/internal/remote"
	"logforge/internal/store"
	"logforge/internal/web"
)

var (
	outPath    = flag.String("o", "test.log", "Output file path")
	layoutName = flag.String("f", "", "Line layout: standard or bracket")
	seed       = flag.Int64("s", 0, "Random seed for reproducible output")
	configPath = flag.String("config", "logforge.yaml", "Path to profile file")
	preview    = flag.Bool("preview", false, "Also print colored lines to stdout")
	follow     = flag.Bool("follow", false, "Keep generating until interrupted")
	interval   = flag.Duration("interval", 0, "Base interval between lines in follow/serve mode")
	serveMode  = flag.Bool("serve", false, "Stream lines over a websocket instead of writing a file")
	addr       = flag.String("addr", "", "Serve address (host:port)")
	dbPath     = flag.String("db", "", "Also index entries into a sqlite database")
	remoteSpec = flag.String("remote", "", "Write via SSH to user@host:/path")
	identity   = flag.String("identity", "", "SSH private key path")
	knownHosts = flag.String("known-hosts", "", "SSH known_hosts path")
	insecure   = flag.Bool("insecure", false, "Skip SSH host key verification")
	version    = flag.Bool("version", false, "Show version")
)

const (
	appVersion = "1.0.0"
	appName    = "logforge"
)

var previewColors = map[gen.Level]*color.Color{
	gen.Trace: color.New(color.FgHiBlack),
	gen.Debug: color.New(color.FgHiBlack),
	gen.Info:  color.New(color.FgCyan),
	gen.Warn:  color.New(color.FgYellow, color.Bold),
	gen.Error: color.New(color.FgRed, color.Bold),
	gen.Fatal: color.New(color.FgRed, color.Bold),
}

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", appName, appVersion)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load profile: %v", err)
	}

	tables := gen.DefaultTables()
	if err := tables.Apply(cfg.GetComponents(), cfg.GetWeights(), cfg.GetTemplates()); err != nil {
		usageError("Invalid profile: %v", err)
	}

	name := *layoutName
	if name == "" {
		name = cfg.GetLayout()
	}
	layout, err := gen.ParseLayout(name)
	if err != nil {
		usageError("%v", err)
	}

	tick := *interval
	if tick <= 0 {
		tick = cfg.GetInterval()
	}

	serveAddr := *addr
	if serveAddr == "" {
		sc := cfg.GetServe()
		serveAddr = fmt.Sprintf("%s:%d", sc.Host, sc.Port)
	}

	switch {
	case *serveMode:
		runServe(serveAddr, layout, &tables, tick)
	case *follow:
		runFollow(cfg, layout, &tables, tick)
	default:
		runOnce(layout, &tables)
	}
}

// runOnce is the primary mode: write exactly N lines to the destination and
// report a summary.
func runOnce(layout gen.Layout, tables *gen.Tables) {
	if flag.NArg() != 1 {
		usageError("Usage: %s [flags] <count>", appName)
	}

	count, err := strconv.Atoi(flag.Arg(0))
	if err != nil {
		usageError("Invalid line count %q: must be a non-negative integer", flag.Arg(0))
	}
	if count < 0 {
		usageError("Invalid line count %d: must be non-negative", count)
	}

	idx := openStore()
	if idx != nil {
		defer idx.Close()
	}

	opts := gen.RunOptions{
		Count:  count,
		Output: *outPath,
		Layout: layout,
		Seed:   seedArg(),
		Tables: tables,
		Hook:   entryHook(idx),
	}

	dest := *outPath
	if *remoteSpec != "" {
		sink, err := dialRemote()
		if err != nil {
			log.Fatalf("Failed to connect remote sink: %v", err)
		}
		opts.Sink = sink
		dest = sink.Destination()
	}

	written, err := gen.Run(opts)
	if err != nil {
		// The partial file stays put; partial fixtures still help debugging.
		log.Fatalf("Failed after %d line(s): %v", written, err)
	}

	color.New(color.FgGreen).Printf("Generated %d lines to %s\n", written, dest)
}

// runFollow appends lines continuously until SIGINT/SIGTERM, stamping with
// wall-clock time and hot-reloading the profile on change.
func runFollow(cfg *config.Config, layout gen.Layout, tables *gen.Tables, tick time.Duration) {
	flock, err := lock.Acquire(*outPath)
	if err != nil {
		log.Fatalf("Failed to lock output: %v", err)
	}
	defer flock.Release()

	f, err := os.OpenFile(*outPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()

	idx := openStore()
	if idx != nil {
		defer idx.Close()
	}
	hook := entryHook(idx)

	g := gen.New(gen.Options{
		Layout:    layout,
		Tables:    tables,
		WallClock: true,
	})

	reload := make(chan struct{}, 1)
	if err := cfg.Watch(*configPath, func() {
		select {
		case reload <- struct{}{}:
		default:
		}
	}); err != nil {
		log.Printf("Warning: failed to watch profile: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	log.Printf("Appending to %s every %s, Ctrl-C to stop", *outPath, tick)

	written := 0
	for {
		select {
		case <-ticker.C:
			e := g.Next()
			line := g.Format(e)
			if _, err := f.WriteString(line + "\n"); err != nil {
				log.Fatalf("Failed after %d line(s): %v", written, err)
			}
			written++
			if hook != nil {
				if err := hook(e, line); err != nil {
					log.Fatalf("Failed after %d line(s): %v", written, err)
				}
			}
		case <-reload:
			fresh := gen.DefaultTables()
			if err := fresh.Apply(cfg.GetComponents(), cfg.GetWeights(), cfg.GetTemplates()); err != nil {
				log.Printf("Ignoring reloaded profile: %v", err)
				continue
			}
			g.SetTables(fresh)
			log.Println("Profile reloaded")
		case sig := <-sigChan:
			log.Printf("Received signal %s, shutting down...", sig)
			color.New(color.FgGreen).Printf("Generated %d lines to %s\n", written, *outPath)
			return
		}
	}
}

// runServe streams generated lines to websocket clients until interrupted.
func runServe(addr string, layout gen.Layout, tables *gen.Tables, tick time.Duration) {
	g := gen.New(gen.Options{
		Layout:    layout,
		Tables:    tables,
		WallClock: true,
	})

	server := web.NewServer(addr, g, tick)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	log.Printf("Dashboard available at http://%s", addr)

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %s, shutting down...", sig)
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Stop(shutdownCtx)
}

// seedArg returns the seed only when -s was actually passed, so that seed 0
// is a valid seed and absent means non-reproducible.
func seedArg() *int64 {
	var set bool
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "s" {
			set = true
		}
	})
	if !set {
		return nil
	}
	return seed
}

func openStore() *store.Store {
	if *dbPath == "" {
		return nil
	}
	idx, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open index database: %v", err)
	}
	return idx
}

// entryHook builds the per-line hook combining the sqlite index and the
// colored preview.
func entryHook(idx *store.Store) func(gen.Entry, string) error {
	if idx == nil && !*preview {
		return nil
	}
	return func(e gen.Entry, line string) error {
		if *preview {
			c := previewColors[e.Level]
			if c == nil {
				c = color.New(color.FgWhite)
			}
			c.Println(line)
		}
		if idx != nil {
			_, err := idx.Insert(store.Entry{
				Timestamp: e.Time,
				Level:     e.Level.Tag(),
				Component: e.Component,
				Message:   e.Message,
				Line:      line,
			})
			if err != nil {
				return fmt.Errorf("index entry: %w", err)
			}
		}
		return nil
	}
}

func dialRemote() (*remote.Sink, error) {
	user, host, path, err := remote.ParseSpec(*remoteSpec)
	if err != nil {
		usageError("%v", err)
	}
	return remote.Dial(remote.Options{
		User:           user,
		Host:           host,
		Path:           path,
		Password:       os.Getenv("LOGFORGE_SSH_PASSWORD"),
		IdentityFile:   *identity,
		KnownHostsFile: *knownHosts,
		Insecure:       *insecure,
	})
}

func usageError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
