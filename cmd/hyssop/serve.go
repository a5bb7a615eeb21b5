package main

import (
	"compress/gzip"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/klauspost/compress/gzhttp"

	"github.com/sambeau/hyssop/pkg/hypertext/interp"
	"github.com/sambeau/hyssop/pkg/hyssop"
)

// serveCommand implements the 'hyssop serve' subcommand: a dev preview
// server that re-renders the template whenever it or its data file
// changes on disk.
func serveCommand(args []string) {
	serveFlags := flag.NewFlagSet("serve", flag.ExitOnError)
	portFlag := serveFlags.Int("p", 0, "Port to listen on")
	portLongFlag := serveFlags.Int("port", 0, "Port to listen on")
	dataFlag := serveFlags.String("d", "", "YAML or JSON data file")
	dataLongFlag := serveFlags.String("data", "", "YAML or JSON data file")
	configFlag := serveFlags.String("c", "", "Site config file")
	configLongFlag := serveFlags.String("config", "", "Site config file")

	serveFlags.Usage = func() {
		fmt.Fprint(os.Stderr, `hyssop serve - preview a template over HTTP

Usage:
  hyssop serve [options] [template-file]

Options:
  -p, --port <port>     Port to listen on (default 8080)
  -d, --data <file>     YAML or JSON data file
  -c, --config <file>   Site config file (default: hyssop.yaml if present)

The template and data file are watched; edits show up on the next
request without restarting the server. A hyssop.yaml in the current
directory (or named by HYSSOP_CONFIG) can set port, template, and data,
with ${ENV} interpolation; flags override it.

Examples:
  hyssop serve page.html
  hyssop serve -p 3000 page.html -d site.yaml
  hyssop serve -c site/hyssop.yaml
`)
	}

	if err := serveFlags.Parse(args); err != nil {
		os.Exit(1)
	}

	configPath := *configFlag
	if configPath == "" {
		configPath = *configLongFlag
	}
	cfg, err := LoadConfig(configPath, os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	templatePath := cfg.Template
	if serveFlags.NArg() > 0 {
		templatePath = serveFlags.Arg(0)
	}
	if templatePath == "" {
		fmt.Fprintln(os.Stderr, "Error: no template file specified")
		serveFlags.Usage()
		os.Exit(1)
	}

	port := cfg.Port
	if *portFlag != 0 {
		port = *portFlag
	}
	if *portLongFlag != 0 {
		port = *portLongFlag
	}
	dataPath := *dataFlag
	if dataPath == "" {
		dataPath = *dataLongFlag
	}
	if dataPath == "" {
		dataPath = cfg.Data
	}

	srv := &previewServer{
		templatePath: templatePath,
		dataPath:     dataPath,
		log:          hyssop.WriterLogger(os.Stdout),
	}

	if err := srv.reload(); err != nil {
		printRenderError(srv.templatePath, "", err)
		os.Exit(1)
	}

	if err := srv.watch(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to watch files: %v\n", err)
		os.Exit(1)
	}

	handler := newCompressionHandler(srv)

	addr := fmt.Sprintf(":%d", port)
	srv.log.LogLine("serving", srv.templatePath, "at", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		fmt.Fprintf(os.Stderr, "Error: server failed: %v\n", err)
		os.Exit(1)
	}
}

// previewServer renders one template on every request, against the
// latest parsed template and data.
type previewServer struct {
	templatePath string
	dataPath     string
	log          hyssop.Logger

	mu       sync.RWMutex
	template *interp.Template
	data     map[string]any
	loadErr  error

	lastChange time.Time
}

// reload re-reads and re-parses the template and data files. A failed
// reload is kept and reported on the next request rather than killing
// the server.
func (s *previewServer) reload() error {
	content, err := os.ReadFile(s.templatePath)
	if err != nil {
		return s.setLoadErr(fmt.Errorf("reading %s: %w", s.templatePath, err))
	}

	tpl, perr := interp.Parse(string(content))
	if perr != nil {
		return s.setLoadErr(perr.WithFile(s.templatePath))
	}

	data := map[string]any{}
	if s.dataPath != "" {
		loaded, derr := loadDataFile(s.dataPath)
		if derr != nil {
			return s.setLoadErr(derr)
		}
		data = loaded
	}

	s.mu.Lock()
	s.template = tpl
	s.data = data
	s.loadErr = nil
	s.mu.Unlock()
	return nil
}

func (s *previewServer) setLoadErr(err error) error {
	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()
	return err
}

func (s *previewServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	tpl, data, loadErr := s.template, s.data, s.loadErr
	s.mu.RUnlock()

	if loadErr != nil {
		http.Error(w, loadErr.Error(), http.StatusInternalServerError)
		return
	}

	out, err := tpl.Render(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(out))
}

// watch starts an fsnotify watcher on the template and data file
// directories, reloading on write/create with a short debounce.
func (s *previewServer) watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dirs := map[string]bool{filepath.Dir(s.templatePath): true}
	if s.dataPath != "" {
		dirs[filepath.Dir(s.dataPath)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return err
		}
		s.log.LogLine("[WATCH] watching:", dir)
	}

	go s.eventLoop(watcher)
	return nil
}

// eventLoop processes file system events.
func (s *previewServer) eventLoop(watcher *fsnotify.Watcher) {
	const debounce = 100 * time.Millisecond

	watched := map[string]bool{
		filepath.Base(s.templatePath): true,
	}
	if s.dataPath != "" {
		watched[filepath.Base(s.dataPath)] = true
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !watched[filepath.Base(event.Name)] {
				continue
			}

			s.mu.Lock()
			if time.Since(s.lastChange) < debounce {
				s.mu.Unlock()
				continue
			}
			s.lastChange = time.Now()
			s.mu.Unlock()

			s.log.LogLine("[WATCH] changed:", event.Name)
			if err := s.reload(); err != nil {
				s.log.LogLine("[WATCH] reload failed:", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.LogLine("[WATCH] error:", err)
		}
	}
}

// newCompressionHandler wraps the preview handler with gzip middleware.
func newCompressionHandler(h http.Handler) http.Handler {
	wrapper, err := gzhttp.NewWrapper(
		gzhttp.MinSize(1024),
		gzhttp.CompressionLevel(gzip.DefaultCompression),
	)
	if err != nil {
		// Should not happen with valid options, but serve uncompressed
		// if it does
		return h
	}
	return wrapper(h)
}
