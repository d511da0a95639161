package printer

import (
	"context"
	"fmt"
	"html"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	pkgerrors "github.com/n0l0g0/pos-frontend/pkg/errors"
)

// PreviewServer serves the most recently printed receipt as an HTML page on
// localhost. Opening it in a browser pops the print dialog, which stands in
// for a physical receipt printer.
type PreviewServer struct {
	mu     sync.RWMutex
	latest string

	server *http.Server
	addr   string
}

func NewPreviewServer() *PreviewServer {
	return &PreviewServer{}
}

// Router exposes the preview routes.
func (p *PreviewServer) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/receipts/latest", p.handleLatest)
	return r
}

// Start binds the listener and serves in the background.
func (p *PreviewServer) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeSinkUnavailable, err, "binding receipt preview listener")
	}

	p.mu.Lock()
	p.addr = listener.Addr().String()
	p.server = &http.Server{
		Handler:           p.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	server := p.server
	p.mu.Unlock()

	go func() {
		_ = server.Serve(listener)
	}()
	return nil
}

// Addr returns the bound address, empty until started.
func (p *PreviewServer) Addr() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.addr
}

func (p *PreviewServer) Close(ctx context.Context) error {
	p.mu.Lock()
	server := p.server
	p.server = nil
	p.mu.Unlock()
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// Print publishes the receipt to the preview page.
func (p *PreviewServer) Print(ctx context.Context, doc string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.server == nil {
		return pkgerrors.New(pkgerrors.CodeSinkUnavailable, "receipt preview server is not running")
	}
	p.latest = doc
	return nil
}

func (p *PreviewServer) handleLatest(w http.ResponseWriter, r *http.Request) {
	p.mu.RLock()
	doc := p.latest
	p.mu.RUnlock()

	if doc == "" {
		http.Error(w, "no receipt printed yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<html><head><title>Receipt</title></head><body onload=\"window.print()\"><pre>%s</pre></body></html>",
		html.EscapeString(doc))
}
