package httpserver

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tinytelemetry/chatstats/internal/appshell"
	"github.com/tinytelemetry/chatstats/internal/histogram"
	"github.com/tinytelemetry/chatstats/internal/model"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Shell is the narrow app shell contract required by the web UI.
type Shell interface {
	model.DatasetReader
	Current() appshell.State
	Reset()
	LoadReader(ctx context.Context, source string, r io.Reader) appshell.State
}

// Config holds tunable parameters for the web UI.
type Config struct {
	MaxUploadBytes int64
	Geometry       histogram.Geometry
}

// Server serves the upload page, the rendered chart and a JSON API.
type Server struct {
	addr      string
	shell     Shell
	conf      Config
	metrics   *metrics
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new web UI server.
func NewServer(addr string, shell Shell, conf Config) *Server {
	if addr == "" {
		addr = model.DefaultListenAddr
	}
	if conf.MaxUploadBytes <= 0 {
		conf.MaxUploadBytes = model.DefaultMaxUploadBytes
	}
	if conf.Geometry.Width <= 0 || conf.Geometry.Height <= 0 {
		conf.Geometry = histogram.DefaultGeometry
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:      addr,
		shell:     shell,
		conf:      conf,
		metrics:   newMetrics(shell),
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.addr }

// Handler builds the gin engine with every route registered.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.metrics.middleware())
	r.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.tmpl")))

	r.GET("/", s.handleIndex)
	r.POST("/upload", s.handleUpload)
	r.POST("/reset", s.handleReset)
	r.GET("/chart.svg", s.handleChartSVG)
	r.GET("/chart.png", s.handleChartPNG)

	r.GET("/metrics", s.metrics.handler())
	r.GET("/api/health", s.handleHealth)
	r.GET("/api/histogram", s.handleGetHistogram)
	r.POST("/api/histogram", s.handlePostHistogram)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.addr = listener.Addr().String()
	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

var templateFuncs = template.FuncMap{
	"avg": func(f float64) string { return fmt.Sprintf("%.2f", f) },
}

type pageData struct {
	State          string
	Error          string
	Source         string
	Chart          template.HTML
	Summary        model.Summary
	Parsed         int
	Skipped        int
	Buckets        int
	MaxUploadBytes int64
}

func (s *Server) handleIndex(c *gin.Context) {
	st := s.shell.Current()
	data := pageData{State: st.Name(), MaxUploadBytes: s.conf.MaxUploadBytes}

	switch st := st.(type) {
	case appshell.Failed:
		data.Error = st.Message
		data.Source = st.Source
	case appshell.Results:
		d := st.Dataset
		var buf bytes.Buffer
		if err := histogram.WriteSVG(&buf, histogram.Build(d.Stats, s.conf.Geometry), histogram.DefaultSVGOptions); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render chart"})
			return
		}
		data.Chart = template.HTML(buf.String())
		data.Source = d.Source
		data.Summary = d.Summary
		data.Parsed = d.Parsed
		data.Skipped = d.Skipped
		data.Buckets = len(d.Stats)
	}

	c.HTML(http.StatusOK, "index.html.tmpl", data)
}

func (s *Server) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.conf.MaxUploadBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or oversized file field"})
		return
	}
	defer file.Close()

	s.metrics.observeLoad(s.shell.LoadReader(c.Request.Context(), header.Filename, file))
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleReset(c *gin.Context) {
	s.shell.Reset()
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleChartSVG(c *gin.Context) {
	s.serveChart(c, "image/svg+xml", func(w io.Writer, d model.Dataset) error {
		opts := histogram.DefaultSVGOptions
		opts.Standalone = true
		return histogram.WriteSVG(w, histogram.Build(d.Stats, s.conf.Geometry), opts)
	})
}

func (s *Server) handleChartPNG(c *gin.Context) {
	s.serveChart(c, "image/png", func(w io.Writer, d model.Dataset) error {
		return histogram.WritePNG(w, d.Stats, s.conf.Geometry)
	})
}

func (s *Server) serveChart(c *gin.Context, contentType string, render func(io.Writer, model.Dataset) error) {
	d, ok := s.shell.Dataset()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no dataset loaded"})
		return
	}

	etag := `"` + d.ID + `"`
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	var buf bytes.Buffer
	if err := render(&buf, d); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render chart"})
		return
	}
	c.Header("ETag", etag)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

type histogramResponse struct {
	State   string             `json:"state"`
	Error   string             `json:"error,omitempty"`
	Source  string             `json:"source,omitempty"`
	Stats   []model.MinuteStat `json:"stats,omitempty"`
	Summary *model.Summary     `json:"summary,omitempty"`
	Parsed  int                `json:"parsed,omitempty"`
	Skipped int                `json:"skipped,omitempty"`
}

func newHistogramResponse(st appshell.State) histogramResponse {
	resp := histogramResponse{State: st.Name()}
	switch st := st.(type) {
	case appshell.Failed:
		resp.Error = st.Message
		resp.Source = st.Source
	case appshell.Results:
		d := st.Dataset
		resp.Source = d.Source
		resp.Stats = d.Stats
		resp.Summary = &d.Summary
		resp.Parsed = d.Parsed
		resp.Skipped = d.Skipped
	}
	return resp
}

func (s *Server) handleGetHistogram(c *gin.Context) {
	c.JSON(http.StatusOK, newHistogramResponse(s.shell.Current()))
}

func (s *Server) handlePostHistogram(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, s.conf.MaxUploadBytes)
	source := c.DefaultQuery("source", "api")

	st := s.shell.LoadReader(c.Request.Context(), source, body)
	s.metrics.observeLoad(st)
	status := http.StatusOK
	if _, ok := st.(appshell.Failed); ok {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, newHistogramResponse(st))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
		"state":  s.shell.Current().Name(),
	})
}
