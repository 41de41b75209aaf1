package httpserver

import (
	"context"
	"embed"
	"encoding/base64"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	app "waste-sorter/internal/application"
	"waste-sorter/internal/domain/entity"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	// MaxImageSize ограничение на выбранный файл, как в форме загрузки
	MaxImageSize = 4 << 20

	maxFormBody = MaxImageSize + 1<<20
	// base64 раздувает 4 MiB примерно до 5.4 MiB
	maxJSONBody = 6 << 20

	requestIDHeader = "X-Request-Id"

	msgNoImage      = "Bitte wählen Sie zuerst ein Bild aus"
	msgImageTooBig  = "Bild ist zu groß. Maximale Größe ist 4MB."
	msgReadFailed   = "Fehler beim Lesen der Datei. Bitte versuchen Sie es mit einem anderen Bild."
	msgBadJSON      = "Ungültige Anfrage"
	msgBodyTooLarge = "Anfrage ist zu groß"
)

// Server HTTP-граница: форма загрузки и JSON API поверх ClassificationService
type Server struct {
	engine     *gin.Engine
	classifier *app.ClassificationService
	logger     *slog.Logger
	timeout    time.Duration
}

// ClassifyRequest тело POST /api/classify
type ClassifyRequest struct {
	Image  string `json:"image"`
	APIKey string `json:"api_key"`
	Demo   bool   `json:"demo"`
}

// ResultView результат вместе с данными для отображения категории
type ResultView struct {
	entity.ClassificationResult
	Info *entity.CategoryInfo `json:"info,omitempty"`
}

type pageData struct {
	Categories []entity.CategoryInfo
	Result     *ResultView
	Demo       bool
}

func NewServer(classifier *app.ClassificationService, logger *slog.Logger, timeout time.Duration) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.Default())

	s := &Server{
		engine:     engine,
		classifier: classifier,
		logger:     logger,
		timeout:    timeout,
	}

	engine.Use(s.requestLogger())
	engine.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	s.routes()

	return s
}

func (s *Server) routes() {
	s.engine.GET("/", s.index)
	s.engine.GET("/healthz", s.health)
	s.engine.POST("/classify", s.classifyForm)

	api := s.engine.Group("/api")
	api.GET("/categories", s.categories)
	api.POST("/classify", s.classifyJSON)
	api.POST("/simulate", s.simulate)
}

// Handler отдаёт gin.Engine как http.Handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run слушает addr до отмены ctx
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		s.logger.Info("http request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", pageData{Categories: entity.Categories()})
}

func (s *Server) health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (s *Server) categories(c *gin.Context) {
	c.JSON(http.StatusOK, entity.Categories())
}

func (s *Server) simulate(c *gin.Context) {
	c.JSON(http.StatusOK, newResultView(s.classifier.Simulate()))
}

// classifyJSON всегда отвечает 200 на результат классификации, даже неуспешный
func (s *Server) classifyJSON(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxJSONBody)

	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "error": msgBodyTooLarge})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msgBadJSON})
		return
	}

	c.JSON(http.StatusOK, s.run(c, req))
}

func (s *Server) classifyForm(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormBody)

	req := ClassifyRequest{
		APIKey: c.PostForm("api_key"),
		Demo:   c.PostForm("demo") != "",
	}

	if !req.Demo {
		image, failure := readUpload(c)
		if failure != nil {
			s.renderResult(c, req.Demo, &ResultView{ClassificationResult: *failure})
			return
		}
		req.Image = image
	}

	view := s.run(c, req)
	s.renderResult(c, req.Demo, &view)
}

func (s *Server) run(c *gin.Context, req ClassifyRequest) ResultView {
	log := s.logger.With("request_id", c.GetString("request_id"))

	if req.Demo {
		res := s.classifier.Simulate()
		log.Debug("demo classification", "category", res.Category)
		return newResultView(res)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	log.Debug("classification requested", "image_len", len(req.Image))
	res := s.classifier.Classify(ctx, req.Image, req.APIKey)
	if res.Success {
		log.Info("classified", "category", res.Category)
	} else {
		log.Info("classification failed", "reason", res.Reason)
	}

	return newResultView(res)
}

func (s *Server) renderResult(c *gin.Context, demo bool, view *ResultView) {
	c.HTML(http.StatusOK, "index.html", pageData{
		Categories: entity.Categories(),
		Result:     view,
		Demo:       demo,
	})
}

// readUpload читает файл формы и кодирует его как data URI, как FileReader.readAsDataURL
func readUpload(c *gin.Context) (string, *entity.ClassificationResult) {
	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			failure := entity.Failed(entity.ErrMalformedImage, msgImageTooBig)
			return "", &failure
		}
		failure := entity.Failed(entity.ErrMalformedImage, msgNoImage)
		return "", &failure
	}

	if fh.Size > MaxImageSize {
		failure := entity.Failed(entity.ErrMalformedImage, msgImageTooBig)
		return "", &failure
	}

	f, err := fh.Open()
	if err != nil {
		failure := entity.Failed(entity.ErrMalformedImage, msgReadFailed)
		return "", &failure
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		failure := entity.Failed(entity.ErrMalformedImage, msgReadFailed)
		return "", &failure
	}

	mime := fh.Header.Get("Content-Type")
	if mime == "" {
		mime = http.DetectContentType(data)
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func newResultView(res entity.ClassificationResult) ResultView {
	view := ResultView{ClassificationResult: res}
	if res.Success {
		if info, ok := res.Category.Info(); ok {
			view.Info = &info
		}
	}
	return view
}
