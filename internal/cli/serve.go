package cli

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"

	"github.com/sentralab/sentra/internal/cache"
	"github.com/sentralab/sentra/internal/engine"
	"github.com/sentralab/sentra/internal/extract"
	"github.com/sentralab/sentra/internal/feed"
	"github.com/sentralab/sentra/internal/model"
	"github.com/sentralab/sentra/internal/session"
)

var servePort int

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis API",
	Long: `Serve exposes the analysis engine over HTTP:
- POST /analyze scores content and records it in the session
- GET  /feed returns a burst of simulated monitoring events
- GET  /stats summarizes the running session
- GET  /export streams the session as csv, json, or brief
- Repeated content is served from the fingerprint-keyed result cache

Example:
  sentra serve
  sentra serve --port 9000
  curl -X POST localhost:8632/analyze -H 'Content-Type: application/json' \
    -d '{"text":"wire the funds before the account is suspended"}'`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from config)")

	// LLM flags
	addLLMFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}
	if err := applyLLMFlags(cfg); err != nil {
		return err
	}

	// One engine per anonymize setting; requests may override the default.
	engines := make(map[bool]*engine.Engine, 2)
	for _, anon := range []bool{true, false} {
		c := *cfg
		c.Engine.Anonymize = anon
		e, err := engine.New(&c)
		if err != nil {
			return err
		}
		engines[anon] = e
	}

	var results *cache.ResultCache
	if cfg.Cache.Enabled {
		backend := cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
		results = cache.NewResultCache(backend, cfg.Cache.TTL)
	}

	store := session.NewStore()

	// The generator is not safe for concurrent use.
	gen := feed.NewGenerator(cfg.Engine.Thresholds)
	var genMu sync.Mutex

	app := fiber.New(fiber.Config{
		AppName: "Sentra " + version,
	})

	// Health check
	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "version": version})
	})

	// Score one piece of content
	app.Post("/analyze", func(c fiber.Ctx) error {
		var req struct {
			Text      string `json:"text"`
			Source    string `json:"source"`
			Anonymize *bool  `json:"anonymize"`
			HTML      bool   `json:"html"`
		}
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
		}
		if req.Text == "" {
			return c.Status(400).JSON(fiber.Map{"error": "text field is required"})
		}
		if req.Source == "" {
			req.Source = "api"
		}

		text := req.Text
		if req.HTML {
			extracted, err := extract.VisibleText(strings.NewReader(text))
			if err != nil {
				return c.Status(400).JSON(fiber.Map{"error": "invalid html"})
			}
			text = extracted
		}

		anonymize := cfg.Engine.Anonymize
		if req.Anonymize != nil {
			anonymize = *req.Anonymize
		}

		// The cache holds default-path verdicts only; an anonymize
		// override would otherwise collide on the same content key.
		cacheable := results != nil && anonymize == cfg.Engine.Anonymize
		if cacheable {
			if res, ok := results.Get(text); ok {
				rec := store.Add(req.Source, res)
				return c.JSON(fiber.Map{"id": rec.ID, "cached": true, "result": res})
			}
		}

		res, err := engines[anonymize].Analyze(c.Context(), text)
		if err != nil {
			var inputErr *model.InputError
			if errors.As(err, &inputErr) {
				return c.Status(400).JSON(fiber.Map{"error": err.Error()})
			}
			log.Printf("analyze: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": "analysis failed"})
		}
		if cacheable {
			results.Set(text, res)
		}

		rec := store.Add(req.Source, res)
		return c.JSON(fiber.Map{"id": rec.ID, "cached": false, "result": res})
	})

	// Simulated feed burst
	app.Get("/feed", func(c fiber.Ctx) error {
		n := 1
		if raw := c.Query("count"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 1 || v > 50 {
				return c.Status(400).JSON(fiber.Map{"error": "count must be 1-50"})
			}
			n = v
		}

		genMu.Lock()
		items := gen.Burst(n)
		genMu.Unlock()

		return c.JSON(fiber.Map{"count": len(items), "items": items})
	})

	// Session statistics
	app.Get("/stats", func(c fiber.Ctx) error {
		return c.JSON(store.Stats())
	})

	// Session export
	app.Get("/export", func(c fiber.Ctx) error {
		format := c.Query("format")
		if format == "" {
			format = "json"
		}

		contentTypes := map[string]string{
			"csv":   "text/csv",
			"json":  "application/json",
			"brief": "text/plain; charset=utf-8",
		}
		contentType, ok := contentTypes[format]
		if !ok {
			return c.Status(400).JSON(fiber.Map{"error": "format must be csv, json, or brief"})
		}

		var buf bytes.Buffer
		if err := writeExport(&buf, format, store, cfg.Engine.Thresholds); err != nil {
			log.Printf("export: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": "export failed"})
		}

		c.Set("Content-Type", contentType)
		return c.Send(buf.Bytes())
	})

	// Stop listening when the command context is canceled
	go func() {
		<-cmd.Context().Done()
		if err := app.Shutdown(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Sentra HTTP server starting on :%d", cfg.Server.Port)
	log.Printf("Endpoints:")
	log.Printf("  GET  /health   - Health check")
	log.Printf("  POST /analyze  - Score content (json: text, source, anonymize, html)")
	log.Printf("  GET  /feed     - Simulated feed burst (?count=n)")
	log.Printf("  GET  /stats    - Session statistics")
	log.Printf("  GET  /export   - Session export (?format=csv|json|brief)")

	if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
