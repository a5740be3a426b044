package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-style/internal/llm"
	"github.com/joeblew999/plat-style/internal/server"
	"github.com/joeblew999/plat-style/internal/service"
	"github.com/joeblew999/plat-style/internal/style"
)

// Options defines all CLI flags and env vars for the style server.
// Flags: --host, --port, --data-dir, --base-style, --openai-key, ...
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_DATA_DIR, SERVICE_OPENAI_KEY, ...
type Options struct {
	Host          string `doc:"Host to bind to" default:"0.0.0.0"`
	Port          int    `doc:"Port to listen on" short:"p" default:"8086"`
	DataDir       string `doc:"Directory for themes and generation history" default:".data"`
	WebDir        string `doc:"Path to web/ directory" default:"web"`
	BaseStyle     string `doc:"Base style.json path or URL" default:"https://demotiles.maplibre.org/style.json"`
	Center        string `doc:"Initial map center as lon,lat" default:"0,20"`
	Zoom          int    `doc:"Initial map zoom" default:"2"`
	OpenAIKey     string `name:"openai-key" doc:"OpenAI API key (falls back to OPENAI_API_KEY)"`
	OpenAIBaseURL string `name:"openai-base-url" doc:"OpenAI-compatible API base URL"`
	Model         string `doc:"Chat completion model" default:"gpt-4o-mini"`
	Temperature   string `doc:"Sampling temperature" default:"0.7"`
	MaxTokens     int    `doc:"Response token limit" default:"300"`
	LogLevel      string `doc:"Log level (debug, info, warn, error)" default:"info"`
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}

func parseCenter(s string) (orb.Point, error) {
	lon, lat, ok := strings.Cut(s, ",")
	if !ok {
		return orb.Point{}, fmt.Errorf("center %q: want lon,lat", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("center longitude: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return orb.Point{}, fmt.Errorf("center latitude: %w", err)
	}
	return orb.Point{x, y}, nil
}

// maxZoom is the deepest zoom level MapLibre renders.
const maxZoom = 24

func serverConfig(opts *Options, logger *zap.Logger) (server.Config, error) {
	center, err := parseCenter(opts.Center)
	if err != nil {
		return server.Config{}, err
	}
	if opts.Zoom < 0 || opts.Zoom > maxZoom {
		return server.Config{}, fmt.Errorf("zoom %d: want 0..%d", opts.Zoom, maxZoom)
	}
	temperature, err := strconv.ParseFloat(opts.Temperature, 32)
	if err != nil {
		return server.Config{}, fmt.Errorf("temperature: %w", err)
	}
	key := opts.OpenAIKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	return server.Config{
		Host:      opts.Host,
		Port:      fmt.Sprintf("%d", opts.Port),
		DataDir:   opts.DataDir,
		WebDir:    opts.WebDir,
		BaseStyle: opts.BaseStyle,
		Center:    center,
		Zoom:      maptile.Zoom(opts.Zoom),
		LLM: llm.Config{
			APIKey:      key,
			BaseURL:     opts.OpenAIBaseURL,
			Model:       opts.Model,
			Temperature: float32(temperature),
			MaxTokens:   opts.MaxTokens,
		},
		Logger: logger,
	}, nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		logger, err := newLogger(opts.LogLevel)
		if err != nil {
			fatal("Invalid log level: %v", err)
		}
		cfg, err := serverConfig(opts, logger)
		if err != nil {
			fatal("Invalid options: %v", err)
		}
		if cfg.LLM.APIKey == "" {
			logger.Warn("no OpenAI API key configured, generation requests will fail")
		}

		var httpServer *http.Server

		hooks.OnStart(func() {
			srv := server.New(cfg)
			defer srv.Close()
			defer logger.Sync()

			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			fmt.Println()
			fmt.Printf("plat-style API server starting...\n")
			fmt.Printf("  Server:  %s\n", baseURL)
			fmt.Printf("  Data:    %s\n", opts.DataDir)
			fmt.Printf("  Style:   %s\n", opts.BaseStyle)
			fmt.Println()
			fmt.Printf("  Docs:    %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI: %s/openapi.json\n", baseURL)
			fmt.Println()

			httpServer = &http.Server{Addr: addr, Handler: srv}
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("server error", zap.Error(err))
			}
		})

		hooks.OnStop(func() {
			if httpServer == nil {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			httpServer.Shutdown(ctx)
		})
	})

	cli.Root().Use = "mapstyle"
	cli.Root().Short = "AI-assisted color styling for MapLibre maps"
	cli.Root().Version = server.Version

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			cfg, err := serverConfig(opts, nil)
			if err != nil {
				fatal("Invalid options: %v", err)
			}
			srv := server.New(cfg)
			defer srv.Close()
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fatal("Error marshaling spec: %v", err)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	cli.Root().AddCommand(applyCommand())

	cli.Run()
}

// applyCommand restyles a style document offline, without the server or
// the model.
func applyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply colors or a saved theme file to a style.json",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			logger, err := newLogger(opts.LogLevel)
			if err != nil {
				fatal("Invalid log level: %v", err)
			}
			defer logger.Sync()

			st, err := applyStyle(cmd)
			if err != nil {
				fatal("%v", err)
			}

			in, _ := cmd.Flags().GetString("style")
			if in == "" {
				in = opts.BaseStyle
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			doc, err := style.LoadDocument(ctx, in)
			if err != nil {
				fatal("%v", err)
			}

			report := style.NewOrchestrator(nil, logger).Apply(doc, st, style.ApplyOptions{
				Status: func(msg string) { fmt.Fprintln(os.Stderr, msg) },
			})
			if len(report.Failed) > 0 {
				fmt.Fprintf(os.Stderr, "Not painted: %s\n", strings.Join(report.Failed, ", "))
			}

			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				fatal("Error encoding style: %v", err)
			}
			out, _ := cmd.Flags().GetString("out")
			if out == "-" {
				fmt.Println(string(data))
				return
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				fatal("Error writing %s: %v", out, err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
		}),
	}
	cmd.Flags().String("style", "", "Input style.json path or URL (default: --base-style)")
	cmd.Flags().StringP("out", "o", "maplibre-style.json", "Output file, - for stdout")
	cmd.Flags().String("theme", "", "Theme YAML or JSON file")
	cmd.Flags().String("name", "", "Style name")
	for _, role := range style.Roles {
		cmd.Flags().String(string(role), "", fmt.Sprintf("%s color (#RRGGBB)", role))
	}
	return cmd
}

// applyStyle builds the style from --theme, then the per-role flags.
func applyStyle(cmd *cobra.Command) (style.Style, error) {
	st := style.Style{Name: style.ManualName}
	if path, _ := cmd.Flags().GetString("theme"); path != "" {
		theme, err := service.LoadThemeFile(path)
		if err != nil {
			return style.Style{}, err
		}
		st = theme.Style()
	}
	for _, role := range style.Roles {
		v, _ := cmd.Flags().GetString(string(role))
		if v == "" {
			continue
		}
		c, err := style.ParseColor(v)
		if err != nil {
			return style.Style{}, fmt.Errorf("--%s: %w", role, err)
		}
		st = st.With(role, c)
	}
	if name, _ := cmd.Flags().GetString("name"); name != "" {
		st.Name = name
	}
	return st, nil
}
