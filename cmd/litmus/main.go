package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/ayusman/litmus/internal/app"
	"github.com/ayusman/litmus/internal/capture"
	"github.com/ayusman/litmus/internal/classifier"
	"github.com/ayusman/litmus/internal/config"
	"github.com/ayusman/litmus/internal/plugin"
	"github.com/ayusman/litmus/internal/server"
	"github.com/ayusman/litmus/internal/status"
	"github.com/ayusman/litmus/internal/store"
	"github.com/ayusman/litmus/internal/transport"
	"github.com/ayusman/litmus/internal/tray"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		device     = flag.Int("device", -1, "camera device index (overrides config)")
		serialPort = flag.String("serial", "", "serial port for readings (overrides config)")
		addr       = flag.String("addr", "", "HTTP status address, \"off\" to disable (overrides config)")
		dbPath     = flag.String("db", "", "history database path, \"off\" to disable (overrides config)")
		replay     = flag.String("replay", "", "play images from this directory instead of the camera")
		pluginDir  = flag.String("plugins", "", "directory of reading plugins (overrides config)")
		withTray   = flag.Bool("tray", false, "show a system tray menu")
		quiet      = flag.Bool("quiet", false, "suppress per-frame console lines")
	)
	flag.Parse()

	fmt.Println("Litmus - pH strip reader")

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	applyFlags(cfg, *device, *serialPort, *addr, *dbPath, *replay)
	if *pluginDir != "" {
		cfg.Plugins.Dir = *pluginDir
	}

	classes, err := cfg.ClassSet()
	if err != nil {
		log.Fatalf("Invalid class table: %v", err)
	}

	camera := newCamera(cfg)

	sender, err := newSender(cfg)
	if err != nil {
		log.Fatalf("Failed to open reading link: %v", err)
	}
	defer sender.Close()

	var st *store.Store
	if cfg.Store.Path != "" {
		if dir := filepath.Dir(cfg.Store.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				log.Fatalf("Failed to create data directory: %v", err)
			}
		}
		st, err = store.New(cfg.Store.Path)
		if err != nil {
			log.Fatalf("Failed to initialize store: %v", err)
		}
		defer st.Close()

		if days := cfg.Store.RetentionDays; days > 0 {
			removed, err := st.Prune(time.Now().AddDate(0, 0, -days))
			if err != nil {
				log.Fatalf("Failed to prune history: %v", err)
			}
			if removed > 0 {
				fmt.Printf("Pruned %d readings older than %d days\n", removed, days)
			}
		}
	}

	hub := status.NewHub()
	source := "camera"
	if cfg.Camera.Replay != "" {
		source = "replay:" + cfg.Camera.Replay
	}

	a := app.New(app.Config{
		Camera:     camera,
		Classifier: classifier.New(classes, cfg.Detection.Classifier()),
		Window:     cfg.Detection.Window.Rectangle(),
		Stability:  cfg.Stability,
		Watchdog:   cfg.Watchdog,
		Sender:     sender,
		Store:      st,
		Source:     source,
		Hub:        hub,
		Stream:     cfg.Server.Stream && cfg.Server.Addr != "",
		Quiet:      *quiet,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		plugins    *plugin.Manager
		dispatcher *plugin.Dispatcher
	)
	if cfg.Plugins.Dir != "" {
		plugins = plugin.NewManager(cfg.Plugins.Dir)
		if err := plugins.Discover(); err != nil {
			log.Fatalf("Failed to discover plugins: %v", err)
		}
		for _, p := range plugins.List() {
			fmt.Printf("Loaded plugin %s %s\n", p.Manifest.Name, p.Manifest.Version)
		}
		dispatcher = plugin.NewDispatcher(ctx, plugins, plugin.NewExecutor(cfg.Plugins.TimeoutMS))
		a.RegisterReadingCallback(dispatcher.Notify)
	}

	var httpServer *http.Server
	if cfg.Server.Addr != "" {
		srv := server.New(server.Config{
			StaticDir: findWebDir(cfg.Server.StaticDir),
			Store:     st,
			Hub:       hub,
			Classes:   classes,
			Detection: a,
			Plugins:   plugins,
		})
		httpServer = srv.HTTPServer(cfg.Server.Addr)
		go func() {
			fmt.Printf("Starting status server on %s\n", cfg.Server.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Status server failed: %v", err)
			}
		}()
	}

	if *withTray {
		t := tray.New(a.Enabled())
		t.OnToggle(a.SetEnabled)
		t.OnQuit(stop)
		if cfg.Server.Addr != "" {
			url := "http://" + cfg.Server.Addr
			t.OnOpen(func() { openBrowser(url) })
		}
		a.RegisterReadingCallback(t.SetReading)

		done := make(chan error, 1)
		go func() {
			done <- a.Run(ctx)
			t.Quit()
		}()
		// The tray owns the main thread until it exits.
		t.Run()
		stop()
		err = <-done
	} else {
		err = a.Run(ctx)
	}

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Status server shutdown: %v", err)
		}
		cancel()
	}

	if dispatcher != nil {
		dispatcher.Wait()
	}

	if err != nil {
		log.Fatalf("Frame loop failed: %v", err)
	}
	fmt.Println("Stopped")
}

// applyFlags overrides config values with the command line flags that were
// set.
func applyFlags(cfg *config.Config, device int, serialPort, addr, dbPath, replay string) {
	if device >= 0 {
		cfg.Camera.Device = device
	}
	if serialPort != "" {
		cfg.Serial.Port = serialPort
	}
	switch addr {
	case "":
	case "off":
		cfg.Server.Addr = ""
	default:
		cfg.Server.Addr = addr
	}
	switch dbPath {
	case "":
	case "off":
		cfg.Store.Path = ""
	default:
		cfg.Store.Path = dbPath
	}
	if replay != "" {
		cfg.Camera.Replay = replay
	}
}

func newCamera(cfg *config.Config) capture.Camera {
	if cfg.Camera.Replay != "" {
		window := cfg.Camera.SensorWindow.Rectangle()
		return capture.NewReplayCamera(cfg.Camera.Replay, window.Dx(), window.Dy())
	}
	return capture.NewCamera(cfg.Camera.Capture())
}

func newSender(cfg *config.Config) (transport.Sender, error) {
	if cfg.Serial.Port == "" {
		return transport.NewWriterSender(os.Stdout), nil
	}
	return transport.OpenSerial(cfg.Serial.Port, cfg.Serial.PortOptions)
}

// findWebDir returns configured if set, otherwise the first of "web",
// "../web" and "../../web" that exists. It returns "" when none does.
func findWebDir(configured string) string {
	if configured != "" {
		return configured
	}
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
