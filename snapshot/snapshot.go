package snapshot

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"parking-dashboard/config"
	"parking-dashboard/utils"
)

// DefaultViews are the dashboard states captured when none are given.
var DefaultViews = []string{
	"/?page=source",
	"/?page=overview",
	"/?page=project&view=grid",
	"/?page=project&view=flat",
	"/?page=project&view=heat",
	"/?page=project&tow=Yes&view=flat",
	"/?page=project&tow=No&view=flat",
}

// settleDelay lets deck.gl and Plotly finish drawing before the capture.
const settleDelay = 3 * time.Second

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Capturer takes full-page PNG screenshots of a running dashboard.
type Capturer struct {
	cfg     *config.Config
	logger  *utils.Logger
	pool    *utils.WorkerPool
	visited *utils.URLSet
	retry   *utils.RetryConfig

	mu    sync.Mutex
	files []string
}

// New creates a ready-to-use Capturer.
func New(cfg *config.Config, logger *utils.Logger) *Capturer {
	return &Capturer{
		cfg:     cfg,
		logger:  logger,
		pool:    utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		visited: utils.NewURLSet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Capture screenshots each view (a path plus query relative to the
// configured base URL) into the snapshot directory and returns the written
// file paths. Duplicate views are captured once.
func (c *Capturer) Capture(ctx context.Context, views []string) ([]string, error) {
	if len(views) == 0 {
		views = DefaultViews
	}
	if err := os.MkdirAll(c.cfg.SnapshotDir, 0755); err != nil {
		return nil, fmt.Errorf("snapshot: create output dir: %w", err)
	}

	chromeBin := c.cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	c.logger.Info("[snapshot] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", false),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1400, 1000),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("snapshot: start browser: %w", err)
	}

	for _, view := range views {
		target, err := ViewURL(c.cfg.SnapshotBaseURL, view)
		if err != nil {
			return nil, err
		}
		if !c.visited.Add(target) {
			c.logger.Debug("[snapshot] Duplicate view skipped: %s", target)
			continue
		}

		out := filepath.Join(c.cfg.SnapshotDir, FileName(view))
		c.pool.Submit(func() error {
			return c.captureOne(browserCtx, target, out)
		})
	}

	errs := c.pool.Wait()
	for _, err := range errs {
		c.logger.Error("[snapshot] %v", err)
	}

	c.logger.Info("[snapshot] Captured %d of %d views into %s", len(c.files), c.visited.Size(), c.cfg.SnapshotDir)
	if len(errs) > 0 {
		return c.files, fmt.Errorf("snapshot: %d captures failed, first: %w", len(errs), errs[0])
	}
	return c.files, nil
}

func (c *Capturer) captureOne(browserCtx context.Context, target, out string) error {
	var png []byte

	err := c.retry.DoContext(browserCtx, "capture "+target, func(context.Context) error {
		tabCtx, cancelTab := chromedp.NewContext(browserCtx)
		defer cancelTab()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 60*time.Second)
		defer cancelTimeout()

		return chromedp.Run(tabCtx,
			chromedp.Navigate(target),
			chromedp.WaitVisible("main", chromedp.ByQuery),
			chromedp.Sleep(settleDelay),
			chromedp.FullScreenshot(&png, 90),
		)
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, png, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	c.mu.Lock()
	c.files = append(c.files, out)
	c.mu.Unlock()

	c.logger.Info("[snapshot] %s → %s", target, out)
	return nil
}

// ViewURL resolves a view against the dashboard base URL.
func ViewURL(baseURL, view string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("snapshot: base url %q: %w", baseURL, err)
	}
	ref, err := url.Parse(view)
	if err != nil {
		return "", fmt.Errorf("snapshot: view %q: %w", view, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// FileName derives a stable PNG name from a view, e.g.
// "/?page=project&view=heat" becomes "page-project-view-heat.png".
func FileName(view string) string {
	name := strings.Trim(unsafeName.ReplaceAllString(view, "-"), "-")
	if name == "" {
		name = "index"
	}
	return strings.ToLower(name) + ".png"
}

func findChromeBinary() string {
	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
