// Package render drives headless Chrome against the dashboard page and
// harvests everything the extraction strategies need in one pass. It is
// the only component that talks to a browser; everything downstream is
// pure.
package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"poswatch/internal/extract"
	"poswatch/internal/logger"
)

// ErrContentUnavailable marks a run where the page never produced
// extractable content: navigation failure, render timeout, or a dead
// browser. The previous snapshot must be left untouched so the next run
// retries from the same baseline.
var ErrContentUnavailable = errors.New("page content unavailable")

type Options struct {
	URL         string
	UserAgent   string
	ChromePath  string
	Headless    bool
	NavTimeout  time.Duration
	SettleDelay time.Duration
}

type PageRenderer struct {
	opts Options
}

func New(opts Options) *PageRenderer {
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = 2 * time.Minute
	}
	return &PageRenderer{opts: opts}
}

// Fetch loads the page, waits for client-side hydration to settle, and
// returns the harvested content. Any failure here is fatal for the run.
func (r *PageRenderer) Fetch(ctx context.Context) (extract.Content, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1366, 900),
	)
	if !r.opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if ua := strings.TrimSpace(r.opts.UserAgent); ua != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(ua))
	}
	if path := strings.TrimSpace(r.opts.ChromePath); path != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(path))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// Budget covers navigation plus the settle delay plus harvesting.
	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, r.opts.NavTimeout+r.opts.SettleDelay+15*time.Second)
	defer cancelTimeout()

	started := time.Now()
	var payload harvested
	tasks := chromedp.Tasks{
		chromedp.Navigate(r.opts.URL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(r.opts.SettleDelay),
		chromedp.Evaluate(harvestJS, &payload),
	}
	if err := chromedp.Run(timeoutCtx, tasks...); err != nil {
		return extract.Content{}, fmt.Errorf("%w: %v", ErrContentUnavailable, err)
	}
	logger.Infof("render: fetched %s in %s (next_data=%dB sections=%d lines=%d)",
		r.opts.URL, time.Since(started).Truncate(time.Millisecond),
		len(payload.NextData), len(payload.Sections), len(payload.Lines))

	content := extract.Content{
		URL:      r.opts.URL,
		NextData: payload.NextData,
		Lines:    payload.Lines,
	}
	for _, s := range payload.Sections {
		content.Sections = append(content.Sections, extract.Section{Text: s.Text, Rows: s.Rows})
	}
	return content, nil
}

type harvested struct {
	NextData string `json:"nextData"`
	Sections []struct {
		Text string     `json:"text"`
		Rows [][]string `json:"rows"`
	} `json:"sections"`
	Lines []string `json:"lines"`
}

// harvestJS collects, in one evaluate call: the hydration payload, every
// container that carries table-like rows (with full text kept for
// scoring), and the page's visible text lines. Exotic unicode spaces are
// normalized here so the Go side deals with plain text.
const harvestJS = `(() => {
	const clean = (s) => (s || "").replace(/[\u00A0\u202F\u2000-\u200B]/g, " ");
	const trimAll = (s) => clean(s).replace(/[ \t]+/g, " ").trim();

	const nextEl = document.querySelector("#__NEXT_DATA__");
	const nextData = nextEl ? (nextEl.textContent || "") : "";

	const sections = [];
	const candidates = Array.from(document.querySelectorAll("section, div, table"));
	for (const el of candidates) {
		const rowEls = Array.from(el.querySelectorAll("tr, [role='row']"));
		if (!rowEls.length) continue;
		const rows = [];
		for (const rowEl of rowEls) {
			const cells = Array.from(rowEl.querySelectorAll("td, [role='cell']"))
				.map((c) => clean(c.innerText));
			if (cells.length >= 3) rows.push(cells);
		}
		if (rows.length) {
			sections.push({ text: clean(el.innerText || "").slice(0, 4000), rows });
		}
		if (sections.length >= 40) break;
	}

	const lines = clean(document.body ? document.body.innerText : "")
		.split(/\r?\n/)
		.map(trimAll)
		.filter(Boolean)
		.slice(0, 2000);

	return { nextData, sections, lines };
})()`
