package browser

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// stableWindow is how long the DOM and network must stay quiet before capture.
const stableWindow = 300 * time.Millisecond

// RodLauncher starts local headless Chromium processes. Rod downloads Chromium on first use
// unless BrowserBin points at an installed binary.
type RodLauncher struct {
	BrowserBin  string
	NoSandbox   bool
	PageTimeout time.Duration
}

var (
	_ Launcher = RodLauncher{}
	_ Instance = (*rodInstance)(nil)
)

func (l RodLauncher) Launch(ctx context.Context) (Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// ctx bounds startup only; the process must outlive the stage that launched it.
	launchCtx, cancelLaunch := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(ctx, cancelLaunch)

	lc := launcher.New().Context(launchCtx).Headless(true)
	if l.BrowserBin != "" {
		lc = lc.Bin(l.BrowserBin)
	}
	if l.NoSandbox || l.BrowserBin != "" {
		lc = lc.NoSandbox(true)
	}

	u, err := lc.Launch()
	if !stop() {
		lc.Kill()
		return nil, fmt.Errorf("%w: %w", ErrBrowserLaunch, ctx.Err())
	}
	if err != nil {
		lc.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		lc.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}

	timeout := l.PageTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &rodInstance{browser: b, launcher: lc, pageTimeout: timeout}, nil
}

type rodInstance struct {
	browser     *rod.Browser
	launcher    *launcher.Launcher
	pageTimeout time.Duration
}

func (i *rodInstance) Render(ctx context.Context, req Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.pageTimeout)
		defer cancel()
	}

	page, err := i.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	p := page.Context(ctx)

	if req.Width > 0 && req.Height > 0 {
		scale := req.Scale
		if scale <= 0 {
			scale = 1
		}
		err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             req.Width,
			Height:            req.Height,
			DeviceScaleFactor: scale,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: viewport: %v", ErrPageLoad, err)
		}
	}

	if err := p.SetDocumentContent(req.HTML); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := p.WaitStable(stableWindow); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	switch req.Format {
	case FormatPDF:
		reader, err := p.PDF(pdfOptions(req.Paper))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCapture, err)
		}
		buf, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrCapture, err)
		}
		return buf, nil
	default:
		buf, err := p.Screenshot(false, &proto.PageCaptureScreenshot{
			Format: proto.PageCaptureScreenshotFormatPng,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCapture, err)
		}
		return buf, nil
	}
}

func (i *rodInstance) Close() error {
	err := i.browser.Close()
	if i.launcher != nil {
		i.launcher.Cleanup()
	}
	return err
}

func pdfOptions(paper *Paper) *proto.PagePrintToPDF {
	pp := LetterPaper
	if paper != nil {
		pp = *paper
	}
	return &proto.PagePrintToPDF{
		Landscape:       pp.Landscape,
		PaperWidth:      floatPtr(pp.Width),
		PaperHeight:     floatPtr(pp.Height),
		MarginTop:       floatPtr(pp.Margin),
		MarginBottom:    floatPtr(pp.Margin),
		MarginLeft:      floatPtr(pp.Margin),
		MarginRight:     floatPtr(pp.Margin),
		PrintBackground: true,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
