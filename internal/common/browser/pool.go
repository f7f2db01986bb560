// Package browser renders HTML to PNG or PDF through a small pool of headless Chromium instances.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"demo-generator/internal/common/logger"
	"demo-generator/internal/common/metrics"
)

// DefaultPoolSize is used when Init is called with a non-positive size.
const DefaultPoolSize = 3

var (
	ErrBrowserLaunch = errors.New("failed to launch browser")
	ErrPageCreate    = errors.New("failed to create browser page")
	ErrPageLoad      = errors.New("failed to load page")
	ErrCapture       = errors.New("failed to capture page")
	ErrPoolClosed    = errors.New("render pool is closed")
)

// Format selects the capture output.
type Format int

const (
	FormatPNG Format = iota
	FormatPDF
)

func (f Format) String() string {
	if f == FormatPDF {
		return "pdf"
	}
	return "png"
}

// Request describes one render. Width and Height set the viewport for screenshots.
type Request struct {
	HTML   string
	Format Format
	Width  int
	Height int
	Scale  float64
	Paper  *Paper
}

// Paper sets PDF page geometry in inches.
type Paper struct {
	Width, Height float64
	Margin        float64
	Landscape     bool
}

// LetterPaper is US Letter with half-inch margins.
var LetterPaper = Paper{Width: 8.5, Height: 11, Margin: 0.5}

// Instance is one running browser.
type Instance interface {
	Render(ctx context.Context, req Request) ([]byte, error)
	Close() error
}

// Launcher starts browser instances.
type Launcher interface {
	Launch(ctx context.Context) (Instance, error)
}

// Renderer is what graphics and document rendering depend on.
type Renderer interface {
	Render(ctx context.Context, req Request) ([]byte, error)
}

// Pool hands renders to its instances round-robin. Without Init, the first Render
// lazily starts a single shared instance. Close is idempotent and safe before Init.
type Pool struct {
	launcher Launcher
	logger   logger.Logger

	mu        sync.Mutex
	instances []Instance
	closed    bool

	next atomic.Uint64
}

func NewPool(launcher Launcher, log logger.Logger) *Pool {
	return &Pool{
		launcher: launcher,
		logger:   logger.ForComponent(log, "render-pool"),
	}
}

// Init starts size instances. Instances that fail to launch are skipped;
// Init fails only when none could be started.
func (p *Pool) Init(ctx context.Context, size int) error {
	if size < 1 {
		size = DefaultPoolSize
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPoolClosed
	}
	if len(p.instances) > 0 {
		return nil
	}

	var errs []error
	for i := 0; i < size; i++ {
		inst, err := p.launcher.Launch(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		p.instances = append(p.instances, inst)
		metrics.RenderPoolInstances.Inc()
	}

	if len(p.instances) == 0 {
		return fmt.Errorf("%w: %w", ErrBrowserLaunch, errors.Join(errs...))
	}
	if len(errs) > 0 {
		p.logger.Warn("Render pool started with fewer instances than requested", map[string]interface{}{
			"requested": size,
			"started":   len(p.instances),
			"error":     errors.Join(errs...).Error(),
		})
	}

	p.logger.Info("Render pool initialized", map[string]interface{}{"instances": len(p.instances)})
	return nil
}

// Render picks the next instance and renders req on a fresh page.
func (p *Pool) Render(ctx context.Context, req Request) ([]byte, error) {
	inst, err := p.pick(ctx)
	if err != nil {
		return nil, err
	}
	return inst.Render(ctx, req)
}

func (p *Pool) pick(ctx context.Context) (Instance, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPoolClosed
	}

	if len(p.instances) == 0 {
		inst, err := p.launcher.Launch(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBrowserLaunch, err)
		}
		p.instances = append(p.instances, inst)
		metrics.RenderPoolInstances.Inc()
	}

	idx := p.next.Add(1) - 1
	return p.instances[idx%uint64(len(p.instances))], nil
}

// Size returns the number of running instances.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.instances)
}

// Close stops every instance and aggregates their errors.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	instances := p.instances
	p.instances = nil
	p.mu.Unlock()

	var errs []error
	for _, inst := range instances {
		if err := inst.Close(); err != nil {
			errs = append(errs, err)
		}
		metrics.RenderPoolInstances.Dec()
	}
	return errors.Join(errs...)
}
