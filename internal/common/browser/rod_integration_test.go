//go:build integration

package browser

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"testing"
	"time"

	"demo-generator/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func integrationPool(t *testing.T) *Pool {
	t.Helper()
	l := RodLauncher{
		BrowserBin:  os.Getenv("ROD_BROWSER_BIN"),
		NoSandbox:   os.Getenv("CI") == "true",
		PageTimeout: 30 * time.Second,
	}
	pool := NewPool(l, logger.NewTestLogger(t))
	t.Cleanup(func() { _ = pool.Close() })
	return pool
}

func TestRodPool_RendersPNG(t *testing.T) {
	pool := integrationPool(t)
	require.NoError(t, pool.Init(context.Background(), 1))

	out, err := pool.Render(context.Background(), Request{
		HTML:   `<html><body style="background:#123456"><h1>Hello</h1></body></html>`,
		Format: FormatPNG,
		Width:  400,
		Height: 400,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("\x89PNG")), "missing PNG signature")
}

func TestRodPool_RendersPDFLazily(t *testing.T) {
	pool := integrationPool(t)

	out, err := pool.Render(context.Background(), Request{
		HTML:   `<html><body><h1>Report</h1><p>Body</p></body></html>`,
		Format: FormatPDF,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "missing PDF magic bytes")
	assert.Equal(t, 1, pool.Size())
}

func TestRodPool_WaitsForLateStyleChanges(t *testing.T) {
	pool := integrationPool(t)
	require.NoError(t, pool.Init(context.Background(), 1))

	out, err := pool.Render(context.Background(), Request{
		HTML: `<html><body style="margin:0;background:#ff0000">
<script>setTimeout(function () { document.body.style.background = "#00ff00"; }, 100);</script>
</body></html>`,
		Format: FormatPNG,
		Width:  200,
		Height: 200,
	})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	r, g, b, _ := img.At(100, 100).RGBA()
	assert.Equal(t, [3]uint32{0, 0xffff, 0}, [3]uint32{r, g, b})
}

func TestRodLauncher_StartupBoundByContext(t *testing.T) {
	l := RodLauncher{
		BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		NoSandbox:  os.Getenv("CI") == "true",
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	inst, err := l.Launch(ctx)
	if inst != nil {
		_ = inst.Close()
	}
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrBrowserLaunch), err.Error())
}
