package session

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/ismailisimba/scraper/internal/browser"
)

// ExecLauncher runs Chrome as a child process of the service. The launch
// flags disable sandboxing so the browser works inside constrained
// containers; the viewport is fixed at desktop size.
type ExecLauncher struct{}

func NewExecLauncher() *ExecLauncher {
	return &ExecLauncher{}
}

func (l *ExecLauncher) Launch(ctx context.Context) (*Session, error) {
	// an already-abandoned request must not pay for a Chrome launch
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	debugPort, err := freePort()
	if err != nil {
		return nil, fmt.Errorf("no free debug port: %w", err)
	}

	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("remote-debugging-port", strconv.Itoa(debugPort)),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// an empty run forces the browser process to start now, so a broken
	// install fails acquisition instead of the first navigation
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, err
	}

	cancel := func() {
		cancelTab()
		cancelAlloc()
	}
	return New(uuid.New().String(), tabCtx, cancel, nil, debugPort), nil
}

// DockerLauncher starts a throwaway Chrome container per task and attaches
// over the container's CDP websocket.
type DockerLauncher struct {
	runner *browser.DockerRunner
}

func NewDockerLauncher(runner *browser.DockerRunner) *DockerLauncher {
	return &DockerLauncher{runner: runner}
}

func (l *DockerLauncher) Launch(ctx context.Context) (*Session, error) {
	id := uuid.New().String()

	inst, err := l.runner.Start(ctx, id)
	if err != nil {
		return nil, err
	}

	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(context.Background(), inst.ConnectURL)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		l.stopContainer(inst.ContainerID)
		return nil, err
	}

	cancel := func() {
		cancelTab()
		cancelAlloc()
	}
	cleanup := func() {
		l.stopContainer(inst.ContainerID)
	}
	return New(id, tabCtx, cancel, cleanup, inst.DebugPort), nil
}

func (l *DockerLauncher) stopContainer(containerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := l.runner.Stop(ctx, containerID); err != nil {
		slog.Warn("failed to stop browser container",
			slog.String("container", containerID), slog.String("err", err.Error()))
	}
}

func freePort() (int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port, nil
}
