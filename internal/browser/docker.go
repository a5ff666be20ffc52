package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
)

// Instance is one containerized Chrome reachable over CDP
type Instance struct {
	ContainerID string
	ConnectURL  string
	DebugPort   int
}

// DockerRunner launches one throwaway Chrome container per task on hosts
// where running Chrome in-process is not an option.
type DockerRunner struct {
	client *client.Client
	image  string
}

func NewDockerRunner(chromeImage string) (*DockerRunner, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &DockerRunner{client: cli, image: chromeImage}, nil
}

// Start creates and starts a container exposing the CDP endpoint on a
// dynamically assigned host port, then waits for the browser to answer
// /json/version.
func (r *DockerRunner) Start(ctx context.Context, sessionID string) (*Instance, error) {
	containerConfig := &container.Config{
		Image: r.image,
		Labels: map[string]string{
			"session-id": sessionID,
			"managed-by": "scraper",
		},
		Env: []string{
			"CONNECTION_TIMEOUT=-1",
			"MAX_CONCURRENT_SESSIONS=1",
		},
		ExposedPorts: nat.PortSet{
			"3000/tcp": struct{}{},
		},
	}

	hostConfig := &container.HostConfig{
		PortBindings: nat.PortMap{
			"3000/tcp": []nat.PortBinding{
				{HostIP: "0.0.0.0", HostPort: "0"},
			},
		},
		AutoRemove: false,
	}

	resp, err := r.client.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil,
		fmt.Sprintf("task-%s", sessionID[:8]))
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	if err := r.client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return nil, fmt.Errorf("failed to start container: %w", err)
	}

	inspect, err := r.client.ContainerInspect(ctx, resp.ID)
	if err != nil {
		r.Stop(context.Background(), resp.ID)
		return nil, fmt.Errorf("failed to inspect container: %w", err)
	}

	bindings := inspect.NetworkSettings.Ports["3000/tcp"]
	if len(bindings) == 0 {
		r.Stop(context.Background(), resp.ID)
		return nil, fmt.Errorf("no host port bound for container %s", resp.ID)
	}
	port, err := strconv.Atoi(bindings[0].HostPort)
	if err != nil {
		r.Stop(context.Background(), resp.ID)
		return nil, fmt.Errorf("unparseable host port %q: %w", bindings[0].HostPort, err)
	}

	if err := waitForBrowserReady(ctx, port); err != nil {
		r.Stop(context.Background(), resp.ID)
		return nil, err
	}

	return &Instance{
		ContainerID: resp.ID,
		ConnectURL:  fmt.Sprintf("ws://localhost:%d", port),
		DebugPort:   port,
	}, nil
}

func (r *DockerRunner) Stop(ctx context.Context, containerID string) error {
	timeout := 10
	if err := r.client.ContainerStop(ctx, containerID, container.StopOptions{Timeout: &timeout}); err != nil {
		return fmt.Errorf("failed to stop container: %w", err)
	}
	if err := r.client.ContainerRemove(ctx, containerID, container.RemoveOptions{}); err != nil {
		return fmt.Errorf("failed to remove container: %w", err)
	}
	return nil
}

// EnsureImage pulls the Chrome image if it is not present locally
func (r *DockerRunner) EnsureImage(ctx context.Context) error {
	images, err := r.client.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return err
	}
	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == r.image {
				return nil
			}
		}
	}

	reader, err := r.client.ImagePull(ctx, r.image, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", r.image, err)
	}
	defer reader.Close()

	_, err = io.Copy(io.Discard, reader)
	return err
}

func (r *DockerRunner) Close() error {
	return r.client.Close()
}

func waitForBrowserReady(ctx context.Context, port int) error {
	url := fmt.Sprintf("http://localhost:%d/json/version", port)
	const maxRetries = 20

	for i := 0; i < maxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := http.DefaultClient.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}

	return fmt.Errorf("browser did not become ready after %d retries", maxRetries)
}
