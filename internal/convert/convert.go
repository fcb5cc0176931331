// Package convert is the fallback extraction path: when native parsing
// yields no text, the document is handed to a LibreOffice container which
// converts it to plain text. Requires DOCKER_HOST (or a local socket); the
// worker skips this path when no daemon is reachable.
package convert

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	img "github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
)

const defaultImage = "lscr.io/linuxserver/libreoffice:latest"

// Converter drives one-shot LibreOffice containers over a shared volume.
type Converter struct {
	cli   *client.Client
	image string
}

// New connects to the Docker daemon from the environment. Returns an error
// when no daemon is reachable, which callers treat as "fallback disabled".
func New(ctx context.Context) (*Converter, error) {
	cli, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	if _, err := cli.Ping(ctx); err != nil {
		return nil, fmt.Errorf("cannot reach docker daemon (%s): %w", os.Getenv("DOCKER_HOST"), err)
	}
	image := os.Getenv("CONVERT_IMAGE")
	if image == "" {
		image = defaultImage
	}
	return &Converter{cli: cli, image: image}, nil
}

// ToText copies the document into a fresh volume, runs soffice headless to
// convert it, and returns the converted text from the container's stdout.
func (c *Converter) ToText(ctx context.Context, filename string, data []byte) (string, error) {
	phaseCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	if err := c.pullIfNeeded(phaseCtx, c.image); err != nil {
		return "", fmt.Errorf("pull convert image %s: %w", c.image, err)
	}

	volName := fmt.Sprintf("veridoc-convert-%d", time.Now().UnixNano())
	if _, err := c.cli.VolumeCreate(phaseCtx, volume.CreateOptions{Name: volName}); err != nil {
		return "", fmt.Errorf("volume create: %w", err)
	}
	defer func() {
		if err := c.cli.VolumeRemove(context.Background(), volName, true); err != nil {
			log.Printf("warn: remove volume %s: %v", volName, err)
		}
	}()

	input := "input" + ext(filename)
	if err := c.copyBytesToVolume(phaseCtx, volName, input, data); err != nil {
		return "", fmt.Errorf("copy document: %w", err)
	}

	// Convert and cat in one shot; the txt output name mirrors the input.
	script := fmt.Sprintf(
		"soffice --headless --convert-to txt:Text --outdir /work /work/%s >/dev/null 2>&1 && cat /work/input.txt",
		input,
	)
	stdout, stderr, exitCode, err := c.runWithLogs(phaseCtx, volName, []string{"sh", "-c", script})
	if err != nil {
		return "", fmt.Errorf("convert run: %w", err)
	}
	if exitCode != 0 {
		return "", fmt.Errorf("convert exit code=%d\nstderr:\n%s", exitCode, stderr)
	}
	text := strings.TrimSpace(stdout)
	if text == "" {
		return "", fmt.Errorf("converter produced no text for %s", filename)
	}
	return text, nil
}

func ext(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		return filename[i:]
	}
	return ""
}

func (c *Converter) pullIfNeeded(ctx context.Context, image string) error {
	reader, err := c.cli.ImagePull(ctx, image, img.PullOptions{})
	if err != nil {
		return err
	}
	defer reader.Close()
	_, _ = io.Copy(io.Discard, reader) // eat the progress stream
	return nil
}

// runWithLogs creates a container with /work mounted from the volume, runs
// cmd with networking disabled, collects demuxed logs, cleans up.
func (c *Converter) runWithLogs(ctx context.Context, volName string, cmd []string) (stdout, stderr string, exitCode int, err error) {
	hostCfg := &container.HostConfig{
		NetworkMode: container.NetworkMode("none"),
		Mounts: []mount.Mount{{
			Type:   mount.TypeVolume,
			Source: volName,
			Target: "/work",
		}},
		Resources: container.Resources{
			Memory:   1 << 30, // 1 GiB
			NanoCPUs: 1e9,     // 1 CPU
		},
	}

	create, err := c.cli.ContainerCreate(ctx, &container.Config{
		Image:      c.image,
		Entrypoint: []string{},
		Cmd:        cmd,
		Tty:        false,
	}, hostCfg, nil, nil, "")
	if err != nil {
		return "", "", 0, fmt.Errorf("create: %w", err)
	}
	cid := create.ID
	defer func() {
		timeout := 5
		_ = c.cli.ContainerStop(context.Background(), cid, container.StopOptions{Timeout: &timeout})
		_ = c.cli.ContainerRemove(context.Background(), cid, container.RemoveOptions{Force: true})
	}()

	if err := c.cli.ContainerStart(ctx, cid, container.StartOptions{}); err != nil {
		return "", "", 0, fmt.Errorf("start: %w", err)
	}

	statusCh, errCh := c.cli.ContainerWait(ctx, cid, container.WaitConditionNotRunning)
	select {
	case err = <-errCh:
		if err != nil {
			return "", "", 0, fmt.Errorf("wait: %w", err)
		}
	case st := <-statusCh:
		exitCode = int(st.StatusCode)
	}

	var outBuf, errBuf bytes.Buffer
	logs, err := c.cli.ContainerLogs(ctx, cid, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err == nil {
		defer logs.Close()
		var sb bytes.Buffer
		_, _ = io.Copy(&sb, logs)
		if _, err := stdcopy.StdCopy(&outBuf, &errBuf, bytes.NewReader(sb.Bytes())); err != nil {
			// fallback: put everything into stdout
			outBuf = sb
		}
	}
	return outBuf.String(), errBuf.String(), exitCode, nil
}

// copyBytesToVolume spins a helper container mounting the volume and uploads
// the file via the archive API.
func (c *Converter) copyBytesToVolume(ctx context.Context, volName, destPath string, data []byte) error {
	create, err := c.cli.ContainerCreate(ctx, &container.Config{
		Image:      c.image,
		Entrypoint: []string{},
		Cmd:        []string{"sleep", "60"},
		Tty:        false,
	}, &container.HostConfig{
		Mounts: []mount.Mount{{
			Type:   mount.TypeVolume,
			Source: volName,
			Target: "/work",
		}},
	}, nil, nil, "")
	if err != nil {
		return fmt.Errorf("copy helper create: %w", err)
	}
	cid := create.ID
	defer func() {
		timeout := 2
		_ = c.cli.ContainerStop(context.Background(), cid, container.StopOptions{Timeout: &timeout})
		_ = c.cli.ContainerRemove(context.Background(), cid, container.RemoveOptions{Force: true})
	}()

	if err := c.cli.ContainerStart(ctx, cid, container.StartOptions{}); err != nil {
		return fmt.Errorf("copy helper start: %w", err)
	}

	tarBuf := new(bytes.Buffer)
	tw := tar.NewWriter(tarBuf)
	hdr := &tar.Header{
		Name: destPath,
		Mode: 0644,
		Size: int64(len(data)),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if _, err := tw.Write(data); err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}

	return c.cli.CopyToContainer(ctx, cid, "/work", bytes.NewReader(tarBuf.Bytes()), container.CopyToContainerOptions{AllowOverwriteDirWithFile: true})
}
