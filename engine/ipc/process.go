package ipc

import (
	"crypto/rand"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/tsukinaha/tsukimi-sub001/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitGrace         = 3 * time.Second
)

// LaunchOptions configures an mpv process.
type LaunchOptions struct {
	// Path is the mpv executable. Empty means "mpv" from PATH.
	Path string
	// SocketDir holds the IPC socket. Empty means the system temp dir.
	SocketDir string
	// Options are passed as --key=value before any file is loaded.
	Options map[string]string
}

// process is a running mpv instance.
type process struct {
	cmd        *exec.Cmd
	socketPath string
	exited     chan struct{}
}

// Launch starts an idle mpv with an IPC server and connects to it.
// Destroying the returned engine asks mpv to quit and kills it if it does not.
func Launch(opts LaunchOptions) (*Engine, error) {
	path := opts.Path
	if path == "" {
		path = "mpv"
	}

	socketPath, err := socketPath(opts.SocketDir)
	if err != nil {
		return nil, err
	}

	// respect the user's mpv.conf; only what the bridge needs is forced
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--idle=yes",
		"--force-window=yes",
		fmt.Sprintf("--input-ipc-server=%s", socketPath),
	}
	for k, v := range opts.Options {
		args = append(args, fmt.Sprintf("--%s=%s", k, v))
	}

	cmd := exec.Command(path, args...)
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mpv: %w", err)
	}

	p := &process{
		cmd:        cmd,
		socketPath: socketPath,
		exited:     make(chan struct{}),
	}
	go func() {
		_ = cmd.Wait()
		close(p.exited)
	}()

	conn, err := p.waitForSocket()
	if err != nil {
		p.kill()
		return nil, fmt.Errorf("mpv socket not ready: %w", err)
	}

	log.Infof("mpv started with ipc socket %s", socketPath)

	e := New(conn)
	e.onDestroy = p.stop
	return e, nil
}

// Dial connects to an mpv that is already listening on socketPath.
func Dial(socketPath string) (*Engine, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return New(conn), nil
}

func socketPath(dir string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("generate socket name: %w", err)
	}
	return filepath.Join(dir, fmt.Sprintf("tsukimi-%x.sock", randomBytes)), nil
}

// waitForSocket polls until the IPC socket accepts connections and returns the connection.
func (p *process) waitForSocket() (net.Conn, error) {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-p.exited:
			return nil, fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", p.socketPath)
		if err == nil {
			return conn, nil
		}
	}
	return nil, fmt.Errorf("socket %s not ready after %d attempts", p.socketPath, socketWaitRetries)
}

// stop waits for the quit sent over IPC, then signals and finally kills mpv, and removes the socket.
func (p *process) stop() {
	select {
	case <-p.exited:
	case <-time.After(quitGrace):
		_ = interruptProcess(p.cmd)
		select {
		case <-p.exited:
		case <-time.After(quitGrace):
			log.Warnf("mpv did not quit, killing it")
			p.kill()
		}
	}

	_ = os.Remove(p.socketPath)
}

func (p *process) kill() {
	select {
	case <-p.exited:
	default:
		_ = killProcess(p.cmd)
	}
}
