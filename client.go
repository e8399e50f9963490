package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"diffpane/logger"
)

type Client struct {
	socketPath string
}

func NewClient() *Client {
	return &Client{
		socketPath: getSocketPath(),
	}
}

func (c *Client) Connect() error {
	// Connect to daemon
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Relay between stdin/stdout and socket
	go func() {
		io.Copy(conn, os.Stdin)
		conn.Close()
	}()

	io.Copy(os.Stdout, conn)
	return nil
}

func (c *Client) EnsureDaemonRunning() error {
	running, pid := isDaemonRunning()
	if running {
		logger.Debug("daemon already running with PID %d", pid)
		return nil
	}

	return c.startDaemon()
}

func (c *Client) startDaemon() error {
	// The daemon reads its backend configuration from DIFFPANE_CONFIG and
	// exits immediately without it; fail here with a usable error instead.
	if os.Getenv("DIFFPANE_CONFIG") == "" {
		return fmt.Errorf("DIFFPANE_CONFIG is not set; cannot start the diffpane daemon")
	}

	logger.Debug("starting daemon...")

	// Start daemon in background
	cmd := []string{os.Args[0], "--daemon"}
	env := os.Environ()

	// Start the daemon process
	_, err := os.StartProcess(os.Args[0], cmd, &os.ProcAttr{
		Env: env,
		Files: []*os.File{
			nil, // stdin
			nil, // stdout
			nil, // stderr
		},
	})
	if err != nil {
		return err
	}

	// Wait for daemon to start
	return c.waitForDaemon()
}

func (c *Client) waitForDaemon() error {
	for i := 0; i < 50; i++ { // Wait up to 5 seconds
		running, _ := isDaemonRunning()
		if !running {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		// The pid file is written before the socket is listening; only a
		// present socket means Connect will succeed.
		if _, err := os.Stat(c.socketPath); err == nil {
			logger.Debug("daemon started successfully")
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("daemon failed to start within timeout")
}
