package main

import (
	"context"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"diffpane/backend"
	"diffpane/engine"
	"diffpane/types"

	"github.com/neovim/go-client/nvim"
)

type Daemon struct {
	config      Config
	service     types.DiffService
	host        *nvimHost
	engine      *engine.Engine
	listener    net.Listener
	socketPath  string
	pidPath     string
	clientCount int64
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewDaemon(config Config) (*Daemon, error) {
	service, err := backend.New(types.BackendConfig{
		Kind:      types.BackendKind(config.Backend),
		URL:       config.BackendURL,
		APIKey:    config.APIKey,
		TimeoutMs: config.RequestTimeout,
	})
	if err != nil {
		return nil, err
	}

	engineConfig := engine.DefaultConfig()
	if config.RequestTimeout > 0 {
		engineConfig.RequestTimeout = time.Duration(config.RequestTimeout) * time.Millisecond
	}
	if config.PatchDebounce > 0 {
		engineConfig.PatchDebounce = time.Duration(config.PatchDebounce) * time.Millisecond
	}
	engineConfig.WheelLineHeight = config.WheelLineHeight

	host := newNvimHost()
	eng := engine.New(service, host, engineConfig)

	ctx, cancel := context.WithCancel(context.Background())

	return &Daemon{
		config:     config,
		service:    service,
		host:       host,
		engine:     eng,
		socketPath: getSocketPath(),
		pidPath:    getPidPath(),
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

func (d *Daemon) Start() error {
	d.writePidFile()
	defer d.removePidFile()

	if err := d.setupSocket(); err != nil {
		return err
	}
	defer d.cleanup()

	log.Printf("daemon listening on socket: %s", d.socketPath)

	d.engine.Start(d.ctx)

	d.setupShutdownHandling()

	go d.acceptConnections()
	go d.monitorIdleShutdown()

	<-d.ctx.Done()
	log.Printf("daemon shutting down...")
	return nil
}

func (d *Daemon) setupSocket() error {
	os.Remove(d.socketPath)

	listener, err := net.Listen("unix", d.socketPath)
	if err != nil {
		return err
	}
	d.listener = listener
	return nil
}

func (d *Daemon) setupShutdownHandling() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Printf("received shutdown signal")
		d.Stop()
	}()
}

func (d *Daemon) acceptConnections() {
	for {
		conn, err := d.listener.Accept()
		if err != nil {
			select {
			case <-d.ctx.Done():
				return // Server is shutting down
			default:
				log.Printf("error accepting connection: %v", err)
				continue
			}
		}

		atomic.AddInt64(&d.clientCount, 1)
		log.Printf("new client connected, total clients: %d", atomic.LoadInt64(&d.clientCount))
		go d.handleConnection(conn)
	}
}

func (d *Daemon) handleConnection(conn net.Conn) {
	defer conn.Close()
	defer func() {
		atomic.AddInt64(&d.clientCount, -1)
		log.Printf("client disconnected, remaining clients: %d", atomic.LoadInt64(&d.clientCount))
	}()

	n, err := nvim.New(conn, conn, conn, log.Printf)
	if err != nil {
		log.Printf("error creating nvim client: %v", err)
		return
	}

	d.host.SetNvim(n)
	if err := d.registerHandlers(n); err != nil {
		log.Printf("error registering handlers: %v", err)
		return
	}

	select {
	case <-d.ctx.Done():
		return
	default:
		if err := n.Serve(); err != nil && err != io.EOF {
			log.Printf("error serving connection: %v", err)
		}
	}
}

func (d *Daemon) monitorIdleShutdown() {
	// In debug mode, shut down immediately when no clients are connected
	if d.config.DebugImmediateShutdown {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-d.ctx.Done():
				return
			case <-ticker.C:
				if atomic.LoadInt64(&d.clientCount) == 0 {
					log.Printf("debug mode: no clients connected, shutting down daemon immediately")
					d.Stop()
					return
				}
			}
		}
	}

	// Normal mode: wait for timeout period before shutting down
	idleTimer := time.NewTimer(30 * time.Second)
	defer idleTimer.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-idleTimer.C:
			if atomic.LoadInt64(&d.clientCount) == 0 {
				log.Printf("no clients connected for timeout period, shutting down daemon")
				d.Stop()
				return
			}
		}

		if atomic.LoadInt64(&d.clientCount) == 0 {
			idleTimer.Reset(5 * time.Second)
		} else {
			idleTimer.Reset(30 * time.Second)
		}
	}
}

func (d *Daemon) Stop() {
	d.engine.Stop()
	if d.listener != nil {
		d.listener.Close()
	}
	d.cancel()
}

func (d *Daemon) cleanup() {
	os.Remove(d.socketPath)
}

func (d *Daemon) writePidFile() {
	pid := os.Getpid()
	err := os.WriteFile(d.pidPath, []byte(strconv.Itoa(pid)), 0644)
	if err != nil {
		log.Printf("warning: could not write PID file: %v", err)
	}
	log.Printf("server started with PID %d", pid)
}

func (d *Daemon) removePidFile() {
	if err := os.Remove(d.pidPath); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not remove PID file: %v", err)
	}
}
