package diode

import (
	"context"
	"fmt"
	"sync"

	"github.com/bft-labs/diodeship/internal/adapters/fs"
	logAdapter "github.com/bft-labs/diodeship/internal/adapters/log"
	"github.com/bft-labs/diodeship/internal/adapters/serial"
	"github.com/bft-labs/diodeship/internal/app"
	"github.com/bft-labs/diodeship/internal/domain"
	"github.com/bft-labs/diodeship/internal/ports"
)

// Client sends and receives files over a one-way serial link.
// At most one Send, ReceiveOnce or Listen runs at a time; a concurrent call
// fails with ErrBusy.
type Client struct {
	mu     sync.RWMutex
	config Config

	opts     options
	logger   ports.Logger
	gate     app.Gate
	enum     ports.PortEnumerator
	locator  *app.Locator
	sender   *app.Sender
	receiver *app.Receiver
	listener *app.Listener
}

// New creates a Client. Zero-valued fields are defaulted (see
// Config.SetDefaults) and the result is validated.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = logAdapter.NewNoopLogger()
	}

	opener := o.opener
	if opener == nil {
		var err error
		if opener, err = serial.NewOpener(cfg.Driver); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	enum := o.enumerator
	if enum == nil {
		enum = serial.Enumerator{}
	}
	store := o.store
	if store == nil {
		store = fs.NewArtifactFileStore()
	}

	var events app.EventHandler
	if o.eventHandler != nil {
		events = eventEmitterWrapper{handler: o.eventHandler}
	}

	c := &Client{
		config: cfg,
		opts:   o,
		logger: logger,
		enum:   enum,
	}
	c.locator = app.NewLocator(enum, logger)
	c.sender = app.NewSender(opener, logger, cfg.ReadTimeout)
	c.receiver = app.NewReceiver(opener, store, logger, app.ReceiverConfig{
		ReadTimeout: cfg.ReadTimeout,
		MaxPayload:  cfg.MaxPayloadBytes,
	})
	c.listener = app.NewListener(c.receiver, app.ListenConfig{}, logger, events)
	return c, nil
}

// Config returns the configuration currently in effect.
func (c *Client) Config() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// Ports lists the serial ports visible to the host.
func (c *Client) Ports() ([]PortInfo, error) {
	return c.enum.Ports()
}

// FindPort returns the first USB port matching the configured VID/PID.
// It never opens a port.
func (c *Client) FindPort() (string, bool) {
	cfg := c.Config()
	return c.locator.FindPort(cfg.VendorID, cfg.ProductID)
}

// Send transmits the file at path as a single frame. A nil error only
// means the bytes were handed to the serial driver.
func (c *Client) Send(ctx context.Context, path string) error {
	release, err := c.gate.Acquire()
	if err != nil {
		return err
	}
	defer release()

	cfg := c.Config()
	return c.sender.SendFile(ctx, c.resolve(cfg, DefaultSendPort()), cfg.ECC, path)
}

// ReceiveOnce performs a single receive attempt. ErrTimeout means nothing
// arrived within the read timeout.
func (c *Client) ReceiveOnce(ctx context.Context) (Receipt, error) {
	release, err := c.gate.Acquire()
	if err != nil {
		return Receipt{}, err
	}
	defer release()

	cfg := c.Config()
	return c.receiver.ReceiveFrame(ctx, c.resolve(cfg, DefaultReceivePort()), cfg.ECC, cfg.OutputDir)
}

// Listen receives frames until Stop is called or ctx is done. Failed
// attempts are reported through the logger and EventHandler and do not end
// the loop. Registered plugins run for the duration of the call.
func (c *Client) Listen(ctx context.Context) error {
	release, err := c.gate.Acquire()
	if err != nil {
		return err
	}
	defer release()

	cfg := c.Config()
	c.listener.Update(c.listenConfig(cfg))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	started, err := c.initPlugins(runCtx, cfg)
	defer c.shutdownPlugins(started)
	if err != nil {
		return err
	}

	c.logger.Info("listening",
		ports.String("port", c.listener.Config().Port.String()),
		ports.Int("ecc", cfg.ECC),
		ports.String("output_dir", cfg.OutputDir),
	)
	return c.listener.Run(runCtx)
}

// Stop ends a running Listen after its current attempt. It returns
// ErrNotRunning when the client is not listening.
func (c *Client) Stop() error {
	return c.listener.Stop()
}

// State returns the listen state.
func (c *Client) State() State {
	return c.listener.State()
}

// Reconfigure replaces the port, baud rate, ECC, output directory, idle
// pause and USB ids. A running Listen applies them at its next attempt.
// ReadTimeout, MaxPayloadBytes and Driver are fixed when the client is created.
func (c *Client) Reconfigure(cfg Config) error {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	cfg.ReadTimeout = c.config.ReadTimeout
	cfg.MaxPayloadBytes = c.config.MaxPayloadBytes
	cfg.Driver = c.config.Driver
	c.config = cfg
	c.mu.Unlock()

	c.listener.Update(c.listenConfig(cfg))
	c.logger.Info("configuration applied",
		ports.Int("ecc", cfg.ECC),
		ports.Int("baud", cfg.BaudRate),
		ports.String("output_dir", cfg.OutputDir),
	)
	return nil
}

func (c *Client) listenConfig(cfg Config) app.ListenConfig {
	return app.ListenConfig{
		Port:      c.resolve(cfg, DefaultReceivePort()),
		ECC:       cfg.ECC,
		OutputDir: cfg.OutputDir,
		IdlePause: cfg.IdlePause,
	}
}

func (c *Client) resolve(cfg Config, fallback string) domain.Port {
	if cfg.FallbackPort != "" {
		fallback = cfg.FallbackPort
	}
	name := c.locator.ResolvePort(cfg.Port, cfg.VendorID, cfg.ProductID, fallback)
	return domain.Port{Name: name, BaudRate: cfg.BaudRate}
}

func (c *Client) initPlugins(ctx context.Context, cfg Config) ([]Plugin, error) {
	pluginCfg := PluginConfig{
		Config:      cfg,
		Logger:      c.logger,
		Reconfigure: c.Reconfigure,
	}
	started := make([]Plugin, 0, len(c.opts.plugins))
	for _, p := range c.opts.plugins {
		if err := p.Initialize(ctx, pluginCfg); err != nil {
			c.logger.Error("plugin initialization failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			return started, fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
		c.logger.Info("plugin initialized", ports.String("plugin", p.Name()))
		started = append(started, p)
	}
	return started, nil
}

func (c *Client) shutdownPlugins(started []Plugin) {
	ctx := context.Background()
	for i := len(started) - 1; i >= 0; i-- {
		p := started[i]
		if err := p.Shutdown(ctx); err != nil {
			c.logger.Error("plugin shutdown failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
		}
	}
}
