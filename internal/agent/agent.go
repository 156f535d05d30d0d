package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/go-logr/logr"

	"github.com/sentineledge/hostreport/internal/communicator"
	"github.com/sentineledge/hostreport/internal/executor"
	"github.com/sentineledge/hostreport/internal/report"
	"github.com/sentineledge/hostreport/internal/system"
	"github.com/sentineledge/hostreport/pkg/models"
)

// Sender delivers a formatted message.
type Sender interface {
	Send(ctx context.Context, msg models.WebhookMessage) error
}

// Collector gathers a host snapshot.
type Collector interface {
	Collect(ctx context.Context) *models.Snapshot
}

type Agent struct {
	config    *Config
	log       logr.Logger
	collector Collector
	sender    Sender
	out       io.Writer
}

// New wires the platform collector and the webhook sender from cfg. out
// receives the payload in dry-run mode.
func New(cfg *Config, log logr.Logger, out io.Writer) *Agent {
	devices, displays := system.Enumerators(runtime.GOOS, executor.WithTimeout(cfg.CommandTimeout))

	collector := &system.Collector{
		Log:         log.WithName("collector"),
		Probe:       system.NewProbe(),
		Devices:     devices,
		Displays:    displays,
		PublicIP:    communicator.NewIPLookup(cfg.IPLookupURL, cfg.RequestTimeout),
		CPUInterval: cfg.CPUSampleInterval,
	}

	var sender Sender
	if !cfg.DryRun {
		sender = communicator.NewWebhook(log.WithName("webhook"), cfg.WebhookURL, cfg.ExpectedStatus, cfg.RequestTimeout)
	}

	return NewWithDeps(cfg, log, collector, sender, out)
}

func NewWithDeps(cfg *Config, log logr.Logger, collector Collector, sender Sender, out io.Writer) *Agent {
	return &Agent{config: cfg, log: log, collector: collector, sender: sender, out: out}
}

// Run performs one collect, format, deliver cycle.
func (a *Agent) Run(ctx context.Context) error {
	a.log.Info("collecting host snapshot", "os", runtime.GOOS, "dryRun", a.config.DryRun)

	snap := a.collector.Collect(ctx)
	msg := report.Format(snap, report.Options{
		Title:    a.config.Title,
		Username: a.config.Username,
	})

	if a.config.DryRun {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(msg); err != nil {
			return fmt.Errorf("writing message: %w", err)
		}
		return nil
	}

	if a.sender == nil {
		return errors.New("no sender configured")
	}

	if err := a.sender.Send(ctx, msg); err != nil {
		var delivery *communicator.DeliveryError
		if errors.As(err, &delivery) {
			a.log.Error(err, "Failed to send message", "status", delivery.StatusCode, "body", delivery.Body)
		} else {
			a.log.Error(err, "Failed to send message")
		}
		return err
	}

	a.log.Info("Message sent successfully")
	return nil
}
