package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"

	coproto "github.com/starfederation/coproto-go"
	"github.com/starfederation/coproto-go/transport"
)

type serveCmd struct {
	Config      string `help:"TOML transport config." type:"existingfile"`
	MetricsAddr string `help:"Serve Prometheus metrics on this address, e.g. :9464." placeholder:"ADDR"`
}

func loadConfig(path string) (transport.Config, error) {
	if path == "" {
		return transport.DefaultConfig(), nil
	}
	return transport.LoadConfig(path)
}

func (c *serveCmd) Run(rc *runContext) error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	cfg.Logger = rc.log

	metrics := transport.NewMetrics()
	if c.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		if err := metrics.Register(reg); err != nil {
			return err
		}
		srv := &http.Server{
			Addr:              c.MetricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				rc.log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
		defer srv.Close()
	}

	handler := func(_ context.Context, peer transport.PeerID, v coproto.Value) error {
		rc.log.Info().Stringer("peer", peer).Stringer("value", v).Msg("message")
		return nil
	}
	srv, err := transport.NewServer(cfg, handler, metrics)
	if err != nil {
		return err
	}
	err = srv.ListenAndServe(rc.ctx)
	if errors.Is(err, transport.ErrClosed) {
		return nil
	}
	return err
}

type sendCmd struct {
	Config string   `help:"TOML transport config." type:"existingfile"`
	Values []string `arg:"" help:"JSON values, one message each."`
}

func (c *sendCmd) Run(rc *runContext) error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	cfg.Logger = rc.log

	values := make([]coproto.Value, 0, len(c.Values))
	for _, raw := range c.Values {
		v, err := coproto.FromJSON([]byte(raw))
		if err != nil {
			return fmt.Errorf("value %q: %w", raw, err)
		}
		values = append(values, v)
	}

	client, err := transport.Dial(rc.ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer client.Close()

	results := lo.Map(values, func(v coproto.Value, _ int) error {
		return client.Send(rc.ctx, v)
	})
	for i, err := range results {
		if err != nil {
			rc.log.Error().Err(err).Str("value", c.Values[i]).Msg("not acknowledged")
			continue
		}
		fmt.Fprintf(rc.out, "ack %s\n", c.Values[i])
	}
	if failed := lo.CountBy(results, func(err error) bool { return err != nil }); failed > 0 {
		return fmt.Errorf("%d of %d messages not acknowledged", failed, len(results))
	}
	return nil
}
