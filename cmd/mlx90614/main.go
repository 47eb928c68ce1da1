// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// mlx90614 polls the MLX90614 infrared thermometers listed in a YAML file,
// prints each sample and stops when a temperature leaves its safety range.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/irtemp/config"
	"github.com/GermanBionicSystems/irtemp/screen1d"
	"github.com/GermanBionicSystems/irtemp/sensor"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var (
	configPath string
	httpAddr   string
	barWidth   int
	verbose    bool
)

func init() {
	flag.StringVar(&configPath, "config", "~/.mlx90614.yaml", "path to the sensors YAML file")
	flag.StringVar(&httpAddr, "http", "", "address to serve /metrics and /status on, e.g. :9614; disabled when empty")
	flag.IntVar(&barWidth, "bar", 20, "width of the terminal heat bar")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
}

// shutdown stops the program on the first safety violation.
type shutdown struct {
	log    logrus.FieldLogger
	cancel context.CancelFunc
	once   sync.Once
	fired  atomic.Bool
}

func (s *shutdown) InvokeShutdown(msg string) {
	s.once.Do(func() {
		s.fired.Store(true)
		s.log.Error(msg)
		s.cancel()
	})
}

// buses opens each named I²C bus once.
type buses struct {
	open map[string]i2c.BusCloser
}

func (b *buses) get(name string) (i2c.Bus, error) {
	if bus, ok := b.open[name]; ok {
		return bus, nil
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening I²C bus %q: %w", name, err)
	}
	b.open[name] = bus
	return bus, nil
}

func (b *buses) close() {
	for name, bus := range b.open {
		if err := bus.Close(); err != nil {
			logrus.WithError(err).WithField("bus", name).Warn("closing bus")
		}
	}
}

func mainImpl() error {
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	log := logrus.StandardLogger()

	path, err := homedir.Expand(configPath)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if len(cfg.Sensors) == 0 {
		return fmt.Errorf("%s: no sensors configured", path)
	}
	if _, err := host.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	b := &buses{open: map[string]i2c.BusCloser{}}
	defer b.close()
	reactor := sensor.NewReactor()
	sd := &shutdown{log: log, cancel: cancel}
	reg := sensor.NewRegistry()
	sensor.LoadMLX90614(reg)

	var displays []*screen1d.Dev
	defer func() {
		for _, d := range displays {
			_ = d.Halt()
		}
	}()
	for _, s := range cfg.Sensors {
		bus, err := b.get(s.Bus)
		if err != nil {
			return err
		}
		p, err := reg.New(s, sensor.Host{Bus: bus, Scheduler: reactor, Shutdown: sd, Log: log})
		if err != nil {
			return err
		}
		p.SetupMinMax(s.MinTemp, s.MaxTemp)
		d := screen1d.New(&screen1d.Opts{X: barWidth, Min: s.MinTemp, Max: s.MaxTemp})
		displays = append(displays, d)
		name := p.ObjectName()
		if err := p.SetupCallback(func(readTime, temp float64) {
			log.WithField("sensor", name).Debugf("read_time=%.3f", readTime)
			if err := d.Show(name, temp); err != nil {
				log.WithError(err).Debug("display")
			}
		}); err != nil {
			return err
		}
	}
	for _, p := range reg.Pollers() {
		if err := p.Connect(); err != nil {
			return err
		}
	}

	if httpAddr != "" {
		srv := &http.Server{Addr: httpAddr, Handler: newMux(reg, reactor), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("http server")
			}
		}()
		defer func() {
			c, done := context.WithTimeout(context.Background(), time.Second)
			defer done()
			_ = srv.Shutdown(c)
		}()
	}

	if err := reactor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if sd.fired.Load() {
		return errors.New("shutdown requested by a sensor")
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "mlx90614: %s.\n", err)
		os.Exit(1)
	}
}

var _ sensor.Shutdowner = &shutdown{}
