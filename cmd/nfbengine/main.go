// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command nfbengine runs the real-time neurofeedback experiment engine:
// it wires a signal pipeline and a scripted protocol sequence to an
// acquisition inlet, ticks the sequencer at the configured sample rate, and
// persists everything to a grouped binary store.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/emer/nfbengine/internal/engine"
	"github.com/emer/nfbengine/internal/filters"
	"github.com/emer/nfbengine/internal/montage"
	"github.com/emer/nfbengine/internal/protocol"
	nfbsignal "github.com/emer/nfbengine/internal/signal"
	"github.com/emer/nfbengine/internal/store"
)

func main() {
	var (
		experimentName = pflag.String("experiment-name", "experiment", "name used for the output directory")
		outDir         = pflag.String("out-dir", "results", "root directory for recorded sessions")
		sampleRate     = pflag.Float64("sample-rate", 250, "acquisition sample rate in Hz")
		montageName    = pflag.String("montage", "standard_10_20_19", "bundled montage preset to seed the channel set")
		baselineS      = pflag.Float64("baseline-seconds", 10, "duration of the opening baseline block")
		feedbackS      = pflag.Float64("feedback-seconds", 20, "duration of each feedback block")
		feedbackBlocks = pflag.Int("feedback-blocks", 3, "number of feedback blocks to run")
		seed           = pflag.Int64("seed", 1, "seed for per-block randomized decisions")
		verbose        = pflag.BoolP("verbose", "v", false, "enable debug-level logging")
	)
	pflag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, runConfig{
		experimentName: *experimentName,
		outDir:         *outDir,
		sampleRate:     *sampleRate,
		montageName:    *montageName,
		baselineS:      *baselineS,
		feedbackS:      *feedbackS,
		feedbackBlocks: *feedbackBlocks,
		seed:           *seed,
	}); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

type runConfig struct {
	experimentName string
	outDir         string
	sampleRate     float64
	montageName    string
	baselineS      float64
	feedbackS      float64
	feedbackBlocks int
	seed           int64
}

func run(logger *slog.Logger, cfg runConfig) error {
	cat, err := montage.Load([]byte(montage.DefaultCatalogYAML))
	if err != nil {
		return fmt.Errorf("load montage catalog: %w", err)
	}
	m, ok := cat.Get(cfg.montageName)
	if !ok {
		return fmt.Errorf("unknown montage %q", cfg.montageName)
	}

	ctx, cancel := signal2Context()
	defer cancel()

	inlet := engine.NewSyntheticInlet(cfg.sampleRate, m.Channels, cfg.seed)
	selector := engine.NewChannelsSelector(m.Channels, m.Channels, nil, false)

	aaiBand := filters.Band{Low: 8, High: 12}
	spatialLeft := onehot(len(m.Channels), indexOf(m.Channels, "F3"))
	spatialRight := onehot(len(m.Channels), indexOf(m.Channels, "F4"))

	leftEstimator, err := nfbsignal.BuildEstimator(aaiBand, nfbsignal.EstimatorSpec{SampleRate: cfg.sampleRate, FFTWindowSize: 256})
	if err != nil {
		return err
	}
	rightEstimator, err := nfbsignal.BuildEstimator(aaiBand, nfbsignal.EstimatorSpec{SampleRate: cfg.sampleRate, FFTWindowSize: 256})
	if err != nil {
		return err
	}
	left := nfbsignal.NewDerivedSignal(0, "alphaLeft", aaiBand, spatialLeft, nfbsignal.NewRejectionStack(len(m.Channels)), leftEstimator)
	right := nfbsignal.NewDerivedSignal(1, "alphaRight", aaiBand, spatialRight, nfbsignal.NewRejectionStack(len(m.Channels)), rightEstimator)

	aai, err := nfbsignal.NewCompositeSignal(2, "AAI", "(alphaLeft - alphaRight)/(alphaLeft + alphaRight)", map[string]int{
		"alphaLeft": 0, "alphaRight": 1,
	})
	if err != nil {
		return fmt.Errorf("build composite signal: %w", err)
	}

	outPath := fmt.Sprintf("%s/%s_%d/experiment_data.nfb", cfg.outDir, cfg.experimentName, time.Now().Unix())
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	container, err := store.Create(outPath)
	if err != nil {
		return err
	}
	defer container.Close()

	maxSamples := int(cfg.feedbackS * cfg.sampleRate * 1.5)
	recorder := store.NewBlockRecorder(container, maxSamples, len(m.Channels), selector.NumAuxChannels(), []string{"alphaLeft", "alphaRight", "AAI"})

	blocks := []engine.BlockPlan{
		{
			Name:            "baseline",
			Protocol:        &protocol.Baseline{Common: protocol.Common{BlockName: "baseline", Duration: cfg.baselineS, UpdateStatisticsInEnd: true}, StatsType: "meanstd", Recalibrate: func(rec []float64, statsType string) { left.Recalibrate(rec, nfbsignal.StatsType(statsType)) }},
			BoundSignalName: "alphaLeft",
			Recording:       true,
		},
	}
	for i := 0; i < cfg.feedbackBlocks; i++ {
		blocks = append(blocks, engine.BlockPlan{
			Name:            "feedback",
			Protocol:        &protocol.Feedback{Common: protocol.Common{BlockName: "feedback", Duration: cfg.feedbackS}, ThresholdMode: "fixed", ReactionBufferS: cfg.feedbackS / 3},
			BoundSignalName: "AAI",
			Recording:       true,
		})
	}

	exp := engine.NewExperiment(inlet, selector, []*nfbsignal.DerivedSignal{left, right}, []*nfbsignal.CompositeSignal{aai}, blocks, recorder, logger, cfg.seed)
	exp.Trouble.OnTrouble = func(channel int, newStd, baseline float64) {
		logger.Warn("channel trouble", "channel", m.Channels[channel], "std", newStd, "baseline", baseline)
	}
	exp.Start()

	ticker := time.NewTicker(time.Duration(float64(time.Second) / cfg.sampleRate))
	defer ticker.Stop()

	logger.Info("experiment started", "montage", m.Name, "channels", len(m.Channels), "out", outPath)
	for !exp.Finished() {
		select {
		case <-ctx.Done():
			logger.Info("stop requested, flushing")
			return recorder.FlushBlock()
		case <-ticker.C:
			exp.Tick()
		}
	}
	logger.Info("experiment finished")
	return nil
}

func signal2Context() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func onehot(n, idx int) []float64 {
	v := make([]float64, n)
	if idx >= 0 && idx < n {
		v[idx] = 1
	}
	return v
}

func indexOf(labels []string, name string) int {
	for i, l := range labels {
		if l == name {
			return i
		}
	}
	return -1
}

