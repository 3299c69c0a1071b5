package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/jaskrrish/Go-QStab/internal/stab"
	"github.com/jaskrrish/Go-QStab/internal/stab/circuit"
	"github.com/jaskrrish/Go-QStab/internal/stab/sim"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	shots := envInt("QSTAB_SHOTS", 1000)

	var exec sim.Executor
	if seed := os.Getenv("QSTAB_SEED"); seed != "" {
		n, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			logger.Fatal("invalid QSTAB_SEED", zap.String("value", seed), zap.Error(err))
		}
		exec = sim.NewEngineSeeded(n)
		logger.Info("using seeded engine", zap.Uint64("seed", n))
	} else {
		exec = sim.NewEngine()
	}

	backend := stab.NewBackend(exec)
	backend.SetLogger(logger)
	logger.Info("backend ready",
		zap.String("name", backend.Name()),
		zap.String("version", backend.Version()),
		zap.Int("shots", shots))

	for _, show := range showcases() {
		compiled, err := backend.CompileCircuit(show)
		if err != nil {
			logger.Fatal("compilation failed", zap.String("circuit", show.Name()), zap.Error(err))
		}
		handles, err := backend.SubmitN([]*circuit.Circuit{compiled}, shots)
		if err != nil {
			logger.Fatal("submission failed", zap.String("circuit", show.Name()), zap.Error(err))
		}
		res, err := backend.Result(handles[0])
		if err != nil {
			logger.Fatal("result lookup failed", zap.String("circuit", show.Name()), zap.Error(err))
		}
		printCounts(show.Name(), shots, res.Counts())
	}
}

// showcases builds a few named circuits with distinct sampling behavior
func showcases() []*circuit.Circuit {
	ground := circuit.New(1, 1).SetName("ground-state")
	ground.Measure(0, 0)

	super := circuit.New(1, 1).SetName("superposition")
	super.H(0).Measure(0, 0)

	bell := circuit.New(2, 2).SetName("bell-pair")
	bell.H(0).CX(0, 1).Measure(0, 0).Measure(1, 1)

	// Measurements emitted in the reverse of the declared bit order: the
	// excited qubit lands in c[1], so every outcome reads "01"
	reorder := circuit.New(2, 2).SetName("declared-order")
	reorder.X(0).Measure(0, 1).Measure(1, 0)

	// A half-turn X rotation compiles to Clifford generators and acts as X
	rotated := circuit.New(1, 1).SetName("compiled-rotation")
	rotated.Rx(1, 0).Measure(0, 0)

	return []*circuit.Circuit{ground, super, bell, reorder, rotated}
}

func printCounts(name string, shots int, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("%s (%d shots):\n", name, shots)
	for _, k := range keys {
		fmt.Printf("  %s  %6d  (%.1f%%)\n", k, counts[k], 100*float64(counts[k])/float64(shots))
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
