package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zeu5/mixing-rl/bridge"
	"github.com/zeu5/mixing-rl/mixing"
	"github.com/zeu5/mixing-rl/shaker"
	"github.com/zeu5/mixing-rl/store"
	"github.com/zeu5/mixing-rl/types"
)

// interruptContext is cancelled on an interrupt or when done is called
func interruptContext() (context.Context, func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	doneCh := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
		case <-doneCh:
		}
		signal.Stop(sigCh)
		cancel()
	}()
	return ctx, func() { close(doneCh) }
}

// newSimulator connects to the bridge when --sim-url is set, otherwise
// shakes in process with a per run seed
func newSimulator(run int) mixing.Simulator {
	if simURL != "" {
		return bridge.NewClient(simURL)
	}
	return shaker.New(shakerConfig(seed + uint64(run)))
}

func shakerConfig(simSeed uint64) shaker.Config {
	config := shaker.DefaultConfig()
	config.Population = population
	config.Wall = cellSize
	config.SpillProb = spillProb
	config.UnsettledProb = unsettledProb
	config.Seed = simSeed
	return config
}

// tableStores hands out the q table store of each run. Runs kept in redis
// share one client.
type tableStores struct {
	client *redis.Client
}

func newTableStores() *tableStores {
	if redisAddr == "" {
		return &tableStores{}
	}
	return &tableStores{client: redis.NewClient(&redis.Options{
		Addr:        redisAddr,
		DialTimeout: 2 * time.Second,
	})}
}

func (t *tableStores) forRun(run int) store.Store {
	if t.client != nil {
		return store.NewRedisStoreWithClient(t.client, store.RunKey(redisKey, run))
	}
	return store.NewFileStore(path.Join(saveFile, fmt.Sprintf("qtable_%d.bin", run)))
}

func (t *tableStores) Close() error {
	if t.client == nil {
		return nil
	}
	return t.client.Close()
}

func reportConfig(name string) (*types.ReportsPrintConfig, error) {
	switch name {
	case "", "off":
		return types.RepConfigOff(), nil
	case "standard":
		return types.RepConfigStandard(), nil
	case "complete":
		return types.RepConfigComplete(), nil
	}
	return nil, fmt.Errorf("unknown report configuration %q, expected off, standard or complete", name)
}

func runOptions(name string, run int, reports *types.ReportsPrintConfig) mixing.RunOptions {
	return mixing.RunOptions{
		Name:          name,
		Run:           run,
		Episodes:      episodes,
		Horizon:       horizon,
		Seed:          seed + uint64(run),
		MaxResets:     maxResets,
		Population:    population,
		CellSize:      cellSize,
		LegacyCells:   legacyCells,
		SavePath:      saveFile,
		RecordRewards: true,
		ReportConfig:  reports,
	}
}
