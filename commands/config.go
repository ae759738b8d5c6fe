package commands

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/zeu5/mixing-rl/types"
	"github.com/zeu5/mixing-rl/util"
	"gopkg.in/yaml.v3"
)

// loadConfig fills every flag not given on the command line from the --config file.
// Keys are the flag names.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if configFile == "" {
		return nil
	}
	vp := viper.New()
	vp.SetConfigFile(configFile)
	vp.SetConfigType("yaml")
	if err := vp.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", configFile, err)
	}

	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || f.Name == "config" || !vp.IsSet(f.Name) {
			return
		}
		if setErr := cmd.Flags().Set(f.Name, vp.GetString(f.Name)); setErr != nil {
			err = fmt.Errorf("config %s, key %s: %w", configFile, f.Name, setErr)
		}
	})
	return err
}

// RunRecord is the effective configuration of a command, written next to the
// results. Keys match the flag names so the file can be passed back with --config.
type RunRecord struct {
	Command     string  `yaml:"command"`
	Save        string  `yaml:"save"`
	Episodes    int     `yaml:"episodes"`
	Horizon     int     `yaml:"horizon"`
	Runs        int     `yaml:"runs"`
	Seed        uint64  `yaml:"seed"`
	Population  int     `yaml:"population"`
	LegacyCells bool    `yaml:"legacy-cells"`
	CellSize    float64 `yaml:"cell-size"`
	MaxResets   int     `yaml:"max-resets"`

	SimURL        string  `yaml:"sim-url,omitempty"`
	Spill         float64 `yaml:"spill"`
	Unsettled     float64 `yaml:"unsettled"`
	Redis         string  `yaml:"redis,omitempty"`
	RedisKey      string  `yaml:"redis-key,omitempty"`
	Alpha         float64 `yaml:"alpha,omitempty"`
	Gamma         float64 `yaml:"gamma,omitempty"`
	Epsilon       float64 `yaml:"epsilon,omitempty"`
	Reports       string  `yaml:"reports,omitempty"`

	ReportsConfig *types.ReportsPrintConfig `yaml:"reports_config,omitempty"`
}

func newRunRecord(command string) *RunRecord {
	return &RunRecord{
		Command:     command,
		Save:        saveFile,
		Episodes:    episodes,
		Horizon:     horizon,
		Runs:        runs,
		Seed:        seed,
		Population:  population,
		LegacyCells: legacyCells,
		CellSize:    cellSize,
		MaxResets:   maxResets,
		SimURL:      simURL,
		Spill:       spillProb,
		Unsettled:   unsettledProb,
		Redis:       redisAddr,
		RedisKey:    redisKey,
	}
}

// Write the record to <folder>/<command>_config.yaml
func (r *RunRecord) Write(folder string) error {
	bs, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	return util.WriteToFile(path.Join(folder, r.Command+"_config.yaml"), string(bs))
}
