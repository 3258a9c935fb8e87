package main

import (
	"bufio"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/recording"
	"github.com/sarchlab/cachesim/sim"
	"github.com/sarchlab/cachesim/trace"
)

// Environment variables consulted when a required flag is absent.
const (
	envSetBits   = "CACHESIM_S"
	envLines     = "CACHESIM_E"
	envBlockBits = "CACHESIM_B"
	envTrace     = "CACHESIM_TRACE"
)

type missingArgumentError struct {
	name string
}

func (e *missingArgumentError) Error() string {
	return fmt.Sprintf("Missing required argument: %s", e.name)
}

type options struct {
	setBits    int
	lines      int
	blockBits  int
	tracePath  string
	verbose    bool
	configPath string
	backend    string
	record     bool
	recordName string
}

// lookupFunc matches os.LookupEnv.
type lookupFunc func(key string) (string, bool)

func newRootCmd(lookupEnv lookupFunc) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "cachesim -s <bits> -E <lines> -b <bits> -t <trace>",
		Short: "Replay a memory trace against a set-associative LRU cache.",
		Long: `cachesim replays a Valgrind Lackey memory trace against a ` +
			`set-associative cache with LRU replacement and prints the ` +
			`number of hits, misses, and evictions.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, lookupEnv)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.setBits, "set-bits", "s", 0,
		"number of set index bits (2^s sets)")
	flags.IntVarP(&opts.lines, "lines", "E", 0,
		"number of lines per set")
	flags.IntVarP(&opts.blockBits, "block-bits", "b", 0,
		"number of block offset bits (2^b bytes per block)")
	flags.StringVarP(&opts.tracePath, "trace", "t", "",
		"trace file to replay")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false,
		"print the outcome of every record")
	flags.StringVar(&opts.configPath, "config", "",
		"JSON file with the cache geometry")
	flags.StringVar(&opts.backend, "backend", string(cache.BackendArena),
		fmt.Sprintf("cache implementation, one of %v", cache.Backends()))
	flags.BoolVar(&opts.record, "record", false,
		"record every access into a SQLite database")
	flags.StringVar(&opts.recordName, "record-name", "",
		"base name of the database file (default cachesim_<id>)")

	return cmd
}

func run(cmd *cobra.Command, opts *options, lookupEnv lookupFunc) error {
	config, tracePath, err := resolve(cmd, opts, lookupEnv)
	if err != nil {
		return err
	}

	backend := cache.Backend(opts.backend)
	store, err := cache.NewStore(backend, config)
	if err != nil {
		return err
	}

	file, err := trace.Open(tracePath)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	out := bufio.NewWriter(cmd.OutOrStdout())

	var (
		sinks    []sim.Sink
		recorder *recording.SQLiteRecorder
	)

	if opts.verbose {
		sinks = append(sinks, sim.NewTextSink(out))
	}

	if opts.record {
		recorder, err = recording.NewSQLiteRecorder(opts.recordName)
		if err != nil {
			return fmt.Errorf("failed to create recorder: %w", err)
		}
		defer func() { _ = recorder.Close() }()

		if err := recorder.WriteRun(config, backend); err != nil {
			return err
		}

		sinks = append(sinks, recorder)
	}

	stats, runErr := sim.Simulate(store, file,
		sim.WithSink(sim.MultiSink(sinks...)))

	if recorder != nil && runErr == nil {
		runErr = recorder.Close()
	}

	fmt.Fprintln(out, stats)

	if err := out.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return runErr
}

// resolve layers the geometry and trace path from the environment, the JSON
// config file, and the flags, with later sources taking precedence.
func resolve(
	cmd *cobra.Command,
	opts *options,
	lookupEnv lookupFunc,
) (cache.Config, string, error) {
	var (
		config              cache.Config
		haveS, haveE, haveB bool
		tracePath           string
		haveTrace           bool
		err                 error
	)

	if haveS, err = envInt(lookupEnv, envSetBits, &config.SetIndexBits); err != nil {
		return config, "", err
	}
	if haveE, err = envInt(lookupEnv, envLines, &config.LinesPerSet); err != nil {
		return config, "", err
	}
	if haveB, err = envInt(lookupEnv, envBlockBits, &config.BlockOffsetBits); err != nil {
		return config, "", err
	}
	if tracePath, haveTrace = lookupEnv(envTrace); tracePath == "" {
		haveTrace = false
	}

	if opts.configPath != "" {
		file, err := cache.LoadConfigFile(opts.configPath)
		if err != nil {
			return config, "", err
		}

		file.Apply(&config)
		haveS = haveS || file.SetIndexBits != nil
		haveE = haveE || file.LinesPerSet != nil
		haveB = haveB || file.BlockOffsetBits != nil
	}

	flags := cmd.Flags()
	if flags.Changed("set-bits") {
		config.SetIndexBits, haveS = opts.setBits, true
	}
	if flags.Changed("lines") {
		config.LinesPerSet, haveE = opts.lines, true
	}
	if flags.Changed("block-bits") {
		config.BlockOffsetBits, haveB = opts.blockBits, true
	}
	if flags.Changed("trace") {
		tracePath, haveTrace = opts.tracePath, true
	}

	switch {
	case !haveS:
		return config, "", &missingArgumentError{name: "-s"}
	case !haveE:
		return config, "", &missingArgumentError{name: "-E"}
	case !haveB:
		return config, "", &missingArgumentError{name: "-b"}
	case !haveTrace:
		return config, "", &missingArgumentError{name: "-t"}
	}

	if err := config.Validate(); err != nil {
		return config, "", err
	}

	return config, tracePath, nil
}

func envInt(lookupEnv lookupFunc, key string, dst *int) (bool, error) {
	value, ok := lookupEnv(key)
	if !ok || value == "" {
		return false, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", key, err)
	}

	*dst = n

	return true, nil
}
