package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/CZERTAINLY/log-lens/internal/log"
	"github.com/CZERTAINLY/log-lens/internal/model"
	"github.com/CZERTAINLY/log-lens/internal/serve"
	"github.com/CZERTAINLY/log-lens/internal/stats"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	configName = "log-lens.yaml"
	serveName  = "serve"
)

var (
	userConfigPath string // /default/config/path/log-lens on given OS
	configPath     string // actual config file used (if loaded)

	flagConfigFilePath string // value of --config flag
	flagVerbose        bool   // value of --verbose flag
	flagReport         string // value of --report flag
	flagWorkers        int    // value of --workers flag
	flagStats          bool   // value of --stats flag
	flagAddr           string // value of --addr flag
)

var rootCmd = &cobra.Command{
	Use:          "log-lens",
	Short:        "Tool aggregating web application logs per handler and severity",
	SilenceUsage: true,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "analyze command reads the log files and prints the report",
	RunE:  doAnalyze,
}

var serveCmd = &cobra.Command{
	Use:   serveName + " [files...]",
	Short: "serve command provides the reports over HTTP",
	RunE:  doServe,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "config command prints the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  doConfig,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "version provides a version of log-lens",
	RunE:  doVersion,
}

func init() {
	// user configuration
	d, err := os.UserConfigDir()
	if err != nil {
		panic(err)
	}
	userConfigPath = filepath.Join(d, "log-lens")
}

func main() {
	// root flags
	rootCmd.PersistentFlags().StringVar(&flagConfigFilePath, "config", "", "Config file to load - default is "+configName+" in current directory or in "+userConfigPath)
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "verbose logging")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "number of files aggregated at once")

	analyzeCmd.Flags().StringVar(&flagReport, "report", "", "report type: "+reportTypes())
	analyzeCmd.Flags().BoolVar(&flagStats, "stats", false, "print counters to stderr after the analysis")
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address, default "+model.DefaultAddr)

	// never print messages and usage
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	if cmd, err := rootCmd.ExecuteC(); err != nil {
		printError(os.Stderr, err)
		switch {
		case strings.HasPrefix(err.Error(), "unknown command"):
			_ = rootCmd.Help() // ./cmd bflmp
		case strings.HasPrefix(err.Error(), "unknown flag"):
			_ = cmd.Help() // ./cmd analyze --bflmp
		}
		os.Exit(1)
	}
}

func doVersion(cmd *cobra.Command, args []string) error {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return fmt.Errorf("log-lens: version info not available")
	}

	if configPath != "" {
		fmt.Printf("config: %s\n", configPath)
	}
	fmt.Printf("log-lens: %s\n", info.Main.Version)
	fmt.Printf("go:       %s\n", info.GoVersion)
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			fmt.Printf("commit:   %s\n", s.Value)
		case "vcs.time":
			fmt.Printf("date:     %s\n", s.Value)
		case "vcs.modified":
			fmt.Printf("dirty:    %s\n", s.Value)
		}
	}
	fmt.Println()

	return nil
}

func doAnalyze(cmd *cobra.Command, args []string) error {
	config, closeLog, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeLog()
	}()

	ctx := log.ContextAttrs(cmd.Context(), slog.Group("log-lens",
		slog.String("cmd", "analyze"),
		slog.Int("pid", os.Getpid()),
	))

	lens, err := NewLens(ctx, config)
	if err != nil {
		return err
	}
	out, err := lens.Report(ctx, paths(config, args))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprint(cmd.OutOrStdout(), out); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if flagStats {
		lens.PrintStats(cmd.ErrOrStderr())
	}
	return nil
}

func doServe(cmd *cobra.Command, args []string) (err error) {
	config, closeLog, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, closeLog())
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.ContextAttrs(ctx, slog.Group("log-lens",
		slog.String("cmd", "serve"),
		slog.Int("pid", os.Getpid()),
	))

	lens, err := NewLens(ctx, config)
	if err != nil {
		return err
	}
	srv := serve.New(lens, paths(config, args), serve.WithCollector(stats.NewCollector(lens.Stats())))
	return serve.Serve(ctx, config.Server.Addr, srv.Handler())
}

func doConfig(cmd *cobra.Command, _ []string) error {
	config, closeLog, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeLog()
	}()

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(config); err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	return enc.Close()
}

func paths(config model.Config, args []string) []string {
	if len(args) > 0 {
		return args
	}
	return config.Paths
}

// loadConfig finds and loads the configuration, applies the command line
// flags and initializes logging. The returned function closes the log file.
func loadConfig(cmd *cobra.Command) (model.Config, func() error, error) {
	noop := func() error { return nil }
	if envConfig, ok := os.LookupEnv("LOGLENSCONFIG"); ok {
		configPath = envConfig
	} else if flagConfigFilePath != "" {
		configPath = flagConfigFilePath
	} else {
		for _, d := range []string{userConfigPath, "."} {
			path := filepath.Join(d, configName)
			if exists(path) {
				configPath = path
				break
			}
		}
	}

	var config model.Config
	if configPath == "" {
		config = model.DefaultConfig()
	} else {
		var err error
		config, err = model.LoadConfigFromPath(configPath)
		if err != nil {
			return config, noop, err
		}
	}

	// command line flags have a precedence over config file
	if flagVerbose {
		config.Service.Verbose = true
	}
	if f := cmd.Flags().Lookup("report"); f != nil && f.Changed {
		config.Report = flagReport
	}
	if flagWorkers > 0 {
		config.Workers = flagWorkers
	}
	if flagAddr != "" {
		config.Server.Addr = flagAddr
	}

	if err := checkLogDest(cmd.Name(), config); err != nil {
		return config, noop, err
	}

	// initialize logging
	w, closeLog, err := log.Open(config.Service.Log)
	if err != nil {
		return config, noop, err
	}
	slog.SetDefault(log.NewWriter(w, config.Service.Verbose))

	slog.Debug("log-lens", "configPath", configPath)
	slog.Debug("log-lens", "config", config)
	return config, closeLog, nil
}

// checkLogDest rejects logging to stdout for commands writing their result
// there.
func checkLogDest(cmdName string, config model.Config) error {
	if config.Service.Log != model.LogStdout || cmdName == serveName {
		return nil
	}
	return fmt.Errorf("service.log: %s is shared with the output of %s command, use it with serve only", model.LogStdout, cmdName)
}

func exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
