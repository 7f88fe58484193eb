package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"
	"github.com/creasty/defaults"

	_ "embed"
)

const (
	LogStderr  = "stderr"
	LogStdout  = "stdout"
	LogDiscard = "discard"

	DefaultWorkers = 4
	DefaultAddr    = ":8080"
)

// Config is the log-lens configuration
type Config struct {
	Version int      `json:"version" yaml:"version"` // fixed 0 for now
	Report  string   `json:"report,omitempty" yaml:"report,omitempty" default:"summary"`
	Workers int      `json:"workers,omitempty" yaml:"workers,omitempty" default:"4"`
	Paths   []string `json:"paths,omitempty" yaml:"paths,omitempty"` // used when no files are passed on a command line
	Parser  Parser   `json:"parser" yaml:"parser"`
	Service Service  `json:"service" yaml:"service"`
	Server  Server   `json:"server" yaml:"server"`
}

// Parser tunes the line grammar.
type Parser struct {
	HandlerPattern string `json:"handler_pattern,omitempty" yaml:"handler_pattern,omitempty"`
}

type Service struct {
	Verbose bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	Log     string `json:"log,omitempty" yaml:"log,omitempty" default:"stderr"` // "stderr"|"stdout"|"discard"|path
}

// Server configures the serve command.
type Server struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty" default:":8080"` // :port or ip:port
}

//go:embed config.cue
var cueSource []byte

var (
	cueCtx    *cue.Context
	cueConfig cue.Value
)

func init() {
	if len(cueSource) == 0 {
		panic("variable cueSource is empty")
	}
	cueCtx = cuecontext.New()
	compiled := cueCtx.CompileBytes(cueSource)
	if compiled.Err() != nil {
		panic(compiled.Err())
	}

	if err := compiled.Validate(); err != nil {
		panic(err)
	}

	cueConfig = compiled.LookupPath(cue.ParsePath("#Config"))
	if cueConfig.Err() != nil {
		panic(cueConfig.Err())
	}
	if err := cueConfig.Validate(); err != nil {
		panic(err)
	}
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		// default tags are constants, this is a programming error
		panic(err)
	}
	return cfg
}

// LoadConfig validates YAML from r against CUE schema and decodes to Config.
// NOT SAFE for multiple goroutines
// Return CueError in a case validation phase fails
func LoadConfig(r io.Reader) (Config, error) {
	var ret Config
	if err := loadConfig1(r, &ret); err != nil {
		return ret, err
	}
	return ret, nil
}

// LoadConfigFromPath is LoadConfig for a file, "-" reads the stdin.
func LoadConfigFromPath(path string) (Config, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("error opening config file: %w", err)
		}
		r = f
		defer func() {
			err := f.Close()
			if err != nil {
				slog.Error("can't close config file", "path", path, "error", err)
			}
		}()
	}
	cfg, err := LoadConfig(r)
	if err != nil {
		var cuerr CueError
		if errors.As(err, &cuerr) {
			for _, d := range cuerr.Details() {
				slog.Error("validation error", d.Attr("detail"))
			}
		}
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

func loadConfig1(r io.Reader, cfg *Config) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	r = bytes.NewReader(b)

	yamlFile, err := yaml.Extract("config.yaml", r)
	if err != nil {
		return err
	}
	yamlValue := cueCtx.BuildFile(yamlFile)

	unified := cueConfig.Unify(yamlValue)
	if err := unified.Validate(
		cue.All(),          // all constraints
		cue.Concrete(true), // no incomplete values
	); err != nil {
		return CueError{cuerr: err, config: yamlValue, schema: cueConfig}
	}

	if err := unified.Decode(cfg); err != nil {
		return err
	}

	if err := defaults.Set(cfg); err != nil {
		return fmt.Errorf("applying defaults: %w", err)
	}
	expandEnvValue(reflect.ValueOf(cfg).Elem())
	return nil
}

// expandEnvValue replaces ${VAR} references in all exported string fields
// and string slices reachable from v
func expandEnvValue(v reflect.Value) {
	if !v.IsValid() {
		return
	}
	switch v.Kind() {
	case reflect.String:
		if v.CanSet() {
			v.SetString(os.ExpandEnv(v.String()))
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			expandEnvValue(v.Field(i))
		}
	case reflect.Pointer:
		if !v.IsNil() {
			expandEnvValue(v.Elem())
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			expandEnvValue(v.Index(i))
		}
	default:
		// other kinds ignored
	}
}
