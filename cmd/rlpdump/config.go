package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/PigCharid/go-rlp/log"
	"github.com/PigCharid/go-rlp/rlp"
	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

type logConfig struct {
	Verbosity int  // 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail
	Origins   bool // print the call site of every log line
}

type rlpdumpConfig struct {
	Decoder rlp.Decoder
	Log     logConfig
}

// defaultConfig contains the settings used when neither a config file nor a
// flag overrides them.
var defaultConfig = rlpdumpConfig{
	Decoder: rlp.Decoder{MaxDepth: 1024},
	Log:     logConfig{Verbosity: int(log.LvlWarn)},
}

func loadConfig(file string, cfg *rlpdumpConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig assembles the effective configuration: defaults, then the config
// file, then command line flags.
func makeConfig(ctx *cli.Context) (rlpdumpConfig, error) {
	cfg := defaultConfig
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}
	if ctx.IsSet(maxDepthFlag.Name) {
		cfg.Decoder.MaxDepth = ctx.Int(maxDepthFlag.Name)
	}
	if ctx.IsSet(maxSizeFlag.Name) {
		cfg.Decoder.MaxSize = ctx.Int(maxSizeFlag.Name)
	}
	if ctx.IsSet(verbosityFlag.Name) {
		cfg.Log.Verbosity = ctx.Int(verbosityFlag.Name)
	}
	if cfg.Decoder.MaxDepth < 0 || cfg.Decoder.MaxSize < 0 {
		return cfg, fmt.Errorf("invalid decoder limits: depth %d, size %d", cfg.Decoder.MaxDepth, cfg.Decoder.MaxSize)
	}
	return cfg, nil
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}
	ctx.App.Writer.Write(out)
	return nil
}
