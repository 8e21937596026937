// rlpdump is a pretty-printer and toolbox for RLP data.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/PigCharid/go-rlp/common"
	"github.com/PigCharid/go-rlp/log"
	"github.com/golang/snappy"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

var (
	hexFlag = &cli.StringFlag{
		Name:  "hex",
		Usage: "Dump the given hex data instead of reading a file or stdin",
	}
	singleFlag = &cli.BoolFlag{
		Name:  "single",
		Usage: "Print only the first value, fail on trailing data",
	}
	noASCIIFlag = &cli.BoolFlag{
		Name:  "noascii",
		Usage: "Don't print ASCII strings readably",
	}
	colorFlag = &cli.BoolFlag{
		Name:  "color",
		Usage: "Colorize the dump output",
	}
	snappyFlag = &cli.BoolFlag{
		Name:  "snappy",
		Usage: "Input data is snappy compressed (encode: compress the output)",
	}
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: defaultConfig.Log.Verbosity,
	}
	maxDepthFlag = &cli.IntFlag{
		Name:  "maxdepth",
		Usage: "Maximum list nesting depth accepted by the decoder (0 = unlimited)",
		Value: defaultConfig.Decoder.MaxDepth,
	}
	maxSizeFlag = &cli.IntFlag{
		Name:  "maxsize",
		Usage: "Maximum input size in bytes accepted by the decoder (0 = unlimited)",
		Value: defaultConfig.Decoder.MaxSize,
	}
	dataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "Persist the item trie of the root command into a leveldb database",
	}
	cacheFlag = &cli.IntFlag{
		Name:  "cache",
		Usage: "Megabytes of memory allocated to the leveldb database and the trie node cache",
		Value: 16,
	}
)

const configKey = "config"

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "rlpdump"
	app.Usage = "RLP pretty-printer and toolbox"
	app.ArgsUsage = "[<file>]"
	app.Flags = []cli.Flag{
		hexFlag,
		singleFlag,
		noASCIIFlag,
		colorFlag,
		snappyFlag,
		configFileFlag,
		verbosityFlag,
		maxDepthFlag,
		maxSizeFlag,
		dataDirFlag,
		cacheFlag,
	}
	app.Commands = []*cli.Command{
		{
			Name:      "decode",
			Usage:     "Pretty-print RLP data",
			ArgsUsage: "[<file>]",
			Action:    decodeCommand,
		},
		{
			Name:      "encode",
			Usage:     "Encode a JSON value as RLP",
			ArgsUsage: "[<json>]",
			Description: `Arrays become lists, strings are text or "0x"-prefixed hex,
non-negative integers are encoded big endian and null is the empty string.
The JSON value is read from stdin when no argument is given.`,
			Action: encodeCommand,
		},
		{
			Name:      "length",
			Usage:     "Print the encoded size of the first value",
			ArgsUsage: "[<file>]",
			Action:    lengthCommand,
		},
		{
			Name:      "split",
			Usage:     "List the top-level values of the input",
			ArgsUsage: "[<file>]",
			Action:    splitCommand,
		},
		{
			Name:      "hash",
			Usage:     "Print the keccak256 hash of the input",
			ArgsUsage: "[<file>]",
			Action:    hashCommand,
		},
		{
			Name:      "root",
			Usage:     "Print the trie root of the items of a list",
			ArgsUsage: "[<file>]",
			Action:    rootCommand,
		},
		{
			Name:   "dumpconfig",
			Usage:  "Show configuration values",
			Action: dumpConfig,
		},
	}
	app.Action = decodeCommand
	app.Before = func(ctx *cli.Context) error {
		cfg, err := makeConfig(ctx)
		if err != nil {
			return err
		}
		setupLogging(cfg.Log)
		if ctx.App.Metadata == nil {
			ctx.App.Metadata = make(map[string]interface{})
		}
		ctx.App.Metadata[configKey] = cfg
		return nil
	}
	return app
}

func main() {
	app := newApp()
	app.Writer = colorable.NewColorableStdout()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(cfg logConfig) {
	var (
		output   io.Writer = os.Stderr
		usecolor           = (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	)
	if usecolor {
		output = colorable.NewColorableStderr()
	}
	log.PrintOrigins(cfg.Origins)
	log.Root().SetHandler(log.LvlFilterHandler(log.Lvl(cfg.Verbosity), log.StreamHandler(output, log.TerminalFormat(usecolor))))
}

// config returns the configuration assembled before the command ran.
func config(ctx *cli.Context) rlpdumpConfig {
	if cfg, ok := ctx.App.Metadata[configKey].(rlpdumpConfig); ok {
		return cfg
	}
	return defaultConfig
}

// readInput returns the binary input of a command. It comes from the --hex
// flag, the file named by the first argument or stdin, in that order.
func readInput(ctx *cli.Context) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case ctx.IsSet(hexFlag.Name):
		data, err = common.ParseHex(ctx.String(hexFlag.Name))
		if err != nil {
			return nil, fmt.Errorf("invalid hex: %v", err)
		}
	case ctx.NArg() > 0:
		data, err = os.ReadFile(ctx.Args().First())
	default:
		data, err = io.ReadAll(ctx.App.Reader)
	}
	if err != nil {
		return nil, err
	}
	if ctx.Bool(snappyFlag.Name) {
		if data, err = snappy.Decode(nil, data); err != nil {
			return nil, fmt.Errorf("snappy: %v", err)
		}
	}
	log.Debug("Read input", "size", len(data))
	return data, nil
}
