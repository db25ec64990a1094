package main

import (
	"fmt"
	"io"

	"github.com/danmuck/pngctl/internal/commands"
	"github.com/danmuck/pngctl/internal/config"
	"github.com/danmuck/pngctl/internal/logging"
	"github.com/danmuck/pngctl/internal/message"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

type globalOptions struct {
	configPath string
	verbose    bool
}

// environment carries the resolved config into each subcommand.
type environment struct {
	cfg    config.Config
	stdout io.Writer
	stderr io.Writer
}

func newEnvironment(global globalOptions, stdout, stderr io.Writer) (*environment, error) {
	cfg, path, err := config.Resolve(global.configPath)
	if err != nil {
		return nil, err
	}

	logCfg := logging.DefaultConfig(logging.ProfileRuntime)
	logCfg.Timestamp = cfg.LogTimestamp
	if lvl, ok := logging.ParseLevel(cfg.LogLevel); ok {
		logCfg.Level = lvl
	}
	logging.ApplyEnvOverrides(&logCfg)
	if global.verbose {
		logCfg.Level = zerolog.TraceLevel
	}
	log.Logger = logging.New(stderr, "pngctl", logCfg)
	if path != "" {
		log.Debug().Str("path", path).Msg("loaded config")
	}

	return &environment{cfg: cfg, stdout: stdout, stderr: stderr}, nil
}

func (e *environment) runner(compress bool, level string) (*commands.Runner, error) {
	lvl, err := message.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	maxMessage := uint64(0)
	if e.cfg.MaxMessageSize > 0 {
		maxMessage = uint64(e.cfg.MaxMessageSize)
	}
	codec := message.NewCodec(
		message.WithCompression(compress),
		message.WithLevel(lvl),
		message.WithMaxDecodedSize(maxMessage),
	)
	return commands.New(
		commands.WithMaxFileSize(e.cfg.MaxFileSize),
		commands.WithCodec(codec),
	), nil
}

func (e *environment) flagSet(name string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.SetOutput(e.stderr)
	return flagSet
}

func (e *environment) encode(args []string) error {
	flagSet := e.flagSet("encode")
	compress := flagSet.Bool("compress", e.cfg.Compress, "store the message as a zstd frame")
	level := flagSet.String("level", e.cfg.CompressionLevel, "compression level: fastest|default|better|best")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	pos := flagSet.Args()
	if len(pos) < 3 || len(pos) > 4 {
		return fmt.Errorf("encode: want <file> <chunk_type> <message> [out_file], got %d arguments", len(pos))
	}
	req := commands.EncodeRequest{InFile: pos[0], ChunkType: pos[1], Message: pos[2]}
	if len(pos) == 4 {
		req.OutFile = pos[3]
	}

	r, err := e.runner(*compress, *level)
	if err != nil {
		return err
	}
	if err := r.Encode(req); err != nil {
		return err
	}
	out := req.OutFile
	if out == "" {
		out = req.InFile
	}
	log.Info().Str("chunk_type", req.ChunkType).Str("path", out).Msg("message encoded")
	return nil
}

func (e *environment) decode(args []string) error {
	flagSet := e.flagSet("decode")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	pos := flagSet.Args()
	if len(pos) != 2 {
		return fmt.Errorf("decode: want <file> <chunk_type>, got %d arguments", len(pos))
	}

	r, err := e.runner(false, e.cfg.CompressionLevel)
	if err != nil {
		return err
	}
	text, err := r.Decode(commands.DecodeRequest{InFile: pos[0], ChunkType: pos[1]})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.stdout, text)
	return err
}

func (e *environment) remove(args []string) error {
	flagSet := e.flagSet("remove")
	out := flagSet.String("out", "", "write the result here instead of updating <file> in place")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	pos := flagSet.Args()
	if len(pos) != 2 {
		return fmt.Errorf("remove: want <file> <chunk_type>, got %d arguments", len(pos))
	}

	r, err := e.runner(false, e.cfg.CompressionLevel)
	if err != nil {
		return err
	}
	removed, err := r.Remove(commands.RemoveRequest{InFile: pos[0], OutFile: *out, ChunkType: pos[1]})
	if err != nil {
		return err
	}
	log.Info().Str("chunk", removed.String()).Msg("message removed")
	return nil
}

func (e *environment) print(args []string) error {
	flagSet := e.flagSet("print")
	all := flagSet.Bool("all", e.cfg.PrintAll, "list every chunk, not only message carriers")
	formatRaw := flagSet.String("format", e.cfg.PrintFormat, "output format: text|json|yaml")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	pos := flagSet.Args()
	if len(pos) != 1 {
		return fmt.Errorf("print: want <file>, got %d arguments", len(pos))
	}
	format, err := commands.ParseFormat(*formatRaw)
	if err != nil {
		return err
	}

	r, err := e.runner(false, e.cfg.CompressionLevel)
	if err != nil {
		return err
	}
	listing, err := r.Print(commands.PrintRequest{InFile: pos[0], All: *all})
	if err != nil {
		return err
	}
	return listing.Render(e.stdout, format)
}
