package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
)

const (
	envLogLevel   = "COPROTO_LOG_LEVEL"
	envLogNoColor = "COPROTO_LOG_NOCOLOR"
)

type cli struct {
	LogLevel string `help:"Log level (trace, debug, info, warn, error, off). Overrides ${env}." placeholder:"LEVEL" env:"COPROTO_LOG_LEVEL"`

	Encode   encodeCmd   `cmd:"" help:"Encode a scalar and print it as hex."`
	Decode   decodeCmd   `cmd:"" help:"Decode a hex buffer and print the value."`
	Inspect  inspectCmd  `cmd:"" help:"Describe the framing of a hex buffer."`
	Segments segmentsCmd `cmd:"" help:"Split a hex buffer on every value delimiter."`
	JSON2CP  json2cpCmd  `cmd:"" name:"json2cp" help:"Convert a JSON document to a hex buffer."`
	CP2JSON  cp2jsonCmd  `cmd:"" name:"cp2json" help:"Convert a hex buffer to JSON."`
	Serve    serveCmd    `cmd:"" help:"Run a transport server that logs every message."`
	Send     sendCmd     `cmd:"" help:"Send JSON values to a transport server and wait for acks."`
}

// runContext is handed to every command's Run.
type runContext struct {
	ctx context.Context
	log zerolog.Logger
	out *os.File
}

func main() {
	var args cli
	kctx := kong.Parse(&args,
		kong.Name("coproto"),
		kong.Description("Encode, decode and exchange coproto values."),
		kong.UsageOnError(),
		kong.Vars{"env": envLogLevel},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rc := &runContext{ctx: ctx, log: newLogger(args.LogLevel), out: os.Stdout}
	kctx.FatalIfErrorf(kctx.Run(rc))
}

func newLogger(level string) zerolog.Logger {
	lvl, ok := parseLevel(level)
	if !ok {
		lvl = zerolog.InfoLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	if v, ok := parseBool(os.Getenv(envLogNoColor)); ok {
		w.NoColor = v
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
