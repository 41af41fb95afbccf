package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kr/pretty"
	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
	"go.imp.dev/pkg"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const historyFile = ".imp_history"

var (
	parseOnly = flag.Bool("parse-only", false, "Print the infix and prefix forms of each input instead of evaluating it.")
	emitLLVM  = flag.Bool("emit-llvm", false, "Print the LLVM IR of each input instead of evaluating it.")
	dumpAST   = flag.Bool("dump-ast", false, "Dump the parsed syntax tree before processing it.")
	maxSteps  = flag.Int("max-steps", 0, "Abort a run after this many reductions. Zero means no limit.")
	logLevel  = flag.String("log-level", "INFO", "Logging level. Supported levels: DEBUG, INFO, WARN, ERROR, FATAL.")
	history   = flag.String("history", defaultHistoryPath(), "REPL history file. Empty disables history.")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] [file]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := setupLogger(*logLevel)
	defer func() { _ = logger.Sync() }()

	var err error
	switch flag.NArg() {
	case 0:
		err = repl(*history)
	case 1:
		err = runFile(flag.Arg(0))
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		zap.S().Fatal(describe(err))
	}
}

// setupLogger writes to stderr so that step output on stdout stays clean.
func setupLogger(level string) *zap.Logger {
	al := zap.NewAtomicLevel()
	switch strings.ToUpper(level) {
	case "DEBUG":
		al.SetLevel(zap.DebugLevel)
	case "INFO":
		al.SetLevel(zap.InfoLevel)
	case "WARN":
		al.SetLevel(zap.WarnLevel)
	case "ERROR":
		al.SetLevel(zap.ErrorLevel)
	case "FATAL":
		al.SetLevel(zap.FatalLevel)
	default:
		al.SetLevel(zap.InfoLevel)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(os.Stderr), al)
	logger := zap.New(core)
	zap.ReplaceGlobals(logger)

	return logger
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, historyFile)
}

func runFile(filename string) error {
	if *emitLLVM && !*parseOnly && !*dumpAST {
		return emitFile(filename, os.Stdout)
	}

	src, err := os.ReadFile(filename) // #nosec: reading the user supplied program is the point
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", filename)
	}

	zap.S().Debugf("Running %s (%d bytes)", filename, len(src))

	return process(string(src), imp.NewStore())
}

// emitFile compiles filename straight from disk and writes its IR to w.
func emitFile(filename string, w io.Writer) error {
	mod, err := imp.NewCompiler(zap.L()).Compile(filename)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, mod)
	return errors.Wrap(err, "failed to write IR")
}

// process handles one input against store in the mode selected by flags.
func process(src string, store *imp.Store) error {
	expr, err := imp.Parse(src)
	if err != nil {
		return err
	}

	if *dumpAST {
		_, _ = pretty.Println(expr)
	}

	switch {
	case *parseOnly:
		fmt.Println(expr)
		fmt.Println(imp.Sexp(expr))
		return nil
	case *emitLLVM:
		mod, err := imp.NewCompiler(zap.L()).CompileExpr(expr)
		if err != nil {
			return err
		}

		fmt.Println(mod)
		return nil
	}

	interpreter := imp.NewInterpreter(
		imp.WithLogger(zap.L()),
		imp.WithMaxSteps(*maxSteps),
		imp.WithObserver(func(s imp.Step) {
			fmt.Println("=>", s)
		}),
	)

	_, err = interpreter.Eval(expr, store)
	return err
}

func describe(err error) string {
	switch e := errors.Cause(err).(type) {
	case *imp.SyntaxError:
		return fmt.Sprintf("Syntax error at %s: %s", e.Span.Start, e.Msg)
	case *imp.UndefinedError:
		return fmt.Sprintf("Undefined location: %s (%v)", e.Name, err)
	case *imp.UndefinedOperationError:
		return fmt.Sprintf("Undefined operation: %s (%v)", e.Op, err)
	case *imp.ConditionError:
		return fmt.Sprintf("Bad condition: %s (%v)", imp.Sexp(e.Predicate), err)
	default:
		return err.Error()
	}
}
