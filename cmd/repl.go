package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"go.imp.dev/pkg"
	"go.uber.org/zap"
)

const prompt = "IMP> "

// repl evaluates one line at a time against a store shared by the whole
// session. Syntax errors are reported and the session goes on, any other
// error ends it.
func repl(historyPath string) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}

		defer func() {
			f, err := os.Create(historyPath)
			if err != nil {
				zap.S().Debugf("Failed to save history: %v", err)
				return
			}

			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	store := imp.NewStore()
	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return nil
		}

		if err != nil {
			return errors.Wrap(err, "failed to read input")
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		ln.AppendHistory(line)

		err = process(line, store)
		var syntaxErr *imp.SyntaxError
		if errors.As(err, &syntaxErr) {
			fmt.Fprintln(os.Stderr, describe(err))
			continue
		}

		if err != nil {
			return err
		}
	}
}
