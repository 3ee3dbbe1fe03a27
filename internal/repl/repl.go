// Package repl implements the interactive rewind shell: a document held in
// a history-tracked store, edited and navigated one command per line.
package repl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ergochat/readline"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/rewind/internal/document"
	"github.com/dshills/rewind/internal/history"
	"github.com/dshills/rewind/internal/timeline"
)

// ErrQuit is returned by Exec for the quit command.
var ErrQuit = errors.New("quit")

// deductionCacheSize bounds the number of distinct deduce commands whose
// memoized results are kept.
const deductionCacheSize = 32

var completer = readline.NewPrefixCompleter(
	readline.PcItem("help"),

	readline.PcItem("load"),
	readline.PcItem("show"),
	readline.PcItem("get"),
	readline.PcItem("set"),
	readline.PcItem("del"),

	readline.PcItem("undo"),
	readline.PcItem("redo"),
	readline.PcItem("jump"),
	readline.PcItem("clear"),
	readline.PcItem("history"),
	readline.PcItem("deduce",
		readline.PcItem("lua:"),
	),

	readline.PcItem("exit"),
	readline.PcItem("quit"),
)

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session executes shell commands against a store.
type Session struct {
	store  *timeline.Store
	out    io.Writer
	logger *slog.Logger

	deductions *lru.Cache[string, *deduction]
}

// New creates a session writing command output to out. The store must use
// Reducer.
func New(store *timeline.Store, out io.Writer, opts ...Option) *Session {
	s := &Session{
		store:  store,
		out:    out,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Only fails for a non-positive size.
	s.deductions, _ = lru.NewWithEvict[string, *deduction](deductionCacheSize, func(_ string, d *deduction) {
		d.close()
	})
	return s
}

// Close releases cached deductions.
func (s *Session) Close() error {
	s.deductions.Purge()
	return nil
}

// Document returns the current document without its history.
func (s *Session) Document() map[string]any {
	doc, _, err := history.Split(s.store.State(), s.store.Key())
	if err != nil {
		return map[string]any{}
	}
	return doc
}

// Reload replaces the document with doc as a recorded change.
func (s *Session) Reload(doc map[string]any) {
	s.store.Dispatch(timeline.Action{Type: ActionReload, Payload: doc})
	s.logger.Info("document reloaded", "keys", len(doc))
}

// Run reads commands with line editing until quit or end of input.
func (s *Session) Run(historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "rewind> ",
		HistoryFile:     historyFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.Exec(line); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

// Exec runs a single command line.
func (s *Session) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "help", "?":
		return s.commandHelp()
	case "load":
		return s.commandLoad(rest)
	case "show":
		return s.commandShow()
	case "get":
		return s.commandGet(rest)
	case "set":
		return s.commandSet(rest)
	case "del", "delete":
		return s.commandDelete(rest)
	case "undo":
		return s.commandUndo()
	case "redo":
		return s.commandRedo()
	case "jump":
		return s.commandJump(rest)
	case "clear":
		return s.commandClear()
	case "history":
		return s.commandHistory()
	case "deduce":
		return s.commandDeduce(rest)
	case "exit", "quit":
		return ErrQuit
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

func (s *Session) print(v any) error {
	text, err := document.Pretty(v)
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, text)
	return nil
}
