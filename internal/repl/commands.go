package repl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/rewind/internal/document"
	"github.com/dshills/rewind/internal/history"
	"github.com/dshills/rewind/internal/timeline"
)

// Usage errors.
var (
	HelpLoad   = errors.New("load FILE")
	HelpGet    = errors.New("get PATH")
	HelpSet    = errors.New("set PATH JSON")
	HelpDelete = errors.New("del PATH")
	HelpJump   = errors.New("jump N")
	HelpDeduce = errors.New("deduce PATH|lua:EXPR [limit N | range A B | index N] [next] [unique]")
)

// Navigation errors.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

const helpText = `Document
  load FILE          replace the document with a JSON, YAML or TOML file
  show               print the document
  get PATH           print the value at PATH (e.g. items.0.name)
  set PATH JSON      store a JSON value at PATH
  del PATH           delete the value at PATH
History
  undo | redo        step back or forward one change
  jump N             move N changes (negative: back)
  clear              forget the history, keep the document
  history            list recorded changes
Deduce
  deduce PATH|lua:EXPR [limit N | range A B | index N] [next] [unique]
                     evaluate PATH or a Lua expression over past states
                     (or, with next, over undone states), oldest first
  quit               leave the shell
`

func (s *Session) commandHelp() error {
	fmt.Fprint(s.out, helpText)
	return nil
}

func (s *Session) commandLoad(arg string) error {
	if arg == "" {
		return HelpLoad
	}
	doc, err := document.ReadFile(arg)
	if err != nil {
		return err
	}
	s.store.Dispatch(timeline.Action{Type: ActionLoad, Payload: doc})
	fmt.Fprintf(s.out, "loaded %s\n", arg)
	return nil
}

func (s *Session) commandShow() error {
	return s.print(s.Document())
}

func (s *Session) commandGet(arg string) error {
	if arg == "" {
		return HelpGet
	}
	v, ok := document.Get(s.Document(), arg)
	if !ok {
		return fmt.Errorf("no value at %s", arg)
	}
	return s.print(v)
}

func (s *Session) commandSet(arg string) error {
	path, raw, _ := strings.Cut(arg, " ")
	raw = strings.TrimSpace(raw)
	if path == "" || raw == "" {
		return HelpSet
	}
	doc, err := document.SetRaw(s.Document(), path, raw)
	if err != nil {
		return err
	}
	s.store.Dispatch(timeline.Action{Type: ActionSet, Payload: doc})
	return nil
}

func (s *Session) commandDelete(arg string) error {
	if arg == "" {
		return HelpDelete
	}
	current := s.Document()
	if _, ok := document.Get(current, arg); !ok {
		return fmt.Errorf("no value at %s", arg)
	}
	doc, err := document.Delete(current, arg)
	if err != nil {
		return err
	}
	s.store.Dispatch(timeline.Action{Type: ActionDelete, Payload: doc})
	return nil
}

func (s *Session) commandUndo() error {
	if !s.store.History().CanUndo() {
		return ErrNothingToUndo
	}
	s.store.Undo()
	return nil
}

func (s *Session) commandRedo() error {
	if !s.store.History().CanRedo() {
		return ErrNothingToRedo
	}
	s.store.Redo()
	return nil
}

func (s *Session) commandJump(arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return HelpJump
	}
	h := s.store.History()
	if (n < 0 && !h.CanUndo()) || (n > 0 && !h.CanRedo()) {
		return fmt.Errorf("cannot jump %d: %d back, %d forward available", n, h.UndoCount(), h.RedoCount())
	}
	s.store.Jump(n)
	return nil
}

func (s *Session) commandClear() error {
	s.store.Clear()
	fmt.Fprintln(s.out, "history cleared")
	return nil
}

func (s *Session) commandHistory() error {
	h := s.store.History()
	if !h.CanUndo() && !h.CanRedo() {
		fmt.Fprintln(s.out, "no history")
		return nil
	}

	redo := h.RedoInfo()
	for i := len(redo) - 1; i >= 0; i-- {
		s.printInfo(i+1, redo[i])
	}
	fmt.Fprintln(s.out, "   *  (current)")
	for i, info := range h.UndoInfo() {
		s.printInfo(-(i + 1), info)
	}
	return nil
}

func (s *Session) printInfo(step int, info history.BatchInfo) {
	fmt.Fprintf(s.out, "%+4d  %-16s %s\n", step, shortLabel(info.Label), info.Summary)
}

// shortLabel drops the action namespace, "document/SET" → "SET".
func shortLabel(label string) string {
	if i := strings.LastIndexByte(label, '/'); i >= 0 {
		label = label[i+1:]
	}
	if label == "" {
		return "-"
	}
	return label
}

// encodeValue renders a result on one line.
func encodeValue(v any) string {
	data, err := document.Encode(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
