package repl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/rewind/internal/deducer"
	"github.com/dshills/rewind/internal/document"
	"github.com/dshills/rewind/internal/script"
)

// deduction is a cached deducer and the script it may own.
type deduction struct {
	d   *deducer.Deducer[any]
	sel *script.Selector
}

func (d *deduction) close() {
	if d.sel != nil {
		_ = d.sel.Close()
	}
}

func (s *Session) commandDeduce(arg string) error {
	fields := strings.Fields(arg)
	if len(fields) == 0 {
		return HelpDeduce
	}
	key := strings.Join(fields, " ")

	d, ok := s.deductions.Get(key)
	if !ok {
		var err error
		if d, err = s.newDeduction(fields); err != nil {
			return err
		}
		s.deductions.Add(key, d)
	}

	results, err := d.d.Deduce(s.store.State())
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(s.out, "no results")
		return nil
	}
	for i, r := range results {
		fmt.Fprintf(s.out, "%4d  %s\n", i+1, encodeValue(r))
	}
	return nil
}

func (s *Session) newDeduction(fields []string) (*deduction, error) {
	opts := []deducer.Option{
		deducer.WithKey(s.store.Key()),
		deducer.WithLogger(s.logger),
	}

	rest := fields[1:]
	for len(rest) > 0 {
		switch rest[0] {
		case "next":
			opts = append(opts, deducer.WithNext())
			rest = rest[1:]
		case "unique":
			opts = append(opts, deducer.WithUnique())
			rest = rest[1:]
		case "limit", "index":
			if len(rest) < 2 {
				return nil, HelpDeduce
			}
			n, err := strconv.Atoi(rest[1])
			if err != nil {
				return nil, HelpDeduce
			}
			if rest[0] == "limit" {
				opts = append(opts, deducer.WithLimit(n))
			} else {
				opts = append(opts, deducer.WithIndex(n))
			}
			rest = rest[2:]
		case "range":
			if len(rest) < 3 {
				return nil, HelpDeduce
			}
			lower, err1 := strconv.Atoi(rest[1])
			upper, err2 := strconv.Atoi(rest[2])
			if err1 != nil || err2 != nil {
				return nil, HelpDeduce
			}
			opts = append(opts, deducer.WithRange(lower, upper))
			rest = rest[3:]
		default:
			return nil, fmt.Errorf("unknown deduce option %q: %w", rest[0], HelpDeduce)
		}
	}

	target := fields[0]
	if src, ok := strings.CutPrefix(target, "lua:"); ok {
		sel, err := script.Compile(src, script.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		return &deduction{d: deducer.New(sel.Select, opts...), sel: sel}, nil
	}

	selector := func(state map[string]any, _ ...any) any {
		v, _ := document.Get(state, target)
		return v
	}
	return &deduction{d: deducer.New(selector, opts...)}, nil
}
