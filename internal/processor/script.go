package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

// ErrSyntax is wrapped by script parse errors, together with ldmcsv.ErrParameter.
var ErrSyntax = errors.New("script syntax error")

// ParseScript reads statements of the form
//
//	Name(key="value", other=true);
//
// Values are Go string literals or bare words and numbers. The trailing
// semicolon is optional and // and /* */ comments are skipped.
func ParseScript(name string, r io.Reader) ([]Command, error) {
	p := &scriptParser{}
	p.s.Init(r)
	p.s.Filename = name
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats |
		scanner.ScanStrings | scanner.ScanRawStrings | scanner.ScanComments | scanner.SkipComments
	p.s.Error = func(s *scanner.Scanner, msg string) {
		if p.err == nil {
			p.err = p.errorf(s.Position, "%s", msg)
		}
	}
	p.next()

	var commands []Command
	for p.tok != scanner.EOF && p.err == nil {
		cmd, err := p.statement()
		if err != nil {
			return nil, err
		}
		commands = append(commands, cmd)
	}
	if p.err != nil {
		return nil, p.err
	}
	return commands, nil
}

type scriptParser struct {
	s   scanner.Scanner
	tok rune
	err error
}

func (p *scriptParser) next() {
	p.tok = p.s.Scan()
}

func (p *scriptParser) errorf(pos scanner.Position, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w: %w", pos, fmt.Sprintf(format, args...), ErrSyntax, ldmcsv.ErrParameter)
}

func (p *scriptParser) expect(tok rune) error {
	if p.tok != tok {
		return p.errorf(p.s.Position, "expected %s, found %s", scanner.TokenString(tok), p.found())
	}
	p.next()
	return nil
}

func (p *scriptParser) found() string {
	if p.tok == scanner.EOF {
		return "end of script"
	}
	return strconv.Quote(p.s.TokenText())
}

func (p *scriptParser) statement() (Command, error) {
	if p.tok != scanner.Ident {
		return Command{}, p.errorf(p.s.Position, "expected command name, found %s", p.found())
	}
	cmd := NewCommand(p.s.TokenText(), nil)
	p.next()

	if err := p.expect('('); err != nil {
		return Command{}, err
	}
	for p.tok != ')' {
		if err := p.param(cmd); err != nil {
			return Command{}, err
		}
		if p.tok == ',' {
			p.next()
			continue
		}
		if p.tok != ')' {
			return Command{}, p.errorf(p.s.Position, "expected , or ), found %s", p.found())
		}
	}
	p.next()

	if p.tok == ';' {
		p.next()
	}
	return cmd, p.err
}

func (p *scriptParser) param(cmd Command) error {
	if p.tok != scanner.Ident {
		return p.errorf(p.s.Position, "expected parameter name, found %s", p.found())
	}
	key := p.s.TokenText()
	pos := p.s.Position
	p.next()

	if err := p.expect('='); err != nil {
		return err
	}

	var value string
	switch p.tok {
	case scanner.String, scanner.RawString:
		v, err := strconv.Unquote(p.s.TokenText())
		if err != nil {
			return p.errorf(p.s.Position, "bad string %s", p.s.TokenText())
		}
		value = v
	case scanner.Ident, scanner.Int, scanner.Float:
		value = p.s.TokenText()
	default:
		return p.errorf(p.s.Position, "expected value for %s, found %s", key, p.found())
	}
	p.next()

	if _, dup := cmd.Params[key]; dup {
		return p.errorf(pos, "parameter %s given twice", key)
	}
	cmd.Params[key] = value
	return nil
}

// RunScript dispatches the commands in order and stops at the first failure.
func RunScript(ctx context.Context, h Handler, commands []Command, pctx *Context, logger ldmcsv.Logger) error {
	for i, cmd := range commands {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Verbose("[%d/%d] %s", i+1, len(commands), cmd)
		if err := h.ProcessCommand(ctx, cmd, pctx); err != nil {
			return fmt.Errorf("statement %d (%s): %w", i+1, strings.TrimSpace(cmd.Name), err)
		}
	}
	return nil
}
