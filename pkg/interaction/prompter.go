// pkg/interaction/prompter.go

package interaction

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/frkngnc/commitor/pkg/commitor_err"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const (
	DefaultYesPrompt  = "Y/n"
	DefaultNoPrompt   = "y/N"
	EnterChoicePrompt = "Enter choice number"
)

const (
	YesShort = "y"
	YesLong  = "yes"
	NoShort  = "n"
	NoLong   = "no"

	// Turkish answers are accepted as well.
	EvetShort = "e"
	EvetLong  = "evet"
	HayirLong = "hayır"
)

// ErrNoInput is returned when the input stream ends before an answer.
var ErrNoInput = errors.New("no input available")

// Prompter reads answers from in and writes prompts to out.
// Prompts go to stderr by default so stdout stays clean for --json output.
type Prompter struct {
	in     *bufio.Reader
	rawIn  io.Reader
	out    io.Writer
	fd     int
	isTerm bool
}

// New returns a Prompter bound to the process terminal.
func New() *Prompter {
	fd := int(os.Stdin.Fd())
	return &Prompter{
		in:     bufio.NewReader(os.Stdin),
		rawIn:  os.Stdin,
		out:    os.Stderr,
		fd:     fd,
		isTerm: term.IsTerminal(fd),
	}
}

// NewWithIO returns a Prompter over arbitrary streams. It never treats
// them as a terminal, so menus and editors fall back to line input.
func NewWithIO(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), rawIn: in, out: out, fd: -1}
}

// IsTerminal reports whether interactive widgets can be used.
func (p *Prompter) IsTerminal() bool { return p.isTerm }

// Out is where prompts are written.
func (p *Prompter) Out() io.Writer { return p.out }

// ReadLine prints label and returns one trimmed line.
func (p *Prompter) ReadLine(ctx context.Context, label string) (string, error) {
	logger := otelzap.Ctx(ctx)
	logger.Debug("Prompting user for input", zap.String("label", label))

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if label != "" {
		_, _ = fmt.Fprint(p.out, label+": ")
	}

	text, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && text != "" {
			return strings.TrimSpace(text), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		logger.Error("Failed to read user input", zap.Error(err))
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Input asks for a value and falls back to defaultVal on an empty answer.
func (p *Prompter) Input(ctx context.Context, prompt, defaultVal string) (string, error) {
	label := prompt
	if defaultVal != "" {
		label = fmt.Sprintf("%s [%s]", prompt, defaultVal)
	}
	v, err := p.ReadLine(ctx, label)
	if err != nil {
		return "", err
	}
	if v == "" {
		return defaultVal, nil
	}
	return v, nil
}

// Required asks until validate accepts a non-empty answer.
func (p *Prompter) Required(ctx context.Context, prompt string, validate func(string) error) (string, error) {
	for {
		v, err := p.ReadLine(ctx, prompt)
		if err != nil {
			return "", err
		}
		if v == "" {
			_, _ = fmt.Fprintln(p.out, "Input cannot be empty.")
			continue
		}
		if validate != nil {
			if verr := validate(v); verr != nil {
				_, _ = fmt.Fprintln(p.out, verr)
				continue
			}
		}
		return v, nil
	}
}

// YesNo asks a yes/no question. Unrecognised or empty input returns defaultYes.
func (p *Prompter) YesNo(ctx context.Context, prompt string, defaultYes bool) (bool, error) {
	def := DefaultYesPrompt
	if !defaultYes {
		def = DefaultNoPrompt
	}
	input, err := p.ReadLine(ctx, fmt.Sprintf("%s [%s]", prompt, def))
	if err != nil {
		return defaultYes, err
	}
	if answer, ok := NormalizeYesNoInput(input); ok {
		otelzap.Ctx(ctx).Debug("User answered", zap.String("prompt", prompt), zap.Bool("answer", answer))
		return answer, nil
	}
	return defaultYes, nil
}

// Select prints numbered options and returns the chosen index.
func (p *Prompter) Select(ctx context.Context, prompt string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, fmt.Errorf("no options to select from")
	}
	_, _ = fmt.Fprintln(p.out, prompt)
	for i, option := range options {
		_, _ = fmt.Fprintf(p.out, "  %d) %s\n", i+1, option)
	}

	for {
		choice, err := p.ReadLine(ctx, EnterChoicePrompt)
		if err != nil {
			return -1, err
		}
		idx, convErr := strconv.Atoi(choice)
		if convErr == nil && idx >= 1 && idx <= len(options) {
			otelzap.Ctx(ctx).Debug("User selected option", zap.Int("index", idx), zap.String("value", options[idx-1]))
			return idx - 1, nil
		}
		_, _ = fmt.Fprintln(p.out, "Invalid selection. Please try again.")
	}
}

// Secret reads a value without echo. Without a terminal it reads a plain
// line, which keeps piped setup working.
func (p *Prompter) Secret(ctx context.Context, prompt string) (string, error) {
	if !p.isTerm {
		return p.ReadLine(ctx, prompt)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	_, _ = fmt.Fprint(p.out, prompt+": ")
	b, err := term.ReadPassword(p.fd)
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		otelzap.Ctx(ctx).Error("Failed to read secret input", zap.Error(err))
		return "", commitor_err.NewValidationError("could not read secret input: " + err.Error())
	}
	return strings.TrimSpace(string(b)), nil
}

// NormalizeYesNoInput maps an answer onto (value, recognised).
func NormalizeYesNoInput(input string) (bool, bool) {
	switch strings.TrimSpace(strings.ToLower(input)) {
	case YesShort, YesLong, EvetShort, EvetLong:
		return true, true
	case NoShort, NoLong, HayirLong, "hayir":
		return false, true
	}
	return false, false
}

// ValidateNonEmpty ensures the input is not blank.
func ValidateNonEmpty(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("input cannot be empty")
	}
	return nil
}
