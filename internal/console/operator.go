package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jengzang/fingerprint-calibrator/internal/workflow"
)

// ErrClosed is returned when the input ends.
var ErrClosed = errors.New("console input closed")

// Operator asks the person at the terminal to approve fingerprints.
type Operator struct {
	in  *bufio.Reader
	out io.Writer
}

// NewOperator reads answers from in and writes prompts to out.
func NewOperator(in io.Reader, out io.Writer) *Operator {
	return &Operator{in: bufio.NewReader(in), out: out}
}

// ReadLine reads one trimmed input line.
func (o *Operator) ReadLine() (string, error) {
	line, err := o.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		if errors.Is(err, io.EOF) {
			return "", ErrClosed
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm prints the scan summary and waits for y or n. Anything other than
// y/yes declines.
func (o *Operator) Confirm(ctx context.Context, p workflow.Prompt) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprint(o.out, p.Summary())
	fmt.Fprint(o.out, "Save this fingerprint? [y/N] ")

	answer, err := o.ReadLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Notify prints a workflow notification.
func (o *Operator) Notify(n workflow.Notification) {
	switch {
	case n.Kind == workflow.NoticeSaved && n.Estimate != nil:
		fmt.Fprintf(o.out, "%s Estimated position: (%.2f, %.2f)\n", n.Message, n.Estimate.X, n.Estimate.Y)
	case n.Kind == workflow.NoticeFailed:
		fmt.Fprintf(o.out, "Error: %s\n", n.Message)
	default:
		fmt.Fprintln(o.out, n.Message)
	}
}

// Printf writes to the operator's output.
func (o *Operator) Printf(format string, args ...any) {
	fmt.Fprintf(o.out, format, args...)
}
