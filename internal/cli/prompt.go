package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// prompter asks questions on stderr and reads answers from stdin. One
// prompter must serve a whole command since it buffers input.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.ErrOrStderr()}
}

// ask returns the trimmed answer. io.EOF means the input is exhausted.
func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question, " ")
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirm treats anything but an explicit yes as no, including closed input.
func (p *prompter) confirm(question string) bool {
	answer, err := p.ask(question + " [y/N]")
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "s", "si", "sí":
		return true
	}
	return false
}

// choose repeats the question until the first letter of the answer matches
// one of choices.
func (p *prompter) choose(question string, choices ...string) (string, error) {
	for {
		answer, err := p.ask(question)
		if err != nil {
			return "", err
		}
		answer = strings.ToLower(answer)
		for _, c := range choices {
			if answer == c || (len(answer) == 1 && strings.HasPrefix(c, answer)) {
				return c, nil
			}
		}
		fmt.Fprintf(p.out, "Please answer one of: %s\n", strings.Join(choices, ", "))
	}
}
