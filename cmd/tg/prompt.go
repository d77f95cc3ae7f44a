package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/stokewood/triage/internal/ui"
)

// promptIn is replaced in tests. One shared reader so consecutive
// prompts never drop buffered input.
var promptIn = bufio.NewReader(os.Stdin)

// ask prints a prompt and reads one trimmed answer line.
func ask(prompt string) (string, error) {
	fmt.Print(ui.Question(prompt) + " ")
	line, err := promptIn.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question; the default answer is no.
func confirm(prompt string) (bool, error) {
	answer, err := ask(prompt + " [y/N]")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}
