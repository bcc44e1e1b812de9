package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	errNotTerminal      = errors.New("password prompt needs an interactive terminal")
	errPasswordMismatch = errors.New("passwords do not match")
)

// promptNewPassword asks for a password twice without echo.
func promptNewPassword(stdin *os.File, out io.Writer) (string, error) {
	fmt.Fprint(out, "Password: ")
	first, err := readSecretLine(stdin)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}

	fmt.Fprint(out, "Repeat password: ")
	second, err := readSecretLine(stdin)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}

	if first != second {
		return "", errPasswordMismatch
	}
	return first, nil
}

func readLine(stdin io.Reader) (string, error) {
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
