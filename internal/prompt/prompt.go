package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Labels shown to the user, matching the service's locale
const (
	FolderLabel   = "请输入文件夹路径："
	UsernameLabel = "请输入账号："
	PasswordLabel = "请输入密码："
)

// Prompter reads answers from the user
type Prompter interface {
	// Line shows label and returns one line of input without the newline
	Line(label string) (string, error)
	// Secret is Line without echoing the input where the terminal allows it
	Secret(label string) (string, error)
}

// Terminal is a Prompter on an input stream and an output stream
type Terminal struct {
	in     *bufio.Reader
	out    io.Writer
	fd     int
	hasTTY bool
}

// NewTerminal creates a Terminal. When in is a terminal, Secret disables echo.
func NewTerminal(in *os.File, out io.Writer) *Terminal {
	fd := int(in.Fd())
	return &Terminal{
		in:     bufio.NewReader(in),
		out:    out,
		fd:     fd,
		hasTTY: term.IsTerminal(fd),
	}
}

// NewReader creates a Terminal over an arbitrary reader, always echoing
func NewReader(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Line implements Prompter
func (t *Terminal) Line(label string) (string, error) {
	fmt.Fprint(t.out, label)
	line, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Secret implements Prompter
func (t *Terminal) Secret(label string) (string, error) {
	if !t.hasTTY {
		return t.Line(label)
	}

	fmt.Fprint(t.out, label)
	secret, err := term.ReadPassword(t.fd)
	fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(secret), nil
}

// Credentials asks for the account name and then the password
func Credentials(p Prompter) (username, password string, err error) {
	username, err = p.Line(UsernameLabel)
	if err != nil {
		return "", "", err
	}
	password, err = p.Secret(PasswordLabel)
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

// Folder asks for the directory holding the subtitles
func Folder(p Prompter) (string, error) {
	dir, err := p.Line(FolderLabel)
	if err != nil {
		return "", err
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "", errors.New("no folder given")
	}
	return dir, nil
}
