package panel

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/perspective/pkg/cli"
	"github.com/perspective/pkg/markdown"
	"github.com/perspective/pkg/portal"
	"golang.org/x/term"
)

type Menu struct {
	Choice    *int
	Reader    *bufio.Reader
	Validator *portal.Validator
}

type AdminInput struct {
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,min=8,max=72"`
}

type articleInput struct {
	Url string `validate:"required,url,startswith=https://"`
}

func MakeMenu() Menu {
	menu := Menu{
		Reader:    bufio.NewReader(os.Stdin),
		Validator: portal.GetDefaultValidator(),
	}

	menu.Print()

	return menu
}

func (p *Menu) PrintLine() {
	_, _ = p.Reader.ReadString('\n')
}

func (p *Menu) GetChoice() int {
	if p.Choice == nil {
		return 0
	}

	return *p.Choice
}

func (p *Menu) CaptureInput() error {
	fmt.Print(cli.YellowColour + "Select an option: " + cli.Reset)
	input, err := p.Reader.ReadString('\n')

	if err != nil {
		return fmt.Errorf("%s error reading input: %v %s", cli.RedColour, err, cli.Reset)
	}

	choice, err := strconv.Atoi(strings.TrimSpace(input))

	if err != nil {
		return fmt.Errorf("%s Please enter a valid number. %s", cli.RedColour, cli.Reset)
	}

	p.Choice = &choice

	return nil
}

func (p *Menu) Print() {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))

	if err != nil || width < 20 {
		width = 80
	}

	inner := width - 2

	border := "╔" + strings.Repeat("═", inner) + "╗"
	title := "║" + p.CenterText(" Perspective ", inner) + "║"
	divider := "╠" + strings.Repeat("═", inner) + "╣"
	footer := "╚" + strings.Repeat("═", inner) + "╝"

	fmt.Println()
	fmt.Println(cli.CyanColour + border)
	fmt.Println(title)
	fmt.Println(divider)

	p.PrintOption("1) Import article from markdown", inner)
	p.PrintOption("2) Create admin account", inner)
	p.PrintOption("3) Export newsletter subscribers", inner)
	p.PrintOption("4) Generate auth secret", inner)
	p.PrintOption("5) Run database migrations", inner)
	p.PrintOption("0) Exit", inner)

	fmt.Println(footer + cli.Reset)
}

// PrintOption left-pads a space, writes the text, then fills to the full inner width.
func (p *Menu) PrintOption(text string, inner int) {
	content := " " + text

	if len(content) > inner {
		content = content[:inner]
	}

	padding := inner - len(content)
	fmt.Printf("║%s%s║\n", content, strings.Repeat(" ", padding))
}

// CenterText centers s within width, padding with spaces.
func (p *Menu) CenterText(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}

	pad := width - len(s)
	left := pad / 2
	right := pad - left

	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

func (p *Menu) CaptureArticleURL() (*markdown.Parser, error) {
	fmt.Print("Enter the article markdown URL: ")

	uri, err := p.Reader.ReadString('\n')

	if err != nil {
		return nil, fmt.Errorf("%sError reading the given URL: %v %s", cli.RedColour, err, cli.Reset)
	}

	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, fmt.Errorf("%sError: no URL provided %s", cli.RedColour, cli.Reset)
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%sError: invalid URL: %v %s", cli.RedColour, err, cli.Reset)
	}

	if _, err := p.Validator.Rejects(articleInput{Url: parsed.String()}); err != nil {
		return nil, fmt.Errorf(
			"%sError validating the given URL: %v %s \n%sViolations:%s %s",
			cli.RedColour,
			err,
			cli.Reset,
			cli.BlueColour,
			cli.Reset,
			p.Validator.GetErrorsAsJson(),
		)
	}

	return &markdown.Parser{Url: parsed.String()}, nil
}

func (p *Menu) CaptureAdmin() (*AdminInput, error) {
	fmt.Print("Enter the admin email: ")

	email, err := p.Reader.ReadString('\n')

	if err != nil {
		return nil, fmt.Errorf("%sError reading the email: %v %s", cli.RedColour, err, cli.Reset)
	}

	fmt.Print("Enter the admin password: ")

	password, err := p.readSecret()

	if err != nil {
		return nil, fmt.Errorf("%sError reading the password: %v %s", cli.RedColour, err, cli.Reset)
	}

	input := AdminInput{
		Email:    strings.TrimSpace(email),
		Password: password,
	}

	if _, err := p.Validator.Rejects(input); err != nil {
		return nil, fmt.Errorf("%sInvalid admin details:%s %s", cli.RedColour, cli.Reset, p.Validator.GetErrorsAsJson())
	}

	return &input, nil
}

func (p *Menu) CaptureExportDir() (string, error) {
	fmt.Print("Enter the export directory [.]: ")

	dir, err := p.Reader.ReadString('\n')

	if err != nil {
		return "", fmt.Errorf("%sError reading the directory: %v %s", cli.RedColour, err, cli.Reset)
	}

	if dir = strings.TrimSpace(dir); dir == "" {
		return ".", nil
	}

	return dir, nil
}

// readSecret hides the typed password on a terminal and falls back to the
// buffered reader when stdin is piped.
func (p *Menu) readSecret() (string, error) {
	fd := int(os.Stdin.Fd())

	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()

		return string(raw), err
	}

	line, err := p.Reader.ReadString('\n')

	return strings.TrimRight(line, "\r\n"), err
}
