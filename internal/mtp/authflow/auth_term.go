// Package authflow provides the credential providers for the Telegram login.
package authflow

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"golang.org/x/term"
)

// CredentialProvider supplies the login details when the stored session is
// missing or rejected.  The methods are called in order: Phone, Code and,
// if the account has two-factor authentication enabled, Password.
type CredentialProvider interface {
	Phone(ctx context.Context) (string, error)
	Code(ctx context.Context, sentCode *tg.AuthSentCode) (string, error)
	Password(ctx context.Context) (string, error)
}

var (
	ErrAborted = errors.New("login aborted")
	ErrTimeout = errors.New("operation timed out")
)

var hint = color.New(color.Italic, color.FgBlue)

// noSignUp can be embedded to prevent signing up.
type noSignUp struct{}

func (c noSignUp) SignUp(ctx context.Context) (auth.UserInfo, error) {
	return auth.UserInfo{}, errors.New("not implemented")
}

func (c noSignUp) AcceptTermsOfService(ctx context.Context, tos tg.HelpTermsOfService) error {
	return &auth.SignUpRequired{TermsOfService: tos}
}

type userAuth struct {
	noSignUp
	CredentialProvider
}

// UserAuthenticator wraps the provider into the gotd authenticator.
func UserAuthenticator(p CredentialProvider) auth.UserAuthenticator {
	return userAuth{CredentialProvider: p}
}

// TermAuth implements authentication via terminal.
type TermAuth struct {
	phone string

	in  *bufio.Reader
	fd  int
	out io.Writer
}

func NewTermAuth(phone string) *TermAuth {
	return &TermAuth{
		phone: phone,
		in:    bufio.NewReader(os.Stdin),
		fd:    int(os.Stdin.Fd()),
		out:   os.Stdout,
	}
}

func (a *TermAuth) Phone(_ context.Context) (string, error) {
	if a.phone != "" {
		return a.phone, nil
	}
	fmt.Fprintf(a.out, "Connected, please login to Telegram.\n\n")
	fmt.Fprint(a.out, "Enter phone number: ")
	return a.readln()
}

func (a *TermAuth) Password(_ context.Context) (string, error) {
	defer fmt.Fprintln(a.out)
	fmt.Fprint(a.out, "Enter 2FA password (won't be shown): ")
	if !term.IsTerminal(a.fd) {
		return a.readln()
	}
	return a.readpass()
}

func (a *TermAuth) Code(_ context.Context, code *tg.AuthSentCode) (string, error) {
	codeHelp, length := codeSpecifics(code)
	timeoutHelp, timeoutIn := codeTimeout(code)
	deadline := time.Now().Add(timeoutIn)

	for {
		fmt.Fprintf(a.out, "%s %s\nEnter code%s: ", hint.Sprint("(i) TIP:"), codeHelp, timeoutHelp)
		input, err := a.readln()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", ErrAborted
			}
			return "", err
		}
		if time.Now().After(deadline) {
			return "", ErrTimeout
		}
		if len(input) == length || length == 0 {
			return input, nil
		}
		fmt.Fprintln(a.out, "*** Invalid code, try again [Press Ctrl+C to abort] ***")
	}
}

func codeSpecifics(code *tg.AuthSentCode) (string, int) {
	digits := func(where string, n int) string {
		return fmt.Sprintf("The code %s.\nEnter exactly %d digits.", where, n)
	}

	switch val := code.Type.(type) {
	case *tg.AuthSentCodeTypeApp:
		return digits("was sent through the telegram app", val.GetLength()), val.GetLength()
	case *tg.AuthSentCodeTypeSMS:
		return digits("will be sent via a text message (SMS)", val.GetLength()), val.GetLength()
	case *tg.AuthSentCodeTypeCall:
		return digits("will be sent via a phone call", val.GetLength()), val.GetLength()
	case *tg.AuthSentCodeTypeFlashCall:
		return fmt.Sprintf("The code is the number of the incoming flash call, it must match the pattern: %q", val.GetPattern()), len(val.GetPattern())
	case *tg.AuthSentCodeTypeMissedCall:
		return fmt.Sprintf("The code is the last digits of the number that calls you, prefix: %s", val.GetPrefix()), val.GetLength()
	default:
		return "Enter the code you have received.", 0
	}
}

func codeTimeout(code *tg.AuthSentCode) (string, time.Duration) {
	timeout, ok := code.GetTimeout()
	if !ok {
		return "", 30 * time.Minute
	}
	ret := time.Duration(timeout) * time.Second
	return fmt.Sprintf(" (within %s)", ret), ret
}

func (a *TermAuth) readln() (string, error) {
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *TermAuth) readpass() (string, error) {
	oldState, err := term.MakeRaw(a.fd)
	if err != nil {
		return "", err
	}
	defer term.Restore(a.fd, oldState)

	bytePwd, err := term.ReadPassword(a.fd)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(bytePwd)), nil
}
