package p4

import (
	"fmt"
	"strconv"
	"strings"

	shlex "github.com/anmitsu/go-shlex"
	"github.com/sirupsen/logrus"
)

type argKind int

const (
	argFlag argKind = iota
	argValue
	argNumber
)

// Arg is one entry of an ordered option specification. Build them with
// Flag, Value and Number and turn them into argv with BuildArgs.
type Arg struct {
	token string
	kind  argKind
	on    bool
	str   string
	num   *int
}

// Flag contributes token iff on.
func Flag(token string, on bool) Arg {
	return Arg{token: token, kind: argFlag, on: on}
}

// Value contributes token and v as two arguments iff v is non-empty. A
// token containing %s is instead formatted with v into a single argument,
// e.g. Value("-d%s", "u") yields "-du".
func Value(token, v string) Arg {
	return Arg{token: token, kind: argValue, str: v}
}

// Number contributes token and the decimal form of *v iff v is non-nil.
func Number(token string, v *int) Arg {
	return Arg{token: token, kind: argNumber, num: v}
}

// BuildArgs flattens args into an argument vector, in order.
func BuildArgs(args ...Arg) []string {
	var out []string
	for _, a := range args {
		switch a.kind {
		case argFlag:
			if a.on {
				out = append(out, a.token)
			}
		case argValue:
			if a.str == "" {
				continue
			}
			if strings.Contains(a.token, "%s") {
				out = append(out, fmt.Sprintf(a.token, a.str))
			} else {
				out = append(out, a.token, a.str)
			}
		case argNumber:
			if a.num != nil {
				out = append(out, a.token, strconv.Itoa(*a.num))
			}
		}
	}
	return out
}

// optNum returns nil for zero so that unset numeric options are omitted.
func optNum(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

// Connection holds the global p4 options that select a server, user and
// workspace. Empty fields are left to p4's own environment handling.
type Connection struct {
	Client   string `yaml:"client,omitempty" json:"client,omitempty"`
	Dir      string `yaml:"dir,omitempty" json:"dir,omitempty"`
	Host     string `yaml:"host,omitempty" json:"host,omitempty"`
	Port     string `yaml:"port,omitempty" json:"port,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	User     string `yaml:"user,omitempty" json:"user,omitempty"`
}

// connectionFlags is the fixed emission order of connection options.
var connectionFlags = []struct {
	key  string
	flag string
}{
	{"client", "-c"},
	{"dir", "-d"},
	{"host", "-H"},
	{"port", "-p"},
	{"password", "-P"},
	{"user", "-u"},
}

func (c Connection) get(key string) string {
	switch key {
	case "client":
		return c.Client
	case "dir":
		return c.Dir
	case "host":
		return c.Host
	case "port":
		return c.Port
	case "password":
		return c.Password
	case "user":
		return c.User
	}
	return ""
}

func (c *Connection) set(key, value string) {
	switch key {
	case "client":
		c.Client = value
	case "dir":
		c.Dir = value
	case "host":
		c.Host = value
	case "port":
		c.Port = value
	case "password":
		c.Password = value
	case "user":
		c.User = value
	}
}

// Args returns the two-token flag form of the non-empty options.
func (c Connection) Args() []string {
	var optv []string
	for _, f := range connectionFlags {
		if v := c.get(f.key); v != "" {
			optv = append(optv, f.flag, v)
		}
	}
	return optv
}

// Merge returns c with every non-empty field of override applied.
func (c Connection) Merge(override Connection) Connection {
	for _, f := range connectionFlags {
		if v := override.get(f.key); v != "" {
			c.set(f.key, v)
		}
	}
	return c
}

// BuildConnectionArgs maps named connection options (client, dir, host,
// port, password, user) to their flag form. Any other key is rejected.
func BuildConnectionArgs(options map[string]string) ([]string, error) {
	var c Connection
	for key, value := range options {
		if flagFor(key) == "" {
			return nil, &InvalidArgumentError{Name: "connection option", Value: key, Err: ErrUnsupportedOption}
		}
		c.set(key, value)
	}
	return c.Args(), nil
}

func flagFor(key string) string {
	for _, f := range connectionFlags {
		if f.key == key {
			return f.flag
		}
	}
	return ""
}

func keyFor(flag byte) string {
	for _, f := range connectionFlags {
		if f.flag[1] == flag {
			return f.key
		}
	}
	return ""
}

// ParseConnectionArgs is the inverse of Connection.Args. It accepts the
// global p4 options (-c -d -H -p -P -u, plus -h -V -x -G -s) in getopt
// style and stops at the first non-option argument, which is returned with
// everything after it.
//
// -h, -V and -x change p4's behaviour in ways the parsers cannot handle and
// are rejected. -G and -s control the output format, which the engine owns,
// so they are dropped.
func ParseConnectionArgs(argv []string) (Connection, []string, error) {
	var c Connection
	i := 0
	for i < len(argv) {
		arg := argv[i]
		if arg == "--" {
			i++
			break
		}
		if len(arg) < 2 || arg[0] != '-' {
			break
		}
		i++
		for j := 1; j < len(arg); j++ {
			opt := arg[j]
			switch opt {
			case 'h', 'V':
				return c, nil, &InvalidArgumentError{Name: "p4 option", Value: "-" + string(opt), Err: ErrInvalidOption}
			case 'G', 's':
				logger.WithField("option", "-"+string(opt)).Info("ignoring p4 option")
				continue
			case 'c', 'd', 'H', 'p', 'P', 'u', 'x':
			default:
				return c, nil, &InvalidArgumentError{Name: "p4 option", Value: "-" + string(opt), Err: ErrUnsupportedOption}
			}
			// The option takes a value: the rest of this word or the next one.
			var value string
			if j+1 < len(arg) {
				value = arg[j+1:]
			} else if i < len(argv) {
				value = argv[i]
				i++
			} else {
				return c, nil, &InvalidArgumentError{Name: "p4 option", Value: "-" + string(opt), Err: fmt.Errorf("%w: option requires an argument", ErrInvalidValue)}
			}
			if opt == 'x' {
				return c, nil, &InvalidArgumentError{Name: "p4 option", Value: "-x", Err: ErrInvalidOption}
			}
			c.set(keyFor(opt), value)
			break
		}
	}
	return c, argv[i:], nil
}

// ParseConnectionString splits a shell-style option string such as
// `-c my-ws -p "ssl:perforce:1666"` and parses it with ParseConnectionArgs.
// Trailing non-option words are an error.
func ParseConnectionString(s string) (Connection, error) {
	words, err := shlex.Split(s, true)
	if err != nil {
		return Connection{}, &InvalidArgumentError{Name: "p4 options", Value: s, Err: fmt.Errorf("%w: %v", ErrInvalidValue, err)}
	}
	c, rest, err := ParseConnectionArgs(words)
	if err != nil {
		return Connection{}, err
	}
	if len(rest) > 0 {
		return Connection{}, invalidValue("p4 options", strings.Join(rest, " "))
	}
	return c, nil
}

// JoinArgv joins an argument vector into one command string for a shell.
// Arguments containing a space or '*' are double-quoted, and embedded
// double quotes are backslash-escaped. This protects argument boundaries
// and glob patterns only; it is not general shell escaping.
func JoinArgv(argv []string) string {
	parts := make([]string, 0, len(argv))
	for _, arg := range argv {
		escaped := strings.ReplaceAll(arg, `"`, `\"`)
		if strings.ContainsAny(arg, " *") {
			escaped = `"` + escaped + `"`
		}
		parts = append(parts, escaped)
	}
	return strings.Join(parts, " ")
}

func logCommand(argv []string) *logrus.Entry {
	return logger.WithField("command", JoinArgv(argv))
}
