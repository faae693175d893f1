package p4

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// specialSections are emitted last, unindented, after a blank line.
var specialSections = map[string]bool{
	"differences": true,
}

var formFileRe = regexp.MustCompile(`^(//.+?)\t# (\w+)$`)

// FormFile is one entry of a form's Files section.
type FormFile struct {
	DepotFile string `json:"depotFile" yaml:"depotFile"`
	Action    string `json:"action,omitempty" yaml:"action,omitempty"`
}

// Form is a p4 spec form (change, client, label, branch) as a mapping from
// lower-cased section name to its text. Multi-line sections keep their
// embedded newlines.
type Form struct {
	fields map[string]string
}

// NewForm returns an empty form.
func NewForm() *Form {
	return &Form{fields: make(map[string]string)}
}

// Get returns the value of section key.
func (f *Form) Get(key string) (string, bool) {
	v, ok := f.fields[strings.ToLower(key)]
	return v, ok
}

// Value returns the value of section key, or "" if absent.
func (f *Form) Value(key string) string {
	v, _ := f.Get(key)
	return v
}

// Set sets section key to value.
func (f *Form) Set(key, value string) {
	if f.fields == nil {
		f.fields = make(map[string]string)
	}
	f.fields[strings.ToLower(key)] = value
}

// Delete removes section key, so that it is not emitted by MakeForm.
func (f *Form) Delete(key string) {
	delete(f.fields, strings.ToLower(key))
}

// Len returns the number of sections.
func (f *Form) Len() int {
	return len(f.fields)
}

// Keys returns the section names in emission order: alphabetical, with
// special sections last.
func (f *Form) Keys() []string {
	keys := make([]string, 0, len(f.fields))
	for k := range f.fields {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		si, sj := specialSections[keys[i]], specialSections[keys[j]]
		if si != sj {
			return sj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Map returns a copy of the sections keyed by lower-cased name.
func (f *Form) Map() map[string]string {
	m := make(map[string]string, len(f.fields))
	for k, v := range f.fields {
		m[k] = v
	}
	return m
}

// Merge copies every section of other into f, replacing existing values.
func (f *Form) Merge(other *Form) {
	if other == nil {
		return
	}
	for k, v := range other.fields {
		f.Set(k, v)
	}
}

// Clone returns a copy of f.
func (f *Form) Clone() *Form {
	cp := NewForm()
	cp.Merge(f)
	return cp
}

// Change returns the numeric value of the Change section. It reports false
// when the section is absent or not a number (e.g. "new").
func (f *Form) Change() (int, bool) {
	v, ok := f.Get("change")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetChange sets the Change section; zero writes "new".
func (f *Form) SetChange(change int) {
	if change == 0 {
		f.Set("change", "new")
		return
	}
	f.Set("change", strconv.Itoa(change))
}

// Files decodes the Files section. It returns nil when the section is
// absent.
func (f *Form) Files() ([]FormFile, error) {
	v, ok := f.Get("files")
	if !ok {
		return nil, nil
	}
	return parseFormFiles(v)
}

// SetFiles replaces the Files section, one line per file with the action
// appended as a comment when present.
func (f *Form) SetFiles(files []FormFile) {
	var b strings.Builder
	for _, file := range files {
		b.WriteString(file.DepotFile)
		if file.Action != "" {
			b.WriteString("\t# ")
			b.WriteString(file.Action)
		}
		b.WriteString("\n")
	}
	f.Set("files", b.String())
}

func parseFormFiles(value string) ([]FormFile, error) {
	files := []FormFile{}
	for _, line := range strings.Split(value, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := formFileRe.FindStringSubmatch(line)
		if m == nil {
			return nil, unparseable("form", line)
		}
		files = append(files, FormFile{DepotFile: m[1], Action: m[2]})
	}
	return files, nil
}

// ParseForm parses a p4 form. Comment lines are dropped. A "Key:" line with
// nothing after it starts a multi-line section whose tab-indented lines
// are accumulated (blank lines become bare newlines) until the next
// section; trailing newlines are trimmed from the block. A "Key: value"
// line is a single-line section.
func ParseForm(text string) (*Form, error) {
	form := NewForm()
	var (
		block   strings.Builder
		current string // non-empty while accumulating a multi-line block
	)
	endBlock := func() {
		form.fields[current] = strings.TrimRight(block.String(), "\n")
		block.Reset()
		current = ""
	}

	for _, raw := range splitLines(text) {
		line := chomp(raw)
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if current != "" {
			switch {
			case strings.HasPrefix(line, "\t"):
				block.WriteString(line[1:])
				block.WriteString("\n")
				continue
			case strings.TrimSpace(line) == "":
				block.WriteString("\n")
				continue
			default:
				endBlock()
			}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, remainder, found := strings.Cut(line, ":")
		if !found {
			return nil, unparseable("form", line)
		}
		key = strings.ToLower(key)
		if strings.TrimSpace(remainder) == "" {
			current = key
			continue
		}
		form.fields[key] = strings.TrimSpace(remainder)
	}
	if current != "" {
		endBlock()
	}

	if v, ok := form.fields["files"]; ok {
		if _, err := parseFormFiles(v); err != nil {
			return nil, err
		}
	}
	return form, nil
}

// MakeForm serializes f in p4's form format. Single-line values are
// written inline as "Key:\tvalue". Multi-line values, values with
// surrounding whitespace, and always the description, get a header line followed by one tab-indented line per
// content line; special sections are written last and unindented. Every
// section is followed by a blank line.
func MakeForm(f *Form) string {
	var b strings.Builder
	for _, key := range f.Keys() {
		value := f.fields[key]
		name := capitalize(key)
		if strings.Contains(value, "\n") || key == "description" || value != strings.TrimSpace(value) {
			b.WriteString(name + ":\n")
			special := specialSections[key]
			if special {
				b.WriteString("\n")
			}
			for _, line := range strings.Split(value, "\n") {
				if !special {
					b.WriteString("\t")
				}
				b.WriteString(line + "\n")
			}
		} else {
			b.WriteString(name + ":\t" + value + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
