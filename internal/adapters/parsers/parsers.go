package parsers

import "fmt"

// Diagnostic reports one malformed input line. Parsing continues past
// failures; callers decide whether diagnostics are fatal.
type Diagnostic struct {
	File    string
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: %s", d.File, d.Line, d.Message)
}
