package browser

import (
	"errors"
	"fmt"
)

// Only marks a Target whose selector must match exactly one element
const Only = -1

// ErrNoMatch is returned when a Target's ordinal is beyond the matches on the page
var ErrNoMatch = errors.New("no element at requested position")

// Target names one element on a page. Selectors use the driver's selector
// syntax ("text=...", CSS, "css >> text=..."). A positive Index picks that
// match (zero based) out of several, Only requires a unique match.
type Target struct {
	// Name describes the element for logs and errors
	Name string
	// Frame, when set, is the selector of the frame holding the element;
	// the first matching frame is used
	Frame    string
	Selector string
	Index    int
}

// Unique creates a Target that must match exactly one element
func Unique(name, selector string) Target {
	return Target{Name: name, Selector: selector, Index: Only}
}

// Nth creates a Target for the index-th match (zero based) of selector
func Nth(name, selector string, index int) Target {
	return Target{Name: name, Selector: selector, Index: index}
}

// InFrame returns a copy of t located inside the first frame matching frame
func InFrame(frame string, t Target) Target {
	t.Frame = frame
	return t
}

// Ordinal returns the position Index requires to be present, 1 for Only
func (t Target) Ordinal() int {
	if t.Index == Only {
		return 1
	}
	return t.Index + 1
}

func (t Target) String() string {
	s := fmt.Sprintf("%s (%s)", t.Name, t.Selector)
	if t.Index != Only {
		s = fmt.Sprintf("%s (%s #%d)", t.Name, t.Selector, t.Index+1)
	}
	if t.Frame != "" {
		s += " in " + t.Frame
	}
	return s
}
