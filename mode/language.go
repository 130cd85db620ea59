package mode

import (
	"github.com/rubiojr/cindent/document"
	"github.com/rubiojr/cindent/indent"
	"github.com/rubiojr/cindent/outdent"
)

// Language is one engine the dispatcher can hand a row to. The primary
// C-like engine and the embedded chunk engine both implement it.
type Language interface {
	NextLineIndent(req indent.Request) string
	CheckOutdent(state, line, input string) bool
	AutoOutdent(state string, doc document.Document, row int) error
}

// Primary is the C-like language: the ordered rule engine plus a pluggable
// outdent strategy.
type Primary struct {
	Engine  *indent.Engine
	Outdent outdent.Strategy
}

// NewPrimary returns the primary language with brace outdenting.
func NewPrimary() *Primary {
	return &Primary{Engine: indent.New(), Outdent: outdent.BraceOutdent{}}
}

// NextLineIndent runs the C/C++ rule chain.
func (p *Primary) NextLineIndent(req indent.Request) string {
	return p.Engine.Compute(req)
}

// CheckOutdent asks the outdent strategy whether input on line needs
// AutoOutdent.
func (p *Primary) CheckOutdent(_, line, input string) bool {
	return p.Outdent.CheckOutdent(line, input)
}

// AutoOutdent realigns row with the outdent strategy.
func (p *Primary) AutoOutdent(_ string, doc document.Document, row int) error {
	return p.Outdent.AutoOutdent(doc, row)
}
