package rules

import (
	"reflect"

	"github.com/getmockd/mockrules/pkg/rules/part"
)

// IsPaidHandler reports whether h was produced by a paid handler class.
func (c *Catalog) IsPaidHandler(h part.Handler) bool {
	if h == nil {
		return false
	}
	return c.paidTypes[reflect.TypeOf(h)]
}

// IsPaidHandlerClass reports whether cls is a paid handler class.
func (c *Catalog) IsPaidHandlerClass(cls *part.Class) bool {
	return c.paidSet[cls]
}

// PaidHandlers returns the paid handler classes.
func (c *Catalog) PaidHandlers() []*part.Class {
	out := make([]*part.Class, len(c.paid))
	copy(out, c.paid)
	return out
}
