package resolve

import (
	"fmt"

	"github.com/matzehuels/floorstack/pkg/errors"
)

// Entity kinds named in diagnostics.
const (
	EntityArea   = "area"
	EntityLine   = "line"
	EntityObject = "object"
)

// Diagnostic reports a local failure attached to one survey record.
type Diagnostic struct {
	Code     errors.Code `json:"code"`
	Floor    string      `json:"floor"`
	Design   int         `json:"design"`
	Entity   string      `json:"entity"`
	EntityID string      `json:"entity_id"`
	Message  string      `json:"message"`
}

// String formats the diagnostic for logs.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s %q on floor %q: %s", d.Code, d.Entity, d.EntityID, d.Floor, d.Message)
}

// Err converts the diagnostic into a coded error.
func (d Diagnostic) Err() error {
	return errors.New(d.Code, "%s %q on floor %q: %s", d.Entity, d.EntityID, d.Floor, d.Message)
}

// diagnostics collects diagnostics for one design.
type diagnostics struct {
	floor  string
	design int
	list   []Diagnostic
}

func (c *diagnostics) add(code errors.Code, entity, id, format string, args ...any) {
	c.list = append(c.list, Diagnostic{
		Code:     code,
		Floor:    c.floor,
		Design:   c.design,
		Entity:   entity,
		EntityID: id,
		Message:  fmt.Sprintf(format, args...),
	})
}
