package domain

// Component types known to the built-in catalog. The set is open: nodes with
// any other type are carried through the tree untouched.
const (
	TypeRow        = "row"
	TypeCol        = "col"
	TypeInput      = "input"
	TypeTextarea   = "textarea"
	TypeSelect     = "select"
	TypeDatePicker = "datePicker"
	TypeRadio      = "radio"
	TypeCheckbox   = "checkbox"
	TypeButton     = "button"
	TypeForm       = "form"
	TypeTable      = "table"
	TypeBarChart   = "barChart"
	TypeLineChart  = "lineChart"
)

// DataSourceType selects where a component's data comes from.
type DataSourceType string

const (
	DataSourceStatic DataSourceType = "static"
	DataSourceRemote DataSourceType = "api" // persisted as "api"
)

// DataSource configures static inline data or a (simulated) remote fetch.
type DataSource struct {
	Type            DataSourceType `json:"type"`
	Data            any            `json:"data"`
	URL             string         `json:"url"`
	Method          string         `json:"method"` // GET | POST | PUT | DELETE
	Params          map[string]any `json:"params"`
	RefreshInterval int            `json:"refreshInterval"` // seconds, 0 disables refresh
}

// Component is one node of the page tree. Parentage is not stored: the
// parent of a node can only be found by searching from the root.
type Component struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Props      map[string]any `json:"props"`
	Style      map[string]any `json:"style"`
	DataSource DataSource     `json:"dataSource"`
	Children   []*Component   `json:"children"`
}

// Prop returns a property value and whether it was set.
func (c *Component) Prop(name string) (any, bool) {
	if c == nil || c.Props == nil {
		return nil, false
	}
	v, ok := c.Props[name]
	return v, ok
}

// StringProp returns a string property, or "" if missing or not a string.
func (c *Component) StringProp(name string) string {
	v, _ := c.Prop(name)
	s, _ := v.(string)
	return s
}

// Walk visits c and all of its descendants in pre-order. Returning false from
// fn stops the walk.
func (c *Component) Walk(fn func(*Component) bool) bool {
	if c == nil {
		return true
	}
	if !fn(c) {
		return false
	}
	for _, child := range c.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}
