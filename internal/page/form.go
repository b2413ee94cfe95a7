package page

import (
	"math"

	"pagebuilder/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Form resolution and data collection
// ─────────────────────────────────────────────────────────────

// FormResolution tells apart the outcomes of looking up an enclosing form.
type FormResolution int

const (
	// FormTargetMissing means no node with the target id exists.
	FormTargetMissing FormResolution = iota
	// FormNoEnclosing means the target exists but has no form ancestor.
	FormNoEnclosing
	// FormFound means an enclosing form was found.
	FormFound
)

func (r FormResolution) String() string {
	switch r {
	case FormFound:
		return "found"
	case FormNoEnclosing:
		return "no_enclosing_form"
	default:
		return "target_missing"
	}
}

// FindEnclosingForm returns the nearest ancestor of type form of the first
// node (in pre-order) whose id is targetID. A node is never its own
// ancestor. It returns nil both when the target has no form ancestor and
// when the target does not exist; use ResolveForm to distinguish them.
func FindEnclosingForm(forest []*domain.Component, targetID string) *domain.Component {
	form, _ := ResolveForm(forest, targetID)
	return form
}

// ResolveForm is FindEnclosingForm with the outcome spelled out.
func ResolveForm(forest []*domain.Component, targetID string) (*domain.Component, FormResolution) {
	var path []*domain.Component
	var visit func(c *domain.Component) (*domain.Component, FormResolution, bool)
	visit = func(c *domain.Component) (*domain.Component, FormResolution, bool) {
		if c.ID == targetID {
			for i := len(path) - 1; i >= 0; i-- {
				if path[i].Type == domain.TypeForm {
					return path[i], FormFound, true
				}
			}
			return nil, FormNoEnclosing, true
		}
		path = append(path, c)
		for _, child := range c.Children {
			if child == nil {
				continue
			}
			if form, res, done := visit(child); done {
				return form, res, true
			}
		}
		path = path[:len(path)-1]
		return nil, FormTargetMissing, false
	}

	for _, root := range forest {
		if root == nil {
			continue
		}
		if form, res, done := visit(root); done {
			return form, res
		}
	}
	return nil, FormTargetMissing
}

// CollectFormData builds the submission payload of a form. A static form
// carrying an object or array payload returns that payload as is.
// Otherwise the result is a map[string]any where every descendant with a
// fieldName prop contributes its value, its default value, or a per-type
// empty value; later duplicates win.
func CollectFormData(form *domain.Component) any {
	if form == nil {
		return map[string]any{}
	}
	if form.DataSource.Type == domain.DataSourceStatic {
		switch data := form.DataSource.Data.(type) {
		case map[string]any:
			if data != nil {
				return data
			}
		case []any:
			if data != nil {
				return data
			}
		}
	}

	out := map[string]any{}
	for _, child := range form.Children {
		child.Walk(func(c *domain.Component) bool {
			field := c.StringProp("fieldName")
			if field == "" {
				return true
			}
			out[field] = fieldValue(c)
			return true
		})
	}
	return out
}

func fieldValue(c *domain.Component) any {
	if v, ok := c.Prop("value"); ok && Truthy(v) {
		return v
	}
	if v, ok := c.Prop("defaultValue"); ok && Truthy(v) {
		return v
	}
	return EmptyValue(c.Type)
}

// EmptyValue is the value a field of the given type submits when nothing is
// set: "" for text-like inputs, an empty list for checkboxes, nil otherwise.
func EmptyValue(typ string) any {
	switch typ {
	case domain.TypeInput, domain.TypeTextarea, domain.TypeDatePicker, domain.TypeSelect, domain.TypeRadio:
		return ""
	case domain.TypeCheckbox:
		return []any{}
	default:
		return nil
	}
}

// Truthy reports whether v counts as set. nil, false, zero numbers, NaN and
// the empty string are not; empty lists and objects are.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case float32:
		return t != 0 && !math.IsNaN(float64(t))
	case int:
		return t != 0
	case int8:
		return t != 0
	case int16:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	case uint:
		return t != 0
	case uint8:
		return t != 0
	case uint16:
		return t != 0
	case uint32:
		return t != 0
	case uint64:
		return t != 0
	default:
		return true
	}
}
