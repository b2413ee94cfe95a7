package domain

// PropType is the editor widget used for a property.
type PropType string

const (
	PropString     PropType = "string"
	PropNumber     PropType = "number"
	PropBoolean    PropType = "boolean"
	PropSelect     PropType = "select"
	PropColor      PropType = "color"
	PropDatePicker PropType = "datePicker"
)

// PropOption is one choice of an enumerated property.
type PropOption struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
}

// PropConfig describes one editable property of a component type.
type PropConfig struct {
	Name         string       `json:"name" yaml:"name"`
	Label        string       `json:"label" yaml:"label"`
	Type         PropType     `json:"type" yaml:"type"`
	DefaultValue any          `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Options      []PropOption `json:"options,omitempty" yaml:"options,omitempty"`
}

// ComponentDefinition is a palette entry: a component type with its default
// props and the properties the editor exposes.
type ComponentDefinition struct {
	Type         string         `json:"type" yaml:"type"`
	Name         string         `json:"name" yaml:"name"`
	Icon         string         `json:"icon,omitempty" yaml:"icon,omitempty"`
	DefaultProps map[string]any `json:"defaultProps" yaml:"defaultProps"`
	PropConfig   []PropConfig   `json:"propConfig" yaml:"propConfig"`
}
