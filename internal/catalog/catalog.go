package catalog

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"pagebuilder/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Component catalog: palette entries and their default props
// ─────────────────────────────────────────────────────────────

// Group names the palette sections.
type Group string

const (
	GroupContainer Group = "container"
	GroupBasic     Group = "basic"
	GroupAdvanced  Group = "advanced"
)

func twoOptions() []any {
	return []any{
		map[string]any{"label": "选项1", "value": "1"},
		map[string]any{"label": "选项2", "value": "2"},
	}
}

func labelProp(def string) domain.PropConfig {
	return domain.PropConfig{Name: "label", Label: "字段标签", Type: domain.PropString, DefaultValue: def}
}

var containerComponents = []domain.ComponentDefinition{
	{
		Type: domain.TypeRow,
		Name: "栅格行容器",
		Icon: "layout",
		DefaultProps: map[string]any{
			"gutter":  16,
			"justify": "start",
			"align":   "top",
			"wrap":    true,
		},
		PropConfig: []domain.PropConfig{
			{Name: "gutter", Label: "列间距", Type: domain.PropNumber, DefaultValue: 16},
			{Name: "justify", Label: "水平排列方式", Type: domain.PropSelect, DefaultValue: "start", Options: []domain.PropOption{
				{Label: "左对齐", Value: "start"},
				{Label: "居中对齐", Value: "center"},
				{Label: "右对齐", Value: "end"},
				{Label: "两端对齐", Value: "space-between"},
				{Label: "分散对齐", Value: "space-around"},
			}},
			{Name: "align", Label: "垂直对齐方式", Type: domain.PropSelect, DefaultValue: "top", Options: []domain.PropOption{
				{Label: "顶部对齐", Value: "top"},
				{Label: "居中对齐", Value: "middle"},
				{Label: "底部对齐", Value: "bottom"},
			}},
			{Name: "wrap", Label: "自动换行", Type: domain.PropBoolean, DefaultValue: true},
		},
	},
	{
		Type:         domain.TypeCol,
		Name:         "栅格列容器",
		Icon:         "column-width",
		DefaultProps: map[string]any{"span": 12, "offset": 0},
		PropConfig: []domain.PropConfig{
			{Name: "span", Label: "列宽", Type: domain.PropNumber, DefaultValue: 12},
			{Name: "offset", Label: "列偏移", Type: domain.PropNumber, DefaultValue: 0},
			{Name: "flex", Label: "弹性布局", Type: domain.PropString, DefaultValue: ""},
		},
	},
}

var basicComponents = []domain.ComponentDefinition{
	{
		Type:         domain.TypeInput,
		Name:         "输入框",
		Icon:         "form",
		DefaultProps: map[string]any{"placeholder": "请输入内容", "allowClear": true, "label": "输入框"},
		PropConfig: []domain.PropConfig{
			labelProp("输入框"),
			{Name: "placeholder", Label: "占位提示", Type: domain.PropString, DefaultValue: "请输入内容"},
			{Name: "allowClear", Label: "允许清除", Type: domain.PropBoolean, DefaultValue: true},
		},
	},
	{
		Type: domain.TypeSelect,
		Name: "下拉选择框",
		Icon: "select",
		DefaultProps: map[string]any{
			"placeholder": "请选择",
			"options":     twoOptions(),
			"allowClear":  true,
			"label":       "下拉选择框",
		},
		PropConfig: []domain.PropConfig{
			labelProp("下拉选择框"),
			{Name: "placeholder", Label: "占位提示", Type: domain.PropString, DefaultValue: "请选择"},
			{Name: "allowClear", Label: "允许清除", Type: domain.PropBoolean, DefaultValue: true},
		},
	},
	{
		Type:         domain.TypeDatePicker,
		Name:         "日期选择器",
		Icon:         "calendar",
		DefaultProps: map[string]any{"placeholder": "请选择日期", "format": "YYYY-MM-DD", "label": "日期选择器"},
		PropConfig: []domain.PropConfig{
			labelProp("日期选择器"),
			{Name: "placeholder", Label: "占位提示", Type: domain.PropString, DefaultValue: "请选择日期"},
			{Name: "format", Label: "日期格式", Type: domain.PropString, DefaultValue: "YYYY-MM-DD"},
		},
	},
	{
		Type:         domain.TypeRadio,
		Name:         "单选框",
		Icon:         "radio",
		DefaultProps: map[string]any{"options": twoOptions(), "label": "单选框"},
		PropConfig: []domain.PropConfig{
			labelProp("单选框"),
			{Name: "options", Label: "选项列表", Type: domain.PropSelect, DefaultValue: twoOptions()},
		},
	},
	{
		Type:         domain.TypeCheckbox,
		Name:         "复选框",
		Icon:         "check-square",
		DefaultProps: map[string]any{"options": twoOptions(), "label": "复选框"},
		PropConfig: []domain.PropConfig{
			labelProp("复选框"),
			{Name: "options", Label: "选项列表", Type: domain.PropSelect, DefaultValue: twoOptions()},
		},
	},
	{
		Type:         domain.TypeButton,
		Name:         "按钮",
		Icon:         "button",
		DefaultProps: map[string]any{"text": "按钮", "type": "primary", "label": "按钮"},
		PropConfig: []domain.PropConfig{
			labelProp("按钮"),
			{Name: "text", Label: "按钮文本", Type: domain.PropString, DefaultValue: "按钮"},
			{Name: "type", Label: "按钮类型", Type: domain.PropSelect, DefaultValue: "primary", Options: []domain.PropOption{
				{Label: "主按钮", Value: "primary"},
				{Label: "次按钮", Value: "default"},
				{Label: "虚线按钮", Value: "dashed"},
				{Label: "文本按钮", Value: "text"},
				{Label: "链接按钮", Value: "link"},
			}},
		},
	},
}

func defaultColumns() []any {
	return []any{
		map[string]any{"title": "列1", "dataIndex": "col1", "key": "col1"},
		map[string]any{"title": "列2", "dataIndex": "col2", "key": "col2"},
	}
}

func chartDefinition(typ, name, icon, title string, series []any) domain.ComponentDefinition {
	xAxis := []any{"类别1", "类别2", "类别3", "类别4", "类别5"}
	return domain.ComponentDefinition{
		Type: typ,
		Name: name,
		Icon: icon,
		DefaultProps: map[string]any{
			"height":        400,
			"legendVisible": true,
			"title":         title,
			"xAxisData":     xAxis,
			"seriesData":    series,
		},
		PropConfig: []domain.PropConfig{
			{Name: "title", Label: "图表标题", Type: domain.PropString, DefaultValue: title},
			{Name: "height", Label: "图表高度", Type: domain.PropNumber, DefaultValue: 400},
			{Name: "legendVisible", Label: "显示图例", Type: domain.PropBoolean, DefaultValue: true},
			{Name: "xAxisData", Label: "X轴数据", Type: domain.PropSelect, DefaultValue: xAxis},
			{Name: "seriesData", Label: "系列数据", Type: domain.PropSelect, DefaultValue: series},
		},
	}
}

var advancedComponents = []domain.ComponentDefinition{
	{
		Type: domain.TypeForm,
		Name: "表单",
		Icon: "form",
		DefaultProps: map[string]any{
			"labelCol":   map[string]any{"span": 6},
			"wrapperCol": map[string]any{"span": 18},
			"layout":     "horizontal",
		},
		PropConfig: []domain.PropConfig{
			{Name: "labelCol", Label: "标签列宽", Type: domain.PropNumber, DefaultValue: 6},
			{Name: "wrapperCol", Label: "控件列宽", Type: domain.PropNumber, DefaultValue: 18},
			{Name: "layout", Label: "布局方式", Type: domain.PropSelect, DefaultValue: "horizontal", Options: []domain.PropOption{
				{Label: "水平布局", Value: "horizontal"},
				{Label: "垂直布局", Value: "vertical"},
				{Label: "内联布局", Value: "inline"},
			}},
		},
	},
	{
		Type: domain.TypeTable,
		Name: "表格",
		Icon: "table",
		DefaultProps: map[string]any{
			"columns":    defaultColumns(),
			"pagination": map[string]any{"pageSize": 10},
		},
		PropConfig: []domain.PropConfig{
			{Name: "columns", Label: "表格列", Type: domain.PropSelect, DefaultValue: defaultColumns()},
			{Name: "pagination", Label: "分页设置", Type: domain.PropSelect, DefaultValue: map[string]any{"pageSize": 10}},
		},
	},
	chartDefinition(domain.TypeBarChart, "柱状图", "bar-chart", "柱状图标题", []any{
		map[string]any{"name": "系列1", "data": []any{120, 200, 150, 80, 70}},
		map[string]any{"name": "系列2", "data": []any{60, 100, 80, 120, 140}},
	}),
	chartDefinition(domain.TypeLineChart, "折线图", "line-chart", "折线图标题", []any{
		map[string]any{"name": "系列1", "data": []any{120, 132, 101, 134, 90}, "smooth": true},
		map[string]any{"name": "系列2", "data": []any{220, 182, 191, 234, 290}, "smooth": false},
	}),
}

// Definitions returns every palette entry in display order: containers,
// basic fields, then advanced components.
func Definitions() []domain.ComponentDefinition {
	defs := make([]domain.ComponentDefinition, 0, len(containerComponents)+len(basicComponents)+len(advancedComponents))
	defs = append(defs, containerComponents...)
	defs = append(defs, basicComponents...)
	defs = append(defs, advancedComponents...)
	return defs
}

// Grouped returns the palette split into its sections. The slices are
// copies.
func Grouped() map[Group][]domain.ComponentDefinition {
	return map[Group][]domain.ComponentDefinition{
		GroupContainer: slices.Clone(containerComponents),
		GroupBasic:     slices.Clone(basicComponents),
		GroupAdvanced:  slices.Clone(advancedComponents),
	}
}

// Lookup returns the definition for a component type.
func Lookup(typ string) (domain.ComponentDefinition, bool) {
	for _, d := range Definitions() {
		if d.Type == typ {
			return d, true
		}
	}
	return domain.ComponentDefinition{}, false
}

// NewComponent creates a fresh node of the given type with a new id, a deep
// copy of the catalog's default props, and an empty static data source.
func NewComponent(typ string) (*domain.Component, error) {
	def, ok := Lookup(typ)
	if !ok {
		return nil, fmt.Errorf("unknown component type: %q", typ)
	}
	props, _ := cloneValue(def.DefaultProps).(map[string]any)
	return &domain.Component{
		ID:    uuid.New().String(),
		Type:  def.Type,
		Props: props,
		Style: map[string]any{},
		DataSource: domain.DataSource{
			Type:   domain.DataSourceStatic,
			Method: "GET",
			Params: map[string]any{},
		},
		Children: []*domain.Component{},
	}, nil
}

// cloneValue deep-copies the map/slice literals used for default props so
// new components never share state with the catalog.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}
