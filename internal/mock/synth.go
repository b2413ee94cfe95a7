package mock

import (
	"math/rand/v2"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"pagebuilder/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Synthesizer: plausible mock payloads per component kind
// ─────────────────────────────────────────────────────────────

// Row count bounds for synthesized tables.
const (
	TableRowsMin = 5
	TableRowsMax = 15
)

// Chart value bounds; every generated point falls in [ChartValueMin, ChartValueMax].
const (
	ChartValueMin = 50
	ChartValueMax = 249
)

// DefaultTableColumns is used when a table declares no columns.
var DefaultTableColumns = []string{"name", "age", "address", "email", "phone", "status"}

// DefaultFormFields is used when a form declares no fields.
var DefaultFormFields = []string{"name", "age", "email", "phone", "address", "status"}

// Hints carries the shape a component declares: table column keys or form
// field names.
type Hints struct {
	Columns []string `json:"columns,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

// HintsFromProps extracts Hints from component props: the dataIndex of every
// entry in "columns", and the "fields" list if present.
func HintsFromProps(props map[string]any) Hints {
	var h Hints
	if cols, ok := props["columns"].([]any); ok {
		for _, c := range cols {
			switch col := c.(type) {
			case map[string]any:
				if di, ok := col["dataIndex"].(string); ok && di != "" {
					h.Columns = append(h.Columns, di)
				}
			case string:
				h.Columns = append(h.Columns, col)
			}
		}
	}
	switch fields := props["fields"].(type) {
	case []any:
		for _, f := range fields {
			if s, ok := f.(string); ok && s != "" {
				h.Fields = append(h.Fields, s)
			}
		}
	case []string:
		h.Fields = append(h.Fields, fields...)
	}
	return h
}

// HintsFromComponent is HintsFromProps plus, for a form without a "fields"
// prop, the fieldName of every descendant in pre-order.
func HintsFromComponent(c *domain.Component) Hints {
	if c == nil {
		return Hints{}
	}
	h := HintsFromProps(c.Props)
	if c.Type != domain.TypeForm || len(h.Fields) > 0 {
		return h
	}
	seen := map[string]bool{}
	for _, child := range c.Children {
		child.Walk(func(n *domain.Component) bool {
			if name := n.StringProp("fieldName"); name != "" && !seen[name] {
				seen[name] = true
				h.Fields = append(h.Fields, name)
			}
			return true
		})
	}
	return h
}

// Series is one named data series of a chart.
type Series struct {
	Name   string `json:"name"`
	Data   []int  `json:"data"`
	Smooth bool   `json:"smooth"`
}

// ChartData is the payload for bar and line charts.
type ChartData struct {
	Categories []string `json:"categories"`
	Series     []Series `json:"series"`
}

// Rand is the randomness the synthesizer draws from.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type globalRand struct{}

func (globalRand) IntN(n int) int    { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// Options tunes a Synthesizer.
type Options struct {
	RowsMin int
	RowsMax int
	Rand    Rand
	Now     func() time.Time
}

// Synthesizer manufactures mock data. The structure of a payload depends
// only on the kind, url and hints; the values are random.
type Synthesizer struct {
	rowsMin int
	rowsMax int
	rnd     Rand
	now     func() time.Time
}

// NewSynthesizer returns a Synthesizer, filling unset options with defaults.
func NewSynthesizer(opts Options) *Synthesizer {
	s := &Synthesizer{rowsMin: opts.RowsMin, rowsMax: opts.RowsMax, rnd: opts.Rand, now: opts.Now}
	if s.rowsMin <= 0 {
		s.rowsMin = TableRowsMin
	}
	if s.rowsMax < s.rowsMin {
		s.rowsMax = max(TableRowsMax, s.rowsMin)
	}
	if s.rnd == nil {
		s.rnd = globalRand{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Synthesize returns a payload shaped for kind.
func (s *Synthesizer) Synthesize(kind, rawURL string, hints Hints) any {
	switch kind {
	case domain.TypeTable:
		return s.table(hints)
	case domain.TypeBarChart, domain.TypeLineChart:
		return s.chart(kind, rawURL)
	case domain.TypeForm:
		return s.form(rawURL, hints)
	default:
		return s.generic()
	}
}

func (s *Synthesizer) between(lo, hi int) int {
	return lo + s.rnd.IntN(hi-lo+1)
}

func (s *Synthesizer) pick(options []string) string {
	return options[s.rnd.IntN(len(options))]
}

func (s *Synthesizer) table(h Hints) []map[string]any {
	columns := h.Columns
	if len(columns) == 0 {
		columns = DefaultTableColumns
	}
	n := s.between(s.rowsMin, s.rowsMax)
	rows := make([]map[string]any, n)
	for i := range rows {
		row := make(map[string]any, len(columns)+1)
		row["key"] = i
		for _, col := range columns {
			row[col] = s.Field(col)
		}
		rows[i] = row
	}
	return rows
}

func (s *Synthesizer) form(rawURL string, h Hints) map[string]any {
	fields := h.Fields
	if len(fields) == 0 {
		fields = DefaultFormFields
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f] = s.Field(f)
	}
	lower := strings.ToLower(rawURL)
	for _, topic := range formTopics {
		if strings.Contains(lower, topic.keyword) {
			topic.extend(s, out)
		}
	}
	return out
}

func (s *Synthesizer) generic() map[string]any {
	items := make([]map[string]any, 3)
	for i := range items {
		items[i] = map[string]any{"id": i, "name": "项目" + strconv.Itoa(i)}
	}
	return map[string]any{
		"message":   "模拟API数据",
		"timestamp": s.now().Format(time.RFC3339),
		"data":      items,
	}
}

// ── Charts ───────────────────────────────────────────────────

type vocabulary struct {
	keyword string
	words   func(s *Synthesizer) []string
}

func fixed(words ...string) func(*Synthesizer) []string {
	return func(*Synthesizer) []string { return words }
}

var categoryVocabularies = []vocabulary{
	{"month", fixed("一月", "二月", "三月", "四月", "五月", "六月")},
	{"day", fixed("周一", "周二", "周三", "周四", "周五", "周六", "周日")},
	{"year", func(s *Synthesizer) []string {
		y := s.now().Year()
		out := make([]string, 5)
		for i := range out {
			out[i] = strconv.Itoa(y - 4 + i)
		}
		return out
	}},
	{"quarter", fixed("Q1", "Q2", "Q3", "Q4")},
	{"region", fixed("华东", "华南", "华北", "西南", "西北")},
	{"product", fixed("产品A", "产品B", "产品C", "产品D", "产品E")},
}

var seriesVocabularies = []vocabulary{
	{"sales", fixed("销售额", "利润", "成本", "订单量")},
	{"traffic", fixed("访问量", "独立访客", "页面浏览量", "跳出数")},
	{"performance", fixed("响应时间", "吞吐量", "错误率", "CPU使用率")},
}

var (
	genericCategories = []string{"类别1", "类别2", "类别3", "类别4", "类别5"}
	genericSeries     = []string{"系列1", "系列2", "系列3", "系列4"}
)

// endpoint returns the lower-cased final path segment of a request URL.
func endpoint(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	return strings.ToLower(path.Base(p))
}

func (s *Synthesizer) vocabularyFor(seg string, vocabs []vocabulary, fallback []string) []string {
	if seg != "" {
		for _, v := range vocabs {
			if strings.Contains(seg, v.keyword) {
				return v.words(s)
			}
		}
	}
	return fallback
}

func (s *Synthesizer) chart(kind, rawURL string) ChartData {
	seg := endpoint(rawURL)
	categories := s.vocabularyFor(seg, categoryVocabularies, genericCategories)
	names := s.vocabularyFor(seg, seriesVocabularies, genericSeries)

	count := s.between(2, 4)
	series := make([]Series, count)
	for i := range series {
		data := make([]int, len(categories))
		for j := range data {
			data[j] = s.between(ChartValueMin, ChartValueMax)
		}
		series[i] = Series{
			Name:   names[i%len(names)],
			Data:   data,
			Smooth: kind == domain.TypeLineChart,
		}
	}
	return ChartData{Categories: append([]string(nil), categories...), Series: series}
}

// ── Form topics ──────────────────────────────────────────────

type formTopic struct {
	keyword string
	extend  func(s *Synthesizer, out map[string]any)
}

var formTopics = []formTopic{
	{"user", func(s *Synthesizer, out map[string]any) {
		out["username"] = s.Field("username")
		out["role"] = s.pick([]string{"管理员", "编辑", "访客"})
		out["lastLogin"] = s.now().Add(-time.Duration(s.rnd.IntN(72*60)) * time.Minute).Format("2006-01-02 15:04:05")
	}},
	{"order", func(s *Synthesizer, out map[string]any) {
		out["orderId"] = "ORD" + s.digits(8)
		out["orderDate"] = s.Field("orderDate")
		out["amount"] = s.Field("amount")
		out["paymentStatus"] = s.pick([]string{"已支付", "待支付", "已退款"})
	}},
	{"product", func(s *Synthesizer, out map[string]any) {
		out["productId"] = "P" + s.digits(6)
		out["productName"] = s.pick(productNames)
		out["price"] = s.Field("price")
		out["stock"] = s.rnd.IntN(500)
	}},
}
