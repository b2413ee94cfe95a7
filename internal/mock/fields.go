package mock

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────
// Field-semantics inference
// ─────────────────────────────────────────────────────────────

// fieldRule maps a field whose lower-cased name contains any of keys to a
// value generator. Rules are tried in order; the first hit wins.
type fieldRule struct {
	keys []string
	gen  func(s *Synthesizer) any
}

var fieldRules = []fieldRule{
	{[]string{"name"}, func(s *Synthesizer) any { return s.personName() }},
	{[]string{"age"}, func(s *Synthesizer) any { return s.between(18, 65) }},
	{[]string{"phone", "tel"}, func(s *Synthesizer) any { return s.phone() }},
	{[]string{"email"}, func(s *Synthesizer) any { return s.email() }},
	{[]string{"address"}, func(s *Synthesizer) any { return s.address() }},
	{[]string{"date", "time"}, func(s *Synthesizer) any { return s.date() }},
	{[]string{"ip"}, func(s *Synthesizer) any { return s.ip() }},
	{[]string{"status"}, func(s *Synthesizer) any { return s.pick(statusWords) }},
	{[]string{"id"}, func(s *Synthesizer) any { return strconv.Itoa(s.between(100000, 999999)) }},
	{[]string{"price", "amount"}, func(s *Synthesizer) any { return s.price() }},
	{[]string{"count", "num"}, func(s *Synthesizer) any { return s.rnd.IntN(1000) }},
	{[]string{"rate", "ratio", "percent"}, func(s *Synthesizer) any {
		return fmt.Sprintf("%.1f%%", s.rnd.Float64()*100)
	}},
	{[]string{"desc", "remark"}, func(s *Synthesizer) any { return s.pick(remarks) }},
}

// Field returns a plausible value for a field, inferred from its name.
// Unrecognized names get the placeholder "<field>_value".
func (s *Synthesizer) Field(field string) any {
	lower := strings.ToLower(field)
	for _, r := range fieldRules {
		for _, k := range r.keys {
			if strings.Contains(lower, k) {
				return r.gen(s)
			}
		}
	}
	return field + "_value"
}

var (
	surnames     = []string{"张", "王", "李", "赵", "刘", "陈", "杨", "黄", "周", "吴"}
	givenNames   = []string{"伟", "芳", "娜", "敏", "静", "磊", "洋", "勇", "艳", "杰", "婷", "涛"}
	cities       = []string{"北京市", "上海市", "广州市", "深圳市", "杭州市", "成都市", "武汉市", "南京市"}
	districts    = []string{"朝阳区", "海淀区", "浦东新区", "天河区", "南山区", "西湖区", "武侯区", "鼓楼区"}
	streets      = []string{"人民路", "中山路", "解放路", "建设路", "和平路", "长江路"}
	mailUsers    = []string{"zhang", "wang", "li", "zhao", "liu", "chen", "user", "admin"}
	mailDomains  = []string{"example.com", "test.com", "mail.com", "demo.cn"}
	statusWords  = []string{"活跃", "停用", "待审核", "已完成"}
	remarks      = []string{"这是一条测试数据", "模拟生成的描述信息", "暂无备注", "数据来自模拟接口", "请及时处理"}
	productNames = []string{"智能手表", "无线耳机", "机械键盘", "显示器", "移动电源"}
	mobilePrefix = []string{"13", "15", "17", "18", "19"}
)

func (s *Synthesizer) personName() string {
	return s.pick(surnames) + s.pick(givenNames)
}

func (s *Synthesizer) digits(n int) string {
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(byte('0' + s.rnd.IntN(10)))
	}
	return b.String()
}

func (s *Synthesizer) phone() string {
	return s.pick(mobilePrefix) + s.digits(9)
}

func (s *Synthesizer) email() string {
	return s.pick(mailUsers) + strconv.Itoa(s.rnd.IntN(1000)) + "@" + s.pick(mailDomains)
}

func (s *Synthesizer) address() string {
	return s.pick(cities) + s.pick(districts) + s.pick(streets) + strconv.Itoa(s.between(1, 999)) + "号"
}

func (s *Synthesizer) date() string {
	return s.now().AddDate(0, 0, -s.rnd.IntN(365)).Format(time.DateOnly)
}

func (s *Synthesizer) ip() string {
	return fmt.Sprintf("%d.%d.%d.%d", s.between(1, 254), s.rnd.IntN(256), s.rnd.IntN(256), s.between(1, 254))
}

func (s *Synthesizer) price() float64 {
	return math.Round((1+s.rnd.Float64()*9999)*100) / 100
}
