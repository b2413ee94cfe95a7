package page_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/page"
)

func node(id, typ string, children ...*domain.Component) *domain.Component {
	return &domain.Component{ID: id, Type: typ, Props: map[string]any{}, Children: children}
}

func ids(cs []*domain.Component) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func TestSession_AddAppendsInOrder(t *testing.T) {
	s := page.NewSession()
	s.Add(node("a", domain.TypeInput))
	s.Add(node("b", domain.TypeButton))
	s.Add(node("c", domain.TypeTable))

	assert.Equal(t, []string{"a", "b", "c"}, ids(s.Components()))
}

func TestSession_AddDoesNotDeduplicate(t *testing.T) {
	s := page.NewSession()
	s.Add(node("a", domain.TypeInput))
	s.Add(node("a", domain.TypeInput))
	assert.Len(t, s.Components(), 2)
}

func TestSession_UpdateReplacesRootNode(t *testing.T) {
	s := page.NewSession()
	s.Add(node("a", domain.TypeInput))
	s.Add(node("b", domain.TypeInput))

	replacement := node("b", domain.TypeSelect)
	replacement.Props["label"] = "changed"
	require.True(t, s.Update(replacement))

	got := s.Components()
	assert.Equal(t, []string{"a", "b"}, ids(got))
	assert.Same(t, replacement, got[1])
}

func TestSession_UpdateUnknownIsNoop(t *testing.T) {
	s := page.NewSession()
	s.Add(node("a", domain.TypeInput))
	before := s.Components()

	assert.False(t, s.Update(node("zzz", domain.TypeInput)))
	assert.Equal(t, before, s.Components())
}

func TestSession_UpdateDoesNotReachNestedNodes(t *testing.T) {
	inner := node("inner", domain.TypeInput)
	s := page.NewSession()
	s.Add(node("form", domain.TypeForm, inner))

	assert.False(t, s.Update(node("inner", domain.TypeSelect)))
	assert.Equal(t, domain.TypeInput, s.Find("inner").Type)
}

func TestSession_RemoveClearsSelection(t *testing.T) {
	s := page.NewSession()
	s.Add(node("a", domain.TypeInput))
	s.Add(node("b", domain.TypeInput))
	s.SetSelected("b")

	require.True(t, s.Remove("b"))
	assert.Equal(t, []string{"a"}, ids(s.Components()))
	assert.Empty(t, s.Selected())
}

func TestSession_RemoveOtherKeepsSelection(t *testing.T) {
	s := page.NewSession()
	s.Add(node("a", domain.TypeInput))
	s.Add(node("b", domain.TypeInput))
	s.SetSelected("b")

	s.Remove("a")
	assert.Equal(t, "b", s.Selected())
}

func TestSession_RemoveNestedIsNoopButClearsSelection(t *testing.T) {
	s := page.NewSession()
	s.Add(node("form", domain.TypeForm, node("inner", domain.TypeInput)))
	s.SetSelected("inner")

	assert.False(t, s.Remove("inner"))
	assert.NotNil(t, s.Find("inner"))
	assert.Empty(t, s.Selected())
}

func TestSession_RemoveUnknownIsNoop(t *testing.T) {
	s := page.NewSession()
	s.Add(node("a", domain.TypeInput))
	assert.False(t, s.Remove("nope"))
	assert.Len(t, s.Components(), 1)
}

func TestSession_RemoveOnlyFirstDuplicate(t *testing.T) {
	s := page.NewSession()
	first := node("a", domain.TypeInput)
	second := node("a", domain.TypeSelect)
	s.Add(first)
	s.Add(second)

	s.Remove("a")
	got := s.Components()
	require.Len(t, got, 1)
	assert.Same(t, second, got[0])
}

func TestSession_RemoveDoesNotAlterSnapshots(t *testing.T) {
	s := page.NewSession()
	s.Add(node("a", domain.TypeInput))
	s.Add(node("b", domain.TypeInput))
	snap := s.Components()

	s.Remove("a")
	assert.Equal(t, []string{"a", "b"}, ids(snap))
}

func TestSession_Clear(t *testing.T) {
	s := page.NewSession()
	s.Add(node("a", domain.TypeInput))
	s.SetSelected("a")

	s.Clear()
	assert.Empty(t, s.Components())
	assert.Empty(t, s.Selected())
}

func TestSession_SelectUnknownIDIsAllowed(t *testing.T) {
	s := page.NewSession()
	s.SetSelected("ghost")
	assert.Equal(t, "ghost", s.Selected())
}

func TestSession_ReplaceKeepsSelection(t *testing.T) {
	s := page.NewSession()
	s.SetSelected("x")
	s.Replace([]*domain.Component{node("x", domain.TypeInput)})
	assert.Equal(t, "x", s.Selected())
	assert.Equal(t, []string{"x"}, ids(s.Components()))

	s.Replace(nil)
	assert.NotNil(t, s.Components())
	assert.Empty(t, s.Components())
}

func TestSession_ReplaceDropsNilRoots(t *testing.T) {
	s := page.NewSession()
	s.Replace([]*domain.Component{nil, node("x", domain.TypeInput), nil})
	assert.Equal(t, []string{"x"}, ids(s.Components()))

	assert.True(t, s.Update(node("x", domain.TypeButton)))
	assert.True(t, s.Remove("x"))
	assert.Empty(t, s.Components())
}

func TestSession_ConcurrentMutations(t *testing.T) {
	s := page.NewSession()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Add(node("n", domain.TypeInput))
			_ = s.Components()
			s.SetSelected("n")
		}()
	}
	wg.Wait()
	assert.Len(t, s.Components(), 50)
}
