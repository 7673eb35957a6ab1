package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/ldmcsv/internal/schema"
)

func press(t *testing.T, m ReviewModel, keys ...tea.KeyType) (ReviewModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(tea.KeyMsg{Type: k})
		m = next.(ReviewModel)
	}
	return m, cmd
}

func sampleColumns() []schema.Column {
	return []schema.Column{
		{Name: "order_id", LdmType: schema.Attribute, Title: "Order ID", Folder: "folder"},
		{Name: "amount", LdmType: schema.Fact, Title: "Amount", Folder: "folder"},
	}
}

func TestReviewModel_CycleType(t *testing.T) {
	m := NewReviewModel("orders", sampleColumns(), "order_id")

	m, _ = press(t, m, tea.KeyRight)
	assert.Equal(t, schema.Fact, m.Columns()[0].LdmType)
	assert.Empty(t, m.Columns()[0].Reference)

	m, _ = press(t, m, tea.KeyRight)
	assert.Equal(t, schema.Label, m.Columns()[0].LdmType)
	assert.Equal(t, "order_id", m.Columns()[0].Reference)

	m, _ = press(t, m, tea.KeyRight)
	assert.Equal(t, schema.ConnectionPoint, m.Columns()[0].LdmType)
	assert.Empty(t, m.Columns()[0].Reference)
}

func TestReviewModel_CycleWrapsBackwards(t *testing.T) {
	m := NewReviewModel("orders", sampleColumns(), "")

	m, _ = press(t, m, tea.KeyLeft)
	assert.Equal(t, schema.Ignore, m.Columns()[0].LdmType)
}

func TestReviewModel_Navigation(t *testing.T) {
	m := NewReviewModel("orders", sampleColumns(), "")

	m, _ = press(t, m, tea.KeyUp, tea.KeyDown, tea.KeyDown, tea.KeyRight)
	assert.Equal(t, schema.Attribute, m.Columns()[0].LdmType)
	assert.Equal(t, schema.Label, m.Columns()[1].LdmType)
}

func TestReviewModel_DoesNotTouchInput(t *testing.T) {
	cols := sampleColumns()
	m := NewReviewModel("orders", cols, "")

	press(t, m, tea.KeyRight)
	assert.Equal(t, schema.Attribute, cols[0].LdmType)
}

func TestReviewModel_ConfirmAndAbort(t *testing.T) {
	m, cmd := press(t, NewReviewModel("orders", sampleColumns(), ""), tea.KeyEnter)
	assert.True(t, m.Confirmed())
	assert.False(t, m.Aborted())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m, cmd = press(t, NewReviewModel("orders", sampleColumns(), ""), tea.KeyEsc)
	assert.True(t, m.Aborted())
	assert.False(t, m.Confirmed())
	require.NotNil(t, cmd)
}

func TestReviewModel_Apply(t *testing.T) {
	s := schema.New("orders")
	s.Columns = append(s.Columns, schema.Column{Name: "existing", LdmType: schema.Date, Title: "Existing"})
	s.Columns = append(s.Columns, sampleColumns()...)
	g := &schema.Generated{Schema: s, Known: 1}

	m := NewReviewModel(s.Name, g.Added(), "")
	m, _ = press(t, m, tea.KeyDown, tea.KeyLeft)
	m.Apply(g)

	assert.Equal(t, schema.Date, s.Columns[0].LdmType)
	assert.Equal(t, schema.Attribute, s.Columns[1].LdmType)
	assert.Equal(t, schema.Attribute, s.Columns[2].LdmType)
}

func TestReviewModel_View(t *testing.T) {
	view := NewReviewModel("orders", sampleColumns(), "").View()

	assert.Contains(t, view, "orders")
	assert.Contains(t, view, "Order ID")
	assert.Contains(t, view, "FACT")
}

func TestRunReview_NothingAdded(t *testing.T) {
	g := &schema.Generated{Schema: schema.New("orders")}
	assert.NoError(t, RunReview("")(g))
}

func TestRenderColumns(t *testing.T) {
	out := RenderColumns(sampleColumns())

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "order_id")
	assert.Contains(t, out, "ATTRIBUTE")
	assert.Contains(t, out, "Amount")
}
