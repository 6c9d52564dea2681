package annotation

import (
	"encoding/json"
	"testing"

	"nibra-chart/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(x, y float64) geometry.Point2D {
	return geometry.NewPoint2D(x, y)
}

func draw(t *testing.T, m *Model, kind Kind, from, to geometry.Point2D) Annotation {
	t.Helper()
	require.True(t, m.Begin(ToolFor(kind), from))
	m.Update(to)
	a, ok := m.Commit()
	require.True(t, ok)
	return a
}

func TestModel_IDsAreUnique(t *testing.T) {
	m := NewModel()
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		a := draw(t, m, KindTrendline, pt(0, 0), pt(1, 1))
		assert.False(t, seen[a.ID], "duplicate id %s", a.ID)
		seen[a.ID] = true
	}
	assert.Equal(t, 500, m.Len())
}

func TestModel_IDsSkipLoadedOnes(t *testing.T) {
	m := NewModel()
	m.Load([]Annotation{
		{ID: "drawing-1", Kind: KindRay, Points: []geometry.Point2D{pt(0, 0), pt(1, 0)}},
		{ID: "drawing-2", Kind: KindRay, Points: []geometry.Point2D{pt(0, 0), pt(1, 0)}},
	})
	a := draw(t, m, KindRectangle, pt(0, 0), pt(5, 5))
	assert.Equal(t, "drawing-3", a.ID)
}

func TestModel_BeginWithCursorIsRejected(t *testing.T) {
	m := NewModel()
	assert.False(t, m.Begin(ToolCursor, pt(1, 1)))
	assert.False(t, m.Drawing())
}

func TestModel_DraftExclusivity(t *testing.T) {
	m := NewModel()
	require.True(t, m.Begin(ToolFor(KindRectangle), pt(10, 10)))
	m.Update(pt(20, 20))

	assert.False(t, m.Begin(ToolFor(KindRay), pt(50, 50)))

	d, ok := m.Draft()
	require.True(t, ok)
	assert.Equal(t, KindRectangle, d.Kind)
	assert.Equal(t, []geometry.Point2D{pt(10, 10), pt(20, 20)}, d.Points)
}

func TestModel_DraftIsNotCommitted(t *testing.T) {
	m := NewModel()
	require.True(t, m.Begin(ToolFor(KindCircle), pt(3, 4)))
	assert.Equal(t, 0, m.Len())

	d, _ := m.Draft()
	assert.Equal(t, []geometry.Point2D{pt(3, 4), pt(3, 4)}, d.Points)
	assert.Equal(t, "#2962ff", d.Color)
	assert.Empty(t, d.ID)
}

func TestModel_ZeroLengthDraftIsCommitted(t *testing.T) {
	m := NewModel()
	require.True(t, m.Begin(ToolFor(KindTrendline), pt(7, 7)))
	a, ok := m.Commit()
	require.True(t, ok)
	assert.Equal(t, a.Points[0], a.Points[1])
	assert.Equal(t, 1, m.Len())
}

func TestModel_NoDraftOperationsAreNoops(t *testing.T) {
	m := NewModel()
	assert.False(t, m.Update(pt(1, 1)))
	_, ok := m.Commit()
	assert.False(t, ok)
	assert.False(t, m.Discard())
	assert.Equal(t, 0, m.Len())
}

func TestModel_SelectionConsistency(t *testing.T) {
	m := NewModel()
	a := draw(t, m, KindRectangle, pt(0, 0), pt(10, 10))
	b := draw(t, m, KindRectangle, pt(5, 5), pt(15, 15))

	assert.False(t, m.Select("missing"))
	assert.Empty(t, m.SelectedID())

	require.True(t, m.Select(a.ID))
	require.True(t, m.Select(b.ID))
	assert.Equal(t, b.ID, m.SelectedID())

	assert.False(t, m.Remove("missing"))
	assert.Equal(t, b.ID, m.SelectedID())

	require.True(t, m.Remove(b.ID))
	assert.Empty(t, m.SelectedID())
	_, ok := m.Selected()
	assert.False(t, ok)

	require.True(t, m.Select(a.ID))
	require.True(t, m.Remove(a.ID))
	assert.Empty(t, m.SelectedID())
	assert.Equal(t, 0, m.Len())
}

func TestModel_ClearAll(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, m *Model)
	}{
		{
			name:  "empty",
			setup: func(t *testing.T, m *Model) {},
		},
		{
			name: "selection and draft",
			setup: func(t *testing.T, m *Model) {
				a := draw(t, m, KindRectangle, pt(0, 0), pt(10, 10))
				require.True(t, m.Select(a.ID))
				require.True(t, m.Begin(ToolFor(KindRay), pt(1, 1)))
			},
		},
		{
			name: "many committed",
			setup: func(t *testing.T, m *Model) {
				for _, k := range Kinds() {
					draw(t, m, k, pt(0, 0), pt(20, 30))
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel()
			tt.setup(t, m)
			m.ClearAll()

			assert.Equal(t, 0, m.Len())
			assert.Empty(t, m.SelectedID())
			assert.False(t, m.Drawing())
		})
	}
}

func TestModel_LockedRejectsPointMutation(t *testing.T) {
	m := NewModel()
	a := draw(t, m, KindTrendline, pt(0, 0), pt(10, 0))

	require.True(t, m.ToggleLock(a.ID))
	assert.False(t, m.MovePoint(a.ID, 1, pt(99, 99)))
	got, _ := m.Get(a.ID)
	assert.Equal(t, pt(10, 0), got.Points[1])

	assert.True(t, m.SetColor(a.ID, "#f23645"), "style stays editable while locked")

	require.True(t, m.SetLocked(a.ID, false))
	assert.True(t, m.MovePoint(a.ID, 1, pt(99, 99)))
	assert.False(t, m.MovePoint(a.ID, 5, pt(1, 1)))
}

func TestModel_AnnotationsAreCopies(t *testing.T) {
	m := NewModel()
	a := draw(t, m, KindRectangle, pt(0, 0), pt(10, 10))

	list := m.Annotations()
	list[0].Points[0] = pt(500, 500)

	got, _ := m.Get(a.ID)
	assert.Equal(t, pt(0, 0), got.Points[0])
}

func TestModel_Load(t *testing.T) {
	m := NewModel()
	draw(t, m, KindRay, pt(0, 0), pt(1, 1))
	require.True(t, m.Begin(ToolFor(KindRay), pt(0, 0)))

	m.Load([]Annotation{
		{ID: "a", Kind: KindRectangle, Points: []geometry.Point2D{pt(0, 0), pt(1, 1)}},
		{ID: "a", Kind: KindCircle, Points: []geometry.Point2D{pt(0, 0), pt(2, 2)}},
		{ID: "short", Kind: KindTrendline, Points: []geometry.Point2D{pt(0, 0)}},
		{ID: "", Kind: KindText, Points: []geometry.Point2D{pt(0, 0), pt(0, 0)}, Label: "hi"},
	})

	list := m.Annotations()
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].ID)
	assert.NotEqual(t, "a", list[1].ID)
	assert.NotEmpty(t, list[2].ID)
	assert.Equal(t, "hi", list[2].Label)
	assert.False(t, m.Drawing())
}

func TestModel_OnChange(t *testing.T) {
	m := NewModel()
	var got []ChangeType
	m.OnChange(func(c Change) { got = append(got, c.Type) })

	a := draw(t, m, KindRectangle, pt(0, 0), pt(10, 10))
	m.Select(a.ID)
	m.Remove(a.ID)
	m.ClearAll()

	assert.Equal(t, []ChangeType{
		ChangeDraft, ChangeDraft, ChangeCommitted, ChangeSelection, ChangeRemoved, ChangeCleared,
	}, got)
}

func TestAnnotation_JSON(t *testing.T) {
	in := Annotation{
		ID:     "drawing-1",
		Kind:   KindLongPosition,
		Points: []geometry.Point2D{pt(0, 100), pt(50, 150)},
		Color:  "#2962ff",
		Stroke: StrokeDashed,
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"drawing-1","kind":"longPosition","points":[{"x":0,"y":100},{"x":50,"y":150}],"color":"#2962ff","stroke":"dashed","locked":false}`, string(data))

	var out Annotation
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestParseTool(t *testing.T) {
	tests := []struct {
		in      string
		want    Tool
		wantErr assert.ErrorAssertionFunc
	}{
		{"cursor", ToolCursor, assert.NoError},
		{"rectangle", ToolFor(KindRectangle), assert.NoError},
		{"rect", ToolFor(KindRectangle), assert.NoError},
		{"long_pos", ToolFor(KindLongPosition), assert.NoError},
		{"priceRange", ToolFor(KindPriceRange), assert.NoError},
		{"lasso", ToolCursor, assert.Error},
	}
	for _, tt := range tests {
		got, err := ParseTool(tt.in)
		if !tt.wantErr(t, err, tt.in) {
			continue
		}
		assert.Equalf(t, tt.want, got, "ParseTool(%q)", tt.in)
	}
	assert.True(t, ToolCursor.IsCursor())
	assert.False(t, ToolFor(KindTrendline).IsCursor())
}
