package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/joeblew999/plat-style/internal/db"
	"github.com/joeblew999/plat-style/internal/style"
)

const baseStyle = `{
  "version": 8,
  "layers": [
    {"id": "background", "type": "background", "paint": {"background-color": "#ffffff"}},
    {"id": "water", "type": "fill", "source-layer": "water"},
    {"id": "road_major", "type": "line"},
    {"id": "place_label", "type": "symbol", "paint": {"text-color": "#000000", "text-halo-color": "#ffffff"}}
  ]
}`

type stubGenerator struct {
	raw   style.Raw
	err   error
	calls int
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string, overrides style.Overrides) (style.Raw, error) {
	g.calls++
	return g.raw, g.err
}

func newSession(t *testing.T, bus *EventBus) *Session {
	t.Helper()
	base, err := style.ParseDocument([]byte(baseStyle))
	require.NoError(t, err)
	return NewSession(base, style.NewOrchestrator(nil, nil), bus)
}

func paint(t *testing.T, d *style.Document, id, name string) any {
	t.Helper()
	v, _ := d.PaintProperty(id, name)
	return v
}

func TestGenerateEndToEnd(t *testing.T) {
	gen := &stubGenerator{raw: style.Text(`{"water":"#111111","land":"#222222"}`)}
	svc := NewStyleService(gen, nil, nil, nil)

	st, err := svc.Generate(context.Background(), "sunset desert", style.Overrides{style.Labels: "#000000"})
	require.NoError(t, err)
	assert.Equal(t, style.Style{
		Name: "AI style", Water: "#111111", Land: "#222222",
		Roads: "#ff85c1", Buildings: "#f0e5ff", Labels: "#000000",
	}, st)
}

func TestGenerateUnparseableFallsBack(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	gen := &stubGenerator{raw: style.Text("I think blue would be nice")}
	svc := NewStyleService(gen, nil, nil, zap.New(core))

	st, err := svc.Generate(context.Background(), "blue", nil)
	require.NoError(t, err)
	assert.Equal(t, style.Resolve(style.Partial{}, nil), st)
	assert.Equal(t, 1, logs.FilterMessage("model response not parseable, using defaults").Len())
}

func TestGenerateUpstreamFailure(t *testing.T) {
	svc := NewStyleService(&stubGenerator{err: errors.New("connection refused")}, nil, nil, nil)
	_, err := svc.Generate(context.Background(), "x", nil)
	assert.Error(t, err)

	svc = NewStyleService(&stubGenerator{err: ErrMissingCredential}, nil, nil, nil)
	_, err = svc.Generate(context.Background(), "x", nil)
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestGeneratePublishesEvent(t *testing.T) {
	bus := NewEventBus()
	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)

	svc := NewStyleService(&stubGenerator{raw: style.Structured(map[string]any{"name": "Ice"})}, nil, bus, nil)
	_, err := svc.Generate(context.Background(), "ice", nil)
	require.NoError(t, err)

	ev := <-ch
	assert.Equal(t, Event{Resource: "styles", Action: ActionGenerated, ID: "Ice"}, ev)
}

func TestNormalizeRawValue(t *testing.T) {
	svc := NewStyleService(&stubGenerator{}, nil, nil, nil)
	st := svc.Normalize(map[string]any{"roads": "#123456", "water": "bad"}, style.Overrides{style.Land: "#654321"})
	assert.Equal(t, style.Color("#123456"), st.Roads)
	assert.Equal(t, style.Color("#654321"), st.Land)
	assert.Equal(t, style.Defaults[style.Water], st.Water)
}

func TestSessionApplyAndReset(t *testing.T) {
	s := newSession(t, nil)
	st := style.Resolve(style.Partial{Name: "Night"}, style.Overrides{style.Water: "#000080"})

	report := s.Apply(st, style.ApplyOptions{})
	assert.Equal(t, "Night", report.Name)

	doc := s.Document()
	assert.Equal(t, "#000080", paint(t, doc, "water", style.FillColor))
	assert.Equal(t, style.HaloColor, paint(t, doc, "place_label", style.TextHaloColor))

	s.Reset()
	doc = s.Document()
	assert.Nil(t, paint(t, doc, "water", style.FillColor))
	assert.Equal(t, "#ffffff", paint(t, doc, "background", style.BackgroundColor))
}

func TestSessionLatestRequestWins(t *testing.T) {
	s := newSession(t, nil)

	first := s.Begin()
	second := s.Begin()

	_, err := s.Commit(first, style.Style{Name: "old", Water: "#111111"}, style.ApplyOptions{})
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.Nil(t, paint(t, s.Document(), "water", style.FillColor))

	_, err = s.Commit(second, style.Style{Name: "new", Water: "#222222"}, style.ApplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, "#222222", paint(t, s.Document(), "water", style.FillColor))

	third := s.Begin()
	s.Apply(style.Style{Name: "manual", Water: "#333333"}, style.ApplyOptions{})
	_, err = s.Commit(third, style.Style{Name: "late", Water: "#444444"}, style.ApplyOptions{})
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.Equal(t, "#333333", paint(t, s.Document(), "water", style.FillColor))
}

func TestSessionLayerRoles(t *testing.T) {
	roles := newSession(t, nil).LayerRoles()
	require.Len(t, roles, 4)
	assert.Equal(t, "background", roles[0].ID)
	assert.Equal(t, []style.Role{style.Land}, roles[0].Roles)
	assert.Equal(t, []style.Role{style.Labels}, roles[3].Roles)
}

func testTheme(name string) Theme {
	return ThemeFromStyle(style.Resolve(style.Partial{Name: name}, nil))
}

func TestThemeCRUD(t *testing.T) {
	dir := t.TempDir()
	svc := NewThemeService(dir, nil)

	created, err := svc.Create(testTheme("Sunset Desert!"))
	require.NoError(t, err)
	assert.Equal(t, "sunset_desert", created.ID)

	_, err = svc.Create(testTheme("Sunset Desert"))
	assert.Error(t, err)

	updated := testTheme("Sunset Desert")
	updated.Water = "#0000ff"
	got, err := svc.Update(created.ID, updated)
	require.NoError(t, err)
	assert.Equal(t, style.Color("#0000ff"), got.Water)

	reloaded := NewThemeService(dir, nil)
	theme, ok := reloaded.Get("sunset_desert")
	require.True(t, ok)
	assert.Equal(t, style.Color("#0000ff"), theme.Water)
	assert.Len(t, reloaded.List(), 1)

	require.NoError(t, reloaded.Delete("sunset_desert"))
	assert.ErrorIs(t, reloaded.Delete("sunset_desert"), ErrNotFound)
	_, err = reloaded.Update("sunset_desert", updated)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestThemeInMemoryWithoutDataDir(t *testing.T) {
	svc := NewThemeService("", nil)

	created, err := svc.Create(testTheme("Dusk"))
	require.NoError(t, err)
	updated := testTheme("Dusk")
	updated.Labels = "#101010"
	_, err = svc.Update(created.ID, updated)
	require.NoError(t, err)

	theme, ok := svc.Get("dusk")
	require.True(t, ok)
	assert.Equal(t, style.Color("#101010"), theme.Labels)
	require.NoError(t, svc.Delete("dusk"))
	assert.Empty(t, svc.List())
}

func TestThemeValidation(t *testing.T) {
	svc := NewThemeService(t.TempDir(), nil)

	bad := testTheme("Broken")
	bad.Roads = "pink"
	_, err := svc.Create(bad)
	assert.Error(t, err)

	_, err = svc.Create(testTheme("   "))
	assert.Error(t, err)
}

func TestLoadThemeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "night.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`name: Night
water: "#000033"
land: "#111111"
roads: "#333366"
buildings: "#222222"
labels: "#eeeeee"
`), 0644))

	theme, err := LoadThemeFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Night", theme.Name)
	assert.Equal(t, style.Color("#000033"), theme.Style().Water)

	require.NoError(t, os.WriteFile(path, []byte("name: Half\nwater: \"#000033\"\n"), 0644))
	_, err = LoadThemeFile(path)
	assert.Error(t, err)
}

func TestHistoryRecordAndList(t *testing.T) {
	conn, err := db.Open(db.Config{})
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	history, err := NewHistoryService(ctx, conn)
	require.NoError(t, err)

	gen := &stubGenerator{raw: style.Text(`{"name":"Dune","water":"#111111"}`)}
	svc := NewStyleService(gen, history, nil, nil)
	for _, prompt := range []string{"dune", "dusk", "dawn"} {
		_, err := svc.Generate(ctx, prompt, style.Overrides{style.Labels: "#000000"})
		require.NoError(t, err)
	}

	entries, total, err := history.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, entries, 2)
	assert.Equal(t, "dawn", entries[0].Prompt)
	assert.Equal(t, "Dune", entries[0].Style.Name)
	assert.Equal(t, style.Color("#111111"), entries[0].Style.Water)
	assert.Equal(t, style.Overrides{style.Labels: "#000000"}, entries[0].Overrides)

	entries, _, err = history.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "dune", entries[0].Prompt)
}
