package settings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/cafe-core/internal/errs"
	"github.com/Tiliavir/cafe-core/internal/kvstore"
	"github.com/Tiliavir/cafe-core/internal/settings"
)

func posBuffer(t *testing.T) (*settings.Buffer[settings.POSConfig], *settings.Store[settings.POSConfig]) {
	t.Helper()
	r := settings.NewPOSRegistry(kvstore.NewMemStore(), opts(t)...)
	s, err := r.Store("s1")
	require.NoError(t, err)
	return settings.NewBuffer(s, admin), s
}

func TestBuffer_EditOnlyChangesPreview(t *testing.T) {
	b, s := posBuffer(t)

	require.NoError(t, b.Edit("layout", map[string]any{"columns": 6}))
	require.NoError(t, b.Edit("layout", map[string]any{"showImages": false}))

	assert.True(t, b.HasUnsavedChanges())
	assert.Equal(t, 6, b.Preview().Layout.Columns)
	assert.False(t, b.Preview().Layout.ShowImages)
	assert.Equal(t, "POS-01", b.Preview().Layout.TerminalID)
	assert.Equal(t, settings.DefaultPOS("s1"), b.Authoritative())
	assert.Equal(t, settings.DefaultPOS("s1"), s.Load(), "edits are not persisted")
	assert.Equal(t, map[string]map[string]any{
		"layout": {"columns": float64(6), "showImages": false},
	}, b.Pending())
}

func TestBuffer_SaveKeepsSiblingFields(t *testing.T) {
	b, s := posBuffer(t)
	var seen settings.Updates
	s.Subscribe(func(c settings.Change[settings.POSConfig]) { seen = c.Updates })

	require.NoError(t, b.Edit("display", map[string]any{"showPrices": false}))
	saved, err := b.Save()
	require.NoError(t, err, "admins may save POS config through a buffer")

	assert.False(t, saved.Display.ShowPrices)
	assert.Equal(t, "Thank you for visiting!", saved.Display.ReceiptFooter)
	assert.Equal(t, 1, saved.Version)
	assert.Equal(t, saved, s.Load())
	assert.Contains(t, seen, "display")
	assert.NotContains(t, seen, "layout")
	assert.False(t, b.HasUnsavedChanges())
	assert.Equal(t, saved, b.Authoritative())
	assert.NoError(t, b.Guard())
}

func TestBuffer_SaveWithoutChanges(t *testing.T) {
	b, s := posBuffer(t)
	got, err := b.Save()
	require.NoError(t, err)
	assert.Equal(t, 0, got.Version)
	assert.Equal(t, 0, s.Load().Version)
}

func TestBuffer_InvalidEditsRejected(t *testing.T) {
	b, _ := posBuffer(t)

	require.ErrorIs(t, b.Edit("layout", map[string]any{"colums": 3}), errs.ErrInvalidConfig)
	require.ErrorIs(t, b.Edit("layout", map[string]any{"columns": "three"}), errs.ErrInvalidConfig)
	require.ErrorIs(t, b.Edit("nope", map[string]any{"x": 1}), errs.ErrInvalidConfig)
	require.ErrorIs(t, b.Edit("version", map[string]any{"x": 1}), errs.ErrInvalidConfig)
	assert.False(t, b.HasUnsavedChanges())
}

func TestBuffer_FailedSaveKeepsPending(t *testing.T) {
	b, s := posBuffer(t)
	require.NoError(t, b.Edit("layout", map[string]any{"terminalId": "T1"}))

	_, err := b.Save()
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
	assert.True(t, b.HasUnsavedChanges())
	assert.Equal(t, "T1", b.Preview().Layout.TerminalID)
	assert.Equal(t, settings.DefaultPOS("s1"), s.Load())
}

func TestBuffer_StoreManagerCannotSave(t *testing.T) {
	r := settings.NewPOSRegistry(kvstore.NewMemStore(), opts(t)...)
	s, err := r.Store("s1")
	require.NoError(t, err)
	b := settings.NewBuffer(s, manager)

	require.NoError(t, b.Edit("colors", map[string]any{"accent": "#FFFFFF"}))
	_, err = b.Save()
	require.ErrorIs(t, err, errs.ErrForbidden)
	assert.True(t, b.HasUnsavedChanges())
}

func TestBuffer_DiscardAndGuard(t *testing.T) {
	b, _ := posBuffer(t)
	require.NoError(t, b.Edit("colors", map[string]any{"accent": "#FFFFFF"}))
	require.ErrorIs(t, b.Guard(), errs.ErrUnsavedChanges)

	b.Discard()
	assert.False(t, b.HasUnsavedChanges())
	assert.Equal(t, b.Authoritative(), b.Preview())
	assert.NoError(t, b.Guard())
}

func TestBuffer_ResetNeedsConfirmation(t *testing.T) {
	b, s := posBuffer(t)
	require.NoError(t, b.Edit("colors", map[string]any{"accent": "#FFFFFF"}))
	_, err := b.Save()
	require.NoError(t, err)

	require.NoError(t, b.Edit("layout", map[string]any{"columns": 2}))
	_, err = b.Reset(false)
	require.ErrorIs(t, err, errs.ErrUnsavedChanges)
	assert.True(t, b.HasUnsavedChanges())

	got, err := b.Reset(true)
	require.NoError(t, err)
	assert.Equal(t, "#2E7D32", got.Colors.Accent)
	assert.Equal(t, 2, got.Version)
	assert.False(t, b.HasUnsavedChanges())
	assert.Equal(t, got, s.Load())
}

func TestBuffer_GlobalSession(t *testing.T) {
	s := settings.NewGlobalStore(kvstore.NewMemStore(), opts(t)...)
	b := settings.NewBuffer(s, marketing)

	require.NoError(t, b.Edit("currency", map[string]any{"symbol": "$", "position": "before"}))
	require.NoError(t, b.Edit("currency", map[string]any{"code": "USD"}))
	got, err := b.Save()
	require.NoError(t, err)
	assert.Equal(t, "USD", got.Currency.Code)
	assert.Equal(t, 2, got.Currency.Decimals)
	assert.Equal(t, "Marta", got.UpdatedBy)
}
