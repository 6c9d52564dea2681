package dialogs

import (
	"testing"

	"nibra-chart/internal/config"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartSettingsDialog_Apply(t *testing.T) {
	test.NewApp()
	d := NewChartSettingsDialog(config.DefaultChartSettings(), nil, nil)
	d.createContent()

	d.fields[0].entry.SetText("#000000")
	got, err := d.Apply()
	require.NoError(t, err)
	assert.Equal(t, "#000000", got.Background)
	assert.Equal(t, config.DefaultChartSettings().Grid, got.Grid)

	d.fields[1].entry.SetText("grid")
	_, err = d.Apply()
	assert.Error(t, err)
}
