package bot

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"uoled/pkg/bitmap"
	"uoled/pkg/device/virtual"
	"uoled/pkg/mixer"
	"uoled/pkg/source"
)

func newTestBot(t *testing.T) (*Bot, *virtual.Mocker) {
	t.Helper()

	logger := zaptest.NewLogger(t)
	dev := virtual.Mock(logger)
	b, err := NewBot("", dev, mixer.NewDrawer(dev, logger), source.New(afero.NewMemMapFs(), logger), logger, WithOffline())
	require.NoError(t, err)
	return b, dev
}

func TestExec(t *testing.T) {
	b, dev := newTestBot(t)

	assert.Equal(t, "OK", b.Exec("/power on"))
	assert.Equal(t, "OK", b.Exec("/display off"))
	assert.Equal(t, "OK", b.Exec("/contrast 15"))
	assert.Equal(t, "OK", b.Exec("/contrast@uoled_bot 3"))
	assert.Equal(t, "type=0x00 hw=0x00 fw=0x00 128x128", b.Exec("/version"))

	assert.Equal(t, "OK", b.Exec("/bg #00FF00"))
	c, _ := dev.ReadPixel(context.Background(), 64, 64)
	assert.Equal(t, bitmap.Green, c)
	assert.Equal(t, "0x07E0", b.Exec("/pixel 64 64"))

	assert.Equal(t, "row 0", b.Exec("/text hello world"))
	assert.Equal(t, "row 1", b.Exec("/text again"))
	assert.Equal(t, "OK", b.Exec("/clear"))
	assert.Equal(t, "row 0", b.Exec("/text top"))
}

func TestExecErrors(t *testing.T) {
	b, _ := newTestBot(t)

	assert.Equal(t, "empty command", b.Exec("  "))
	assert.Contains(t, b.Exec("/reboot"), "unknown command /reboot, try /bg /clear")
	assert.Contains(t, b.Exec("/contrast 16"), "/contrast failed: /contrast 0-15")
	assert.Contains(t, b.Exec("/power maybe"), "/power failed: on|off")
	assert.Contains(t, b.Exec("/bg purple"), "/bg failed")
	assert.Contains(t, b.Exec("/pixel 1"), "/pixel failed")
	assert.Contains(t, b.Exec("/image /nope.png"), "/image failed")
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#FF0000")
	require.NoError(t, err)
	assert.Equal(t, bitmap.Red, c)

	c, err = ParseColor("ffffff")
	require.NoError(t, err)
	assert.Equal(t, bitmap.White, c)

	_, err = ParseColor("1000000")
	assert.ErrorIs(t, err, ErrUsage)
}
