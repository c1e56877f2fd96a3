package seed

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, m := range ValidModes() {
		got, err := ParseMode(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("bogus")
	assert.Error(t, err)
}

func TestCalculate(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	img.Set(3, 3, color.White)

	a, err := Calculate(img, "", Config{Mode: ModeContent})
	require.NoError(t, err)
	b, err := Calculate(img, "", Config{Mode: ModeContent})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	c, err := Calculate(other, "", Config{Mode: ModeContent})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	assert.Equal(t, FilepathSeed("/tmp/wall.png"), FilepathSeed("/tmp/wall.png"))
	assert.NotEqual(t, FilepathSeed("/tmp/wall.png"), FilepathSeed("/tmp/other.png"))

	v := int64(42)
	got, err := Calculate(nil, "", Config{Mode: ModeManual, Value: &v})
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
}

func TestCalculateErrors(t *testing.T) {
	_, err := Calculate(nil, "", Config{Mode: ModeContent})
	assert.Error(t, err)
	_, err = Calculate(nil, "", Config{Mode: ModeFilepath})
	assert.Error(t, err)
	_, err = Calculate(nil, "", Config{Mode: ModeManual})
	assert.Error(t, err)
	_, err = Calculate(nil, "", Config{Mode: "nope"})
	assert.Error(t, err)
}

func TestNewRandReproducible(t *testing.T) {
	v := int64(7)
	r1, s1, err := NewRand(nil, "", Config{Mode: ModeManual, Value: &v})
	require.NoError(t, err)
	r2, s2, err := NewRand(nil, "", Config{Mode: ModeManual, Value: &v})
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
	assert.Equal(t, r1.Perm(20), r2.Perm(20))
}
