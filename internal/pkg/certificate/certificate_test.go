package certificate

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPNG(t *testing.T) {
	data, err := Render(&Input{
		Nickname:       "Runner",
		ChallengeTitle: "30-Day Morning Run",
		Progress:       30,
		Message:        "Keep moving forward",
		IssuedAt:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, certWidth, img.Bounds().Dx())
	assert.Equal(t, certHeight, img.Bounds().Dy())
}

func TestRenderRequiresNicknameAndTitle(t *testing.T) {
	_, err := Render(&Input{ChallengeTitle: "Challenge"})
	assert.Error(t, err)

	_, err = Render(&Input{Nickname: "Runner"})
	assert.Error(t, err)
}

func TestRenderOnTemplateFallsBack(t *testing.T) {
	// 底图不存在时退回纯色背景渲染
	data, err := RenderOnTemplate("/nonexistent/template.png", &Input{
		Nickname:       "Runner",
		ChallengeTitle: "Challenge",
		Progress:       7,
	})
	require.NoError(t, err)

	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}
