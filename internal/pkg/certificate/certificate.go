package certificate

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	certWidth  = 1200
	certHeight = 800
)

var (
	bgColor     = color.RGBA{R: 252, G: 248, B: 240, A: 255}
	borderColor = color.RGBA{R: 184, G: 134, B: 11, A: 255}
	titleColor  = color.RGBA{R: 60, G: 42, B: 20, A: 255}
	textColor   = color.RGBA{R: 90, G: 74, B: 50, A: 255}
)

// Input 证书渲染所需的全部数据
type Input struct {
	Nickname       string
	ChallengeTitle string
	Progress       int64
	Message        string    // AI 生成的贺词，空则省略
	IssuedAt       time.Time // 颁发日期
	AvatarURL      string    // 预留，当前版本不绘制头像
}

// Render 渲染获胜者证书，返回 PNG 字节流
func Render(in *Input) ([]byte, error) {
	if in.Nickname == "" || in.ChallengeTitle == "" {
		return nil, fmt.Errorf("certificate: nickname and challenge title required")
	}

	canvas := image.NewRGBA(image.Rect(0, 0, certWidth, certHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bgColor), image.Point{}, draw.Src)

	drawBorder(canvas, 24, 8)
	drawBorder(canvas, 40, 2)

	face := basicfont.Face7x13

	// 标题
	drawCenteredText(canvas, face, "CERTIFICATE OF ACHIEVEMENT", 180, titleColor, 3)

	// 获奖人与挑战名
	drawCenteredText(canvas, face, in.Nickname, 320, titleColor, 3)
	drawCenteredText(canvas, face, fmt.Sprintf("Winner of \"%s\"", in.ChallengeTitle), 400, textColor, 2)
	drawCenteredText(canvas, face, fmt.Sprintf("Check-ins completed: %d", in.Progress), 460, textColor, 2)

	if in.Message != "" {
		drawCenteredText(canvas, face, in.Message, 540, textColor, 1)
	}

	issued := in.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}
	drawCenteredText(canvas, face, issued.Format("2006-01-02"), 660, textColor, 1)

	// 统一走 imaging 做最终编码前的锐化，小字号放大后边缘会发虚
	sharpened := imaging.Sharpen(canvas, 0.5)

	var buf bytes.Buffer
	if err := png.Encode(&buf, sharpened); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderOnTemplate 在给定底图上渲染证书，底图加载失败时退回纯色背景
func RenderOnTemplate(templatePath string, in *Input) ([]byte, error) {
	tpl, err := imaging.Open(templatePath)
	if err != nil {
		return Render(in)
	}

	resized := imaging.Resize(tpl, certWidth, certHeight, imaging.Lanczos)
	canvas := image.NewRGBA(image.Rect(0, 0, certWidth, certHeight))
	draw.Draw(canvas, canvas.Bounds(), resized, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawCenteredText(canvas, face, in.Nickname, 320, titleColor, 3)
	drawCenteredText(canvas, face, fmt.Sprintf("Winner of \"%s\"", in.ChallengeTitle), 400, textColor, 2)
	drawCenteredText(canvas, face, fmt.Sprintf("Check-ins completed: %d", in.Progress), 460, textColor, 2)
	if in.Message != "" {
		drawCenteredText(canvas, face, in.Message, 540, textColor, 1)
	}

	issued := in.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}
	drawCenteredText(canvas, face, issued.Format("2006-01-02"), 660, textColor, 1)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawBorder 绘制矩形边框
func drawBorder(canvas *image.RGBA, inset, thickness int) {
	b := canvas.Bounds()
	uniform := image.NewUniform(borderColor)

	top := image.Rect(b.Min.X+inset, b.Min.Y+inset, b.Max.X-inset, b.Min.Y+inset+thickness)
	bottom := image.Rect(b.Min.X+inset, b.Max.Y-inset-thickness, b.Max.X-inset, b.Max.Y-inset)
	left := image.Rect(b.Min.X+inset, b.Min.Y+inset, b.Min.X+inset+thickness, b.Max.Y-inset)
	right := image.Rect(b.Max.X-inset-thickness, b.Min.Y+inset, b.Max.X-inset, b.Max.Y-inset)

	for _, r := range []image.Rectangle{top, bottom, left, right} {
		draw.Draw(canvas, r, uniform, image.Point{}, draw.Src)
	}
}

// drawCenteredText 以 scale 倍放大绘制水平居中文本
func drawCenteredText(canvas *image.RGBA, face font.Face, text string, y int, c color.Color, scale int) {
	if scale < 1 {
		scale = 1
	}

	width := font.MeasureString(face, text).Ceil()
	lineImg := image.NewRGBA(image.Rect(0, 0, width+4, face.Metrics().Height.Ceil()+4))

	d := &font.Drawer{
		Dst:  lineImg,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(2, face.Metrics().Ascent.Ceil()+2),
	}
	d.DrawString(text)

	scaled := lineImg
	if scale > 1 {
		resized := imaging.Resize(lineImg, lineImg.Bounds().Dx()*scale, lineImg.Bounds().Dy()*scale, imaging.NearestNeighbor)
		scaled = image.NewRGBA(resized.Bounds())
		draw.Draw(scaled, scaled.Bounds(), resized, image.Point{}, draw.Src)
	}

	x := (certWidth - scaled.Bounds().Dx()) / 2
	target := image.Rect(x, y, x+scaled.Bounds().Dx(), y+scaled.Bounds().Dy())
	draw.Draw(canvas, target, scaled, image.Point{}, draw.Over)
}
