// Package imggen 图片生成模块
package imggen

import (
	"fmt"
	"image/color"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// CardData 分享卡片数据
type CardData struct {
	TemplateName string
	Description  string
	TypeName     string
	Code         string // 已脱敏的兑换码
	ThemeColor   string // 十六进制主题色，如 #FF6B6B
	ExpiresAt    *time.Time
	GeneratedAt  time.Time
}

// 颜色定义
var (
	cardBgColor    = color.RGBA{25, 25, 35, 255}    // 深色背景
	panelColor     = color.RGBA{35, 35, 50, 255}    // 内容面板
	cardTextColor  = color.RGBA{255, 255, 255, 255} // 白色文字
	mutedTextColor = color.RGBA{180, 180, 180, 255} // 灰色文字
	defaultAccent  = color.RGBA{255, 107, 107, 255} // 默认主题色
)

// fontFaces 按字号缓存的字体
type fontFaces struct {
	title font.Face
	body  font.Face
	small font.Face
}

// loadFaces 加载中文字体。字体文件缺失时返回 nil，绘制退回 gg 默认字体
// （默认字体不含 CJK 字形，仅用于无字体配置的开发环境）
func loadFaces(fontPath string) *fontFaces {
	if fontPath == "" {
		return nil
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil
	}

	face := func(size float64) font.Face {
		return truetype.NewFace(f, &truetype.Options{
			Size:    size,
			Hinting: font.HintingFull,
		})
	}
	return &fontFaces{
		title: face(32),
		body:  face(20),
		small: face(14),
	}
}

// parseThemeColor 解析 #RRGGBB 主题色，非法输入回退默认色
func parseThemeColor(hex string) color.RGBA {
	if len(hex) != 7 || hex[0] != '#' {
		return defaultAccent
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return defaultAccent
	}
	return color.RGBA{r, g, b, 255}
}

// RenderCard 生成礼品卡分享图片并写入 w
func RenderCard(w io.Writer, data CardData, fontPath string) error {
	width, height := 600, 340
	dc := gg.NewContext(width, height)

	faces := loadFaces(fontPath)
	accent := parseThemeColor(data.ThemeColor)

	// 背景渐变：主题色向深色过渡
	for y := 0; y < height; y++ {
		t := float64(y) / float64(height)
		r := uint8(float64(accent.R)*(1-t)*0.4 + float64(cardBgColor.R)*t)
		g := uint8(float64(accent.G)*(1-t)*0.4 + float64(cardBgColor.G)*t)
		b := uint8(float64(accent.B)*(1-t)*0.4 + float64(cardBgColor.B)*t)
		dc.SetColor(color.RGBA{r, g, b, 255})
		dc.DrawRectangle(0, float64(y), float64(width), 1)
		dc.Fill()
	}

	// 内容面板
	dc.SetColor(color.RGBA{panelColor.R, panelColor.G, panelColor.B, 220})
	dc.DrawRoundedRectangle(30, 30, float64(width-60), float64(height-60), 16)
	dc.Fill()

	// 标题
	if faces != nil {
		dc.SetFontFace(faces.title)
	}
	dc.SetColor(cardTextColor)
	dc.DrawStringAnchored("🎁 "+data.TemplateName, float64(width)/2, 80, 0.5, 0.5)

	// 类型标签
	if faces != nil {
		dc.SetFontFace(faces.small)
	}
	dc.SetColor(accent)
	dc.DrawStringAnchored(data.TypeName, float64(width)/2, 115, 0.5, 0.5)

	// 描述
	if data.Description != "" {
		if faces != nil {
			dc.SetFontFace(faces.body)
		}
		dc.SetColor(mutedTextColor)
		dc.DrawStringAnchored(data.Description, float64(width)/2, 155, 0.5, 0.5)
	}

	// 兑换码
	if faces != nil {
		dc.SetFontFace(faces.body)
	}
	dc.SetColor(accent)
	dc.DrawRoundedRectangle(150, 185, float64(width-300), 44, 8)
	dc.Stroke()
	dc.SetColor(cardTextColor)
	dc.DrawStringAnchored(data.Code, float64(width)/2, 207, 0.5, 0.5)

	// 有效期
	if faces != nil {
		dc.SetFontFace(faces.small)
	}
	dc.SetColor(mutedTextColor)
	if data.ExpiresAt != nil {
		expireText := fmt.Sprintf("有效期至 %s", data.ExpiresAt.Format("2006-01-02 15:04"))
		dc.DrawStringAnchored(expireText, float64(width)/2, 255, 0.5, 0.5)
	}

	// 底部信息
	footerText := fmt.Sprintf("生成于 %s", data.GeneratedAt.Format("2006-01-02 15:04"))
	dc.DrawStringAnchored(footerText, float64(width)/2, float64(height-45), 0.5, 0.5)

	return png.Encode(w, dc.Image())
}
