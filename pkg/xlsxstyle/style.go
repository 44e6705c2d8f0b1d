// Package xlsxstyle builds excelize cell styles fluently and caches their ids
// per workbook.
package xlsxstyle

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellStyle defines styling for cells. It is comparable and used as a cache key.
type CellStyle struct {
	FontName      string
	FontSize      float64
	FontBold      bool
	FontItalic    bool
	FontUnderline bool
	FontColor     string

	FillColor string

	Alignment     string // "left", "center", "right"
	VerticalAlign string // "top", "center", "bottom"
	WrapText      bool
	ReadingOrder  uint64 // 0 context, 1 LTR, 2 RTL

	BorderStyle string // "thin", "medium", "thick", "dashed", "dotted", "double"
	BorderColor string

	NumberFormat string
}

// StyleBuilder provides a fluent API for building cell styles
type StyleBuilder struct {
	style CellStyle
}

// NewStyleBuilder creates a new style builder with default values
func NewStyleBuilder() *StyleBuilder {
	return &StyleBuilder{
		style: CellStyle{
			FontName:      "Arial",
			FontSize:      10,
			Alignment:     "center",
			VerticalAlign: "center",
		},
	}
}

// From starts a builder from an existing style.
func From(s CellStyle) *StyleBuilder {
	return &StyleBuilder{style: s}
}

// Font sets the font properties
func (b *StyleBuilder) Font(name string, size float64) *StyleBuilder {
	b.style.FontName = name
	b.style.FontSize = size
	return b
}

// Size changes the font size only.
func (b *StyleBuilder) Size(size float64) *StyleBuilder {
	b.style.FontSize = size
	return b
}

// Bold sets the font to bold
func (b *StyleBuilder) Bold() *StyleBuilder {
	b.style.FontBold = true
	return b
}

// Italic sets the font to italic
func (b *StyleBuilder) Italic() *StyleBuilder {
	b.style.FontItalic = true
	return b
}

// Underline adds a single underline.
func (b *StyleBuilder) Underline() *StyleBuilder {
	b.style.FontUnderline = true
	return b
}

// FontColor sets the font color (hex, with or without '#')
func (b *StyleBuilder) FontColor(color string) *StyleBuilder {
	b.style.FontColor = normalizeColor(color)
	return b
}

// Fill sets a solid cell background
func (b *StyleBuilder) Fill(color string) *StyleBuilder {
	b.style.FillColor = normalizeColor(color)
	return b
}

// Align sets the horizontal alignment
func (b *StyleBuilder) Align(alignment string) *StyleBuilder {
	b.style.Alignment = alignment
	return b
}

// VAlign sets the vertical alignment
func (b *StyleBuilder) VAlign(alignment string) *StyleBuilder {
	b.style.VerticalAlign = alignment
	return b
}

// RightToLeft sets the reading order to right-to-left.
func (b *StyleBuilder) RightToLeft() *StyleBuilder {
	b.style.ReadingOrder = 2
	return b
}

// Border sets the same border on all four sides
func (b *StyleBuilder) Border(style, color string) *StyleBuilder {
	b.style.BorderStyle = style
	b.style.BorderColor = normalizeColor(color)
	return b
}

// NumberFormat sets a custom number format
func (b *StyleBuilder) NumberFormat(format string) *StyleBuilder {
	b.style.NumberFormat = format
	return b
}

// WrapText enables text wrapping
func (b *StyleBuilder) WrapText() *StyleBuilder {
	b.style.WrapText = true
	return b
}

// Build returns the built style
func (b *StyleBuilder) Build() CellStyle {
	return b.style
}

var borderStyles = map[string]int{
	"thin":   1,
	"medium": 2,
	"dashed": 3,
	"dotted": 4,
	"thick":  5,
	"double": 6,
}

// ToExcelize converts the style into an excelize style definition.
func (s CellStyle) ToExcelize() *excelize.Style {
	out := &excelize.Style{
		Font: &excelize.Font{
			Bold:   s.FontBold,
			Italic: s.FontItalic,
			Size:   s.FontSize,
			Family: s.FontName,
			Color:  s.FontColor,
		},
		Alignment: &excelize.Alignment{
			Horizontal:   s.Alignment,
			Vertical:     s.VerticalAlign,
			WrapText:     s.WrapText,
			ReadingOrder: s.ReadingOrder,
		},
	}
	if s.FontUnderline {
		out.Font.Underline = "single"
	}
	if s.FillColor != "" {
		out.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{s.FillColor},
		}
	}
	if style, ok := borderStyles[s.BorderStyle]; ok {
		color := s.BorderColor
		if color == "" {
			color = "000000"
		}
		for _, side := range []string{"left", "top", "right", "bottom"} {
			out.Border = append(out.Border, excelize.Border{Type: side, Color: color, Style: style})
		}
	}
	if s.NumberFormat != "" {
		format := s.NumberFormat
		out.CustomNumFmt = &format
	}
	return out
}

func normalizeColor(color string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(color), "#"))
}
