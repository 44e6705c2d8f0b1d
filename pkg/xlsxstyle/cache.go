package xlsxstyle

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Cache registers each distinct CellStyle once per workbook.
type Cache struct {
	file *excelize.File
	ids  map[CellStyle]int
}

// NewCache creates a cache bound to f.
func NewCache(f *excelize.File) *Cache {
	return &Cache{file: f, ids: make(map[CellStyle]int)}
}

// ID returns the workbook style id of s, creating it on first use.
func (c *Cache) ID(s CellStyle) (int, error) {
	if id, ok := c.ids[s]; ok {
		return id, nil
	}
	id, err := c.file.NewStyle(s.ToExcelize())
	if err != nil {
		return 0, fmt.Errorf("create style: %w", err)
	}
	c.ids[s] = id
	return id, nil
}

// Apply styles the range from topLeft to bottomRight on sheet.
func (c *Cache) Apply(sheet, topLeft, bottomRight string, s CellStyle) error {
	id, err := c.ID(s)
	if err != nil {
		return err
	}
	return c.file.SetCellStyle(sheet, topLeft, bottomRight, id)
}

// Len is the number of distinct styles registered so far.
func (c *Cache) Len() int { return len(c.ids) }
