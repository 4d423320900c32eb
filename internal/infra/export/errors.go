package export

import "errors"

var (
	// ErrBuildWorkbook возвращается при ошибке построения книги Excel
	ErrBuildWorkbook = errors.New("export: failed to build workbook")
)
