// Package export writes grids to files and reads them back.
//
// # JSON
//
// [WriteJSON] writes a self-contained document that [ReadJSON] turns back into
// a validated [grid.State]:
//
//	{
//	  "version": 1,
//	  "rows": 3,
//	  "columns": 3,
//	  "rowHeader": [1, 3],
//	  "colHeader": [0, 2],
//	  "sequence": 1,
//	  "blocks": {"i1_0": "Item 1"},
//	  "grid": [
//	    [null, {"axis": "column", "number": 0}, {"axis": "column", "number": 2}],
//	    [{"axis": "row", "number": 1}, {"id": "i1_0", "label": "Item 1"}, null],
//	    [{"axis": "row", "number": 3}, null, null]
//	  ]
//	}
//
// Empty cells are null, headers carry their axis and number, and blocks carry
// their id and label. rows and columns count the header lines.
//
// # XLSX
//
// [WriteXLSX] lays the matrix out on a "Grid" sheet, one spreadsheet cell per
// grid cell with header numbers in bold, and lists every block with its
// position on a "Blocks" sheet. Spreadsheets are an output format only.
package export
