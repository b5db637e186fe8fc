// Command gentemplate generates the Excel import template for keyword lists.
// Usage: go run cmd/gentemplate/main.go
package main

import (
	"log"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/jonesrussell/gotrends/internal/importer"
)

func main() {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", importer.SheetName); err != nil {
		log.Fatal(err)
	}

	// Add headers
	headers := []string{"group", "word", "kind"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			log.Fatal(err)
		}
		if err := f.SetCellValue(importer.SheetName, cell, h); err != nil {
			log.Fatal(err)
		}
	}

	// Example rows covering each keyword kind
	examples := [][]string{
		{"ai", "chatbot", ""},
		{"ai", "model", "required"},
		{"ai", "advert", "filter"},
		{"energy", "solar", "normal"},
	}
	for r, row := range examples {
		for i, v := range row {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				log.Fatal(err)
			}
			if err := f.SetCellValue(importer.SheetName, cell, v); err != nil {
				log.Fatal(err)
			}
		}
	}

	out := "keywords-template.xlsx"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}
	if err := f.SaveAs(out); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", out)
}
