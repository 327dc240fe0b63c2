package main

import (
	"fmt"
	"log"

	"github.com/loicalleyne/hod"
)

var schemaS1 string = `[
{"ordinal":1,"name":"id","type":"int"},
{"ordinal":2,"name":"price","type":"decimal","precision":18,"scale":2},
{"ordinal":3,"name":"active","type":"bool"},
{"ordinal":4,"name":"payload","type":"varbinary"},
{"ordinal":5,"name":"seen_at","type":"timestamptz"},
{"ordinal":6,"name":"note","type":"varchar"}
]`

func main() {
	h := hod.NewHod()
	if err := h.AddColumns(schemaS1); err != nil {
		log.Fatal(err)
	}
	schema, err := h.Schema()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("destination schema %v\n\n", schema.String())

	row, err := h.CoerceRow([]string{"42", "12.345", "3.5", "0x4869", "2024-01-01T10:00:00+01:00", `"as is"`})
	if err != nil {
		log.Fatal(err)
	}
	for i, ord := range h.Ordinals() {
		c, _ := h.Lookup(ord)
		fmt.Printf("%-8s %-12s %#v\n", c.FieldName(), c.Type, h.Project(row)[i])
	}

	if _, err := h.CoerceRow([]string{"42", "not-a-number", "1", "aa", "2024-01-01T10:00:00+01:00", ""}); err != nil {
		fmt.Printf("\nrejected row: %v\n", err)
	}
}
