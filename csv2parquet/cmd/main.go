package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/loicalleyne/hod"
	c2p "github.com/loicalleyne/hod/csv2parquet"
)

func main() {
	inputFile := flag.String("in", "t.csv", "input file")
	outputFile := flag.String("out", "t.parquet", "output file")
	schemaFile := flag.String("schema", "", "column definitions file (json array)")
	delimiter := flag.String("delim", ",", "field delimiter")
	headerLine := flag.Bool("header", false, "first line of the input is column names")
	mappingFile := flag.String("mapping", "", "bloblang mapping applied to each row")
	timeFormat := flag.String("time_format", "", "session layout for offset time columns")
	timestampFormat := flag.String("timestamp_format", "", "session layout for offset timestamp columns")
	dryRun := flag.Bool("n", false, "only print the schema")
	flag.Parse()
	if *inputFile == "" {
		log.Fatal("no input file specified")
	}
	if *schemaFile == "" {
		log.Fatal("no schema file specified")
	}
	defs, err := os.ReadFile(*schemaFile)
	if err != nil {
		log.Fatal(err)
	}

	var opts []hod.Option
	if *timeFormat != "" {
		opts = append(opts, hod.WithTimeFormat(*timeFormat))
	}
	if *timestampFormat != "" {
		opts = append(opts, hod.WithTimestampFormat(*timestampFormat))
	}
	h := hod.NewHod(opts...)
	if err := h.AddColumns(defs); err != nil {
		log.Fatal(err)
	}

	arrowSchema, err := h.Schema()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(arrowSchema.String())
	if *dryRun {
		return
	}
	if *outputFile == "" {
		log.Fatal("no output file specified")
	}

	var munger c2p.Munger
	if *mappingFile != "" {
		mapping, err := os.ReadFile(*mappingFile)
		if err != nil {
			log.Fatal(err)
		}
		munger, err = c2p.BloblangMunger(string(mapping))
		if err != nil {
			log.Fatal("mapping error: ", err)
		}
	}

	log.Println("starting conversion to parquet")
	n, err := c2p.RecordsFromFile(h, *inputFile, *outputFile, *delimiter, *headerLine, munger)
	log.Printf("%d records written", n)
	if err != nil {
		log.Printf("parquet error: %v", err)
	}
}
