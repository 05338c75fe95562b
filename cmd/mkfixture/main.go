// mkfixture converts a tag CSV export (id,key,value,type with a header row)
// into a Parquet file that `tagclean load` accepts.
// Usage: go run ./cmd/mkfixture --in data/way_tags.csv --out testdata/way_tags.parquet --rows 500
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/gyeh/tagclean/internal/model"
)

func main() {
	in := flag.String("in", "data/way_tags.csv", "input CSV")
	out := flag.String("out", "testdata/way_tags.parquet", "output parquet")
	maxRows := flag.Int("rows", 0, "max rows to output (0 = all)")
	checkOnly := flag.Bool("check", false, "only print key stats, don't write")
	flag.Parse()

	f, err := os.Open(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open input: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, skipped, err := readTags(f, *maxRows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Read %d rows (%d skipped)\n", len(rows), skipped)

	keyCounts := make(map[string]int)
	for _, row := range rows {
		keyCounts[row.Key]++
	}
	keys := make([]string, 0, len(keyCounts))
	for k := range keyCounts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyCounts[keys[i]] > keyCounts[keys[j]] })
	fmt.Println("Top keys:")
	for i, k := range keys {
		if i == 10 {
			break
		}
		fmt.Printf("  %-20s %d\n", k, keyCounts[k])
	}
	if *checkOnly {
		return
	}

	outFile, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output: %v\n", err)
		os.Exit(1)
	}
	defer outFile.Close()

	writer := goparquet.NewGenericWriter[model.TagRow](outFile)
	if _, err := writer.Write(rows); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	if err := writer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close writer: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d rows to %s\n", len(rows), *out)
}

// readTags parses id,key,value,type records, skipping rows with a bad id.
func readTags(r io.Reader, limit int) ([]model.TagRow, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	if _, err := cr.Read(); err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	var rows []model.TagRow
	skipped := 0
	for limit == 0 || len(rows) < limit {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, err
		}
		if len(rec) < 3 {
			skipped++
			continue
		}
		id, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			skipped++
			continue
		}
		row := model.TagRow{ParentID: id, Key: rec[1], Value: rec[2]}
		if len(rec) > 3 {
			row.Type = rec[3]
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}
