package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	rendernotification "now-hiring/internal/application/render-notification"
	"now-hiring/internal/models"
)

func main() {
	in := flag.String("in", "-", "application record JSON file (- for stdin)")
	out := flag.String("out", "-", "HTML output file (- for stdout)")
	flag.Parse()

	record, err := readRecord(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	doc, err := rendernotification.Render(record)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering notification: %v\n", err)
		os.Exit(1)
	}

	if err := writeOutput(*out, doc.HTML); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Subject: %s\n", doc.Subject)
}

func readRecord(path string) (*models.ApplicationRecord, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var record models.ApplicationRecord
	if err := json.NewDecoder(r).Decode(&record); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &record, nil
}

func writeOutput(path, html string) error {
	if path == "-" {
		_, err := io.WriteString(os.Stdout, html)
		return err
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	return nil
}
