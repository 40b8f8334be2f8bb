package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
)

// WriteCSV writes headers followed by records to outputPath, replacing any existing file.
func WriteCSV(outputPath string, headers []string, records [][]string) (err error) {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create csv %q: %w", outputPath, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv %q: %w", outputPath, err)
	}
	return nil
}
