package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Generates sample promo files for local development. A code is honoured at
// checkout when it appears in at least two of the three files, so the sets
// below give a mix of valid and invalid codes to try.
func main() {
	dataDir := "data/promos"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	promos := map[string][]string{
		"promobase1.gz": {
			"CHAIKARIB",  // In files 1 and 2
			"ASANTE2026", // In files 1 and 2
			"DUKATEA10",  // In all 3 files
			"FIRSTCUP1",  // Only in file 1
			"MAJANI250",  // In files 1 and 3
		},
		"promobase2.gz": {
			"CHAIKARIB",  // In files 1 and 2
			"ASANTE2026", // In files 1 and 2
			"DUKATEA10",  // In all 3 files
			"KETTLE2026", // Only in file 2
			"KERICHO99",  // In files 2 and 3
		},
		"promobase3.gz": {
			"KERICHO99", // In files 2 and 3
			"MAJANI250", // In files 1 and 3
			"DUKATEA10", // In all 3 files
			"STRAINER3", // Only in file 3
			"TEAPOT111", // Only in file 3
		},
	}

	for filename, codes := range promos {
		filePath := filepath.Join(dataDir, filename)

		if err := createPromoFile(filePath, codes); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d codes\n", filePath, len(codes))
	}

	fmt.Println("\nSample promo files created successfully!")
	fmt.Println("\nValid codes (appear in at least 2 files):")
	fmt.Println("  - CHAIKARIB  (files 1, 2)")
	fmt.Println("  - ASANTE2026 (files 1, 2)")
	fmt.Println("  - DUKATEA10  (files 1, 2, 3)")
	fmt.Println("  - MAJANI250  (files 1, 3)")
	fmt.Println("  - KERICHO99  (files 2, 3)")
	fmt.Println("\nInvalid codes (appear in only 1 file):")
	fmt.Println("  - FIRSTCUP1  (file 1 only)")
	fmt.Println("  - KETTLE2026 (file 2 only)")
	fmt.Println("  - STRAINER3  (file 3 only)")
	fmt.Println("  - TEAPOT111  (file 3 only)")
}

func createPromoFile(filePath string, codes []string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, code := range codes {
		if _, err := fmt.Fprintf(gzipWriter, "%s\n", code); err != nil {
			return fmt.Errorf("failed to write code: %w", err)
		}
	}

	return nil
}
