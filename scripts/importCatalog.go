package main

import (
	"encoding/csv"
	"log"
	"os"
	"strconv"
	"strings"

	"lms/config"
	"lms/database"
	courseModels "lms/models/course"
)

// Imports a course catalog from catalog.csv. Expected columns:
// title, description, category, tags, price, currency, instructor_id
func main() {
	config.LoadConfig()
	database.ConnectDb()

	file, err := os.Open("catalog.csv")
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	// Map header indices
	header := records[0]
	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.TrimSpace(h)] = i
	}

	field := func(row []string, name string) string {
		idx, ok := headerIndex[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	inserted := 0
	skipped := 0

	for i, row := range records[1:] {
		title := field(row, "title")
		if title == "" {
			log.Printf("Skipping row %d: missing title", i+1)
			skipped++
			continue
		}

		instructorID, err := strconv.Atoi(field(row, "instructor_id"))
		if err != nil || instructorID < 1 {
			log.Printf("Skipping row %d (%s): invalid instructor_id", i+1, title)
			skipped++
			continue
		}

		price, _ := strconv.Atoi(field(row, "price"))
		currency := field(row, "currency")
		if currency == "" {
			currency = "USD"
		}

		// Keep reruns idempotent: one course per (title, instructor)
		var existing courseModels.Course
		if err := database.Database.Db.
			Where("title = ? AND instructor_id = ? AND is_deleted = ?", title, instructorID, false).
			First(&existing).Error; err == nil {
			skipped++
			continue
		}

		course := courseModels.Course{
			Title:        title,
			Description:  field(row, "description"),
			Category:     field(row, "category"),
			Tags:         field(row, "tags"),
			Price:        uint(price),
			Currency:     currency,
			InstructorID: uint(instructorID),
		}

		if err := database.Database.Db.Create(&course).Error; err != nil {
			log.Printf("Failed to insert row %d (%s): %v", i+1, title, err)
			skipped++
			continue
		}
		inserted++
	}

	log.Printf("Catalog import finished: %d inserted, %d skipped", inserted, skipped)
}
