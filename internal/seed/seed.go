// Package seed bulk-loads the ingredient and tag reference data from CSV
// files. Loading is idempotent: existing rows are skipped, never duplicated.
package seed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/platebook/backend/internal/models"
)

var hexColor = regexp.MustCompile(`^#([a-f0-9]{6}|[a-f0-9]{3})$`)

// Ingredients reads "name,measurement_unit" rows. Malformed rows are logged
// and skipped so a single bad line never aborts a bulk load.
func Ingredients(db *gorm.DB, r io.Reader, logger *zap.Logger) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	created := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return created, fmt.Errorf("failed to read ingredients CSV: %w", err)
		}
		if len(row) != 2 {
			logger.Warn("skipping malformed ingredient row", zap.Strings("row", row))
			continue
		}

		ingredient := models.Ingredient{
			Name:            strings.TrimSpace(row[0]),
			MeasurementUnit: strings.TrimSpace(row[1]),
		}
		if ingredient.Name == "" || ingredient.MeasurementUnit == "" {
			logger.Warn("skipping empty ingredient row", zap.Strings("row", row))
			continue
		}

		res := db.Where(
			"name = ? AND measurement_unit = ?", ingredient.Name, ingredient.MeasurementUnit,
		).FirstOrCreate(&ingredient)
		if res.Error != nil {
			return created, res.Error
		}
		if res.RowsAffected > 0 {
			created++
		}
	}
	return created, nil
}

// Tags reads "name,slug,color" rows. Rows clashing with an existing name or
// slug are skipped; an invalid color is a hard error since tag colors are
// operator-provided reference data.
func Tags(db *gorm.DB, r io.Reader, logger *zap.Logger) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	created := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return created, fmt.Errorf("failed to read tags CSV: %w", err)
		}
		if len(row) != 3 {
			logger.Warn("skipping malformed tag row", zap.Strings("row", row))
			continue
		}

		tag := models.Tag{
			Name:  strings.TrimSpace(row[0]),
			Slug:  strings.TrimSpace(row[1]),
			Color: strings.ToLower(strings.TrimSpace(row[2])),
		}
		if !hexColor.MatchString(tag.Color) {
			return created, fmt.Errorf("invalid tag color %q for %q", tag.Color, tag.Name)
		}

		var count int64
		if err := db.Model(&models.Tag{}).
			Where("name = ? OR slug = ?", tag.Name, tag.Slug).
			Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			logger.Info("tag already exists", zap.String("name", tag.Name))
			continue
		}

		if err := db.Create(&tag).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// File opens path and feeds it to the given loader.
func File(db *gorm.DB, path string, logger *zap.Logger, load func(*gorm.DB, io.Reader, *zap.Logger) (int, error)) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()
	return load(db, f, logger)
}
