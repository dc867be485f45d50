// Package seed fills an empty inventory with sample medicines for demos and local development.
package seed

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/amarshaik012/smart-qr-health/internal/model"
	"github.com/amarshaik012/smart-qr-health/internal/repository"
)

const (
	// MinExisting skips seeding when the inventory already holds this many medicines.
	MinExisting = 50
	// Count is the number of medicines created by a seed run.
	Count = 100
)

type category struct {
	name      string
	strengths []string
	form      string
}

var categories = []category{
	{"Paracetamol", []string{"500 mg", "650 mg"}, "tablet"},
	{"Ibuprofen", []string{"200 mg", "400 mg"}, "tablet"},
	{"Azithromycin", []string{"250 mg", "500 mg"}, "tablet"},
	{"Amoxicillin", []string{"250 mg", "500 mg"}, "capsule"},
	{"Pantoprazole", []string{"40 mg"}, "tablet"},
	{"Metformin", []string{"500 mg", "1000 mg"}, "tablet"},
	{"Cetrizine", []string{"10 mg"}, "tablet"},
	{"Cough Syrup", []string{"100 ml", "200 ml"}, "syrup"},
	{"ORS", []string{"21 g sachet"}, "sachet"},
	{"Calcium", []string{"500 mg"}, "tablet"},
}

var (
	taxRates      = []float64{0, 5, 12}
	reorderLevels = []int{10, 20, 30, 50}
)

// RandomMedicine builds one sample medicine.
func RandomMedicine(rnd *rand.Rand) model.Medicine {
	c := categories[rnd.Intn(len(categories))]
	return model.Medicine{
		Name:         c.name,
		Strength:     c.strengths[rnd.Intn(len(c.strengths))],
		Form:         c.form,
		MRP:          math.Round((8+rnd.Float64()*272)*100) / 100,
		TaxPct:       taxRates[rnd.Intn(len(taxRates))],
		StockQty:     rnd.Intn(401),
		ReorderLevel: reorderLevels[rnd.Intn(len(reorderLevels))],
	}
}

// Medicines creates Count random medicines unless MinExisting are already stored.
// It returns the number created.
func Medicines(ctx context.Context, medicines repository.MedicineRepository, rnd *rand.Rand, log *zap.Logger) (int, error) {
	existing, err := medicines.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count medicines: %w", err)
	}
	if existing >= MinExisting {
		log.Info("inventory already seeded, skipping", zap.Int("count", existing))
		return 0, nil
	}

	for i := 0; i < Count; i++ {
		m := RandomMedicine(rnd)
		if _, err := medicines.Create(ctx, &m); err != nil {
			return i, fmt.Errorf("create medicine %d: %w", i+1, err)
		}
	}
	log.Info("seeded medicines", zap.Int("count", Count))
	return Count, nil
}
