package catalog

import (
	"time"

	"github.com/falahalshidi/shrfa-app/internal/models"
)

// DefaultActivity is stored when an admin submits an empty activities field.
const DefaultActivity = "فعاليات متنوعة"

var seedFestivals = []models.Festival{
	{
		ID:           "f4e03b10-403d-4d07-8e94-4d4974c2cb3d",
		Name:         "مهرجان صحار الترفيهي",
		Description:  "مهرجان سنوي يقام في مركز صحار الترفيهي يتضمن فعاليات ثقافية وترفيهية وعروض تراثية وأسواق شعبية",
		Location:     "مركز صحار الترفيهي، ولاية صحار",
		StartDate:    "2024-01-15",
		EndDate:      "2024-01-25",
		WorkingHours: "يومياً من 4:00 مساءً - 11:00 مساءً",
		Activities: []string{
			"عروض تراثية",
			"أسواق شعبية",
			"فعاليات ثقافية وترفيهية",
		},
		PriceBaisa: 500,
	},
}

// SeedFestivals returns a fresh copy of the built-in festival list used as a
// fallback for an empty or unreachable store.
func SeedFestivals() []models.Festival {
	now := time.Now().UTC()
	out := make([]models.Festival, len(seedFestivals))
	copy(out, seedFestivals)
	for i := range out {
		out[i].Activities = append([]string(nil), seedFestivals[i].Activities...)
		out[i].CreatedAt = now
		out[i].UpdatedAt = now
	}
	return out
}
