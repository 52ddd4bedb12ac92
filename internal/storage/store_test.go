package storage

import (
	"strings"
	"testing"

	"github.com/mmynk/dangidongi/internal/models"
)

func TestGenerateTitle(t *testing.T) {
	tests := []struct {
		name     string
		expenses []models.Expense
		want     string
	}{
		{
			name:     "distinct payers",
			expenses: []models.Expense{{Name: "Sara"}, {Name: "Reza"}, {Name: "Sara"}},
			want:     "Split with Sara, Reza",
		},
		{
			name:     "many payers",
			expenses: []models.Expense{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}, {Name: "E"}},
			want:     "Split with A, B and 3 others",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerateTitle(tt.expenses); got != tt.want {
				t.Errorf("GenerateTitle() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := GenerateTitle(nil); !strings.HasPrefix(got, "Split - ") {
		t.Errorf("GenerateTitle(nil) = %q, want date title", got)
	}
}
