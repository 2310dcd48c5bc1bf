package repository

import (
	"testing"
)

// PostgresMedicationRepoはMedicationRepositoryインターフェースを満たすことを検証
func TestPostgresMedicationRepo_ImplementsInterface(t *testing.T) {
	var _ MedicationRepository = (*PostgresMedicationRepo)(nil)
}

// NewPostgresMedicationRepoが正しく初期化されることを検証
func TestNewPostgresMedicationRepo_Initializes(t *testing.T) {
	repo := NewPostgresMedicationRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}
