package repository

import (
	"testing"
)

// PostgresSpaceRepoはSpaceRepositoryインターフェースを満たすことを検証
func TestPostgresSpaceRepo_ImplementsInterface(t *testing.T) {
	var _ SpaceRepository = (*PostgresSpaceRepo)(nil)
}

// PostgresNoteRepoはNoteRepositoryインターフェースを満たすことを検証
func TestPostgresNoteRepo_ImplementsInterface(t *testing.T) {
	var _ NoteRepository = (*PostgresNoteRepo)(nil)
}

// PostgresSessionRepoはSessionRepositoryインターフェースを満たすことを検証
func TestPostgresSessionRepo_ImplementsInterface(t *testing.T) {
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
}

// NewPostgresSpaceRepoが正しく初期化されることを検証
func TestNewPostgresSpaceRepo_Initializes(t *testing.T) {
	repo := NewPostgresSpaceRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresNoteRepoが正しく初期化されることを検証
func TestNewPostgresNoteRepo_Initializes(t *testing.T) {
	repo := NewPostgresNoteRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// NewPostgresSessionRepoが正しく初期化されることを検証
func TestNewPostgresSessionRepo_Initializes(t *testing.T) {
	repo := NewPostgresSessionRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}
