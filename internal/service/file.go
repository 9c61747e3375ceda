package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/fittrack/internal/model"
	"github.com/templui/fittrack/internal/repository"
	"github.com/templui/fittrack/internal/storage"
	"github.com/templui/fittrack/internal/validation"
)

type FileService struct {
	fileRepo repository.FileRepository
	storage  storage.Storage
}

// NewFileService accepts a nil storage; uploads then fail with ErrStorageDisabled.
func NewFileService(fileRepo repository.FileRepository, storage storage.Storage) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		storage:  storage,
	}
}

func (s *FileService) Enabled() bool {
	return s.storage != nil
}

// UploadRecipeImage validates and stores an image under public/recipes/ and
// replaces any previous image of the recipe. Ownership of the recipe is
// checked by the caller.
func (s *FileService) UploadRecipeImage(ctx context.Context, userID, recipeID string, header *multipart.FileHeader) (*model.File, error) {
	if !s.Enabled() {
		return nil, ErrStorageDisabled
	}

	if err := validation.ValidateFile(header, validation.ImageConstraints); err != nil {
		return nil, validation.Field("image", err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	sniff := make([]byte, 512)
	n, _ := file.Read(sniff)
	mimeType := http.DetectContentType(sniff[:n])
	if _, err := file.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("failed to rewind upload: %w", err)
	}

	previous, err := s.fileRepo.FileByType(model.FileOwnerRecipe, recipeID, model.FileTypeRecipeImage)
	if err != nil && !errors.Is(err, repository.ErrFileNotFound) {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename := uuid.New().String() + ext
	storagePath := path.Join("public", "recipes", filename)

	if err := s.storage.Save(ctx, storagePath, mimeType, file); err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	record := &model.File{
		ID:           uuid.New().String(),
		UserID:       userID,
		OwnerType:    model.FileOwnerRecipe,
		OwnerID:      recipeID,
		Type:         model.FileTypeRecipeImage,
		Filename:     filename,
		OriginalName: header.Filename,
		MimeType:     mimeType,
		Size:         header.Size,
		StoragePath:  storagePath,
		Public:       true,
		CreatedAt:    time.Now(),
	}

	if err := s.fileRepo.Create(record); err != nil {
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	if previous != nil {
		s.remove(ctx, previous)
	}

	return record, nil
}

func (s *FileService) RecipeImage(recipeID string) (*model.File, error) {
	return s.fileRepo.FileByType(model.FileOwnerRecipe, recipeID, model.FileTypeRecipeImage)
}

// DeleteRecipeImage removes the recipe's image, if any.
func (s *FileService) DeleteRecipeImage(ctx context.Context, recipeID string) error {
	file, err := s.RecipeImage(recipeID)
	if errors.Is(err, repository.ErrFileNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if !s.Enabled() {
		return ErrStorageDisabled
	}

	s.remove(ctx, file)
	return nil
}

// URL returns a presigned link, or "" without storage.
func (s *FileService) URL(ctx context.Context, file *model.File) string {
	if file == nil || !s.Enabled() {
		return ""
	}
	return s.storage.URL(ctx, file.StoragePath)
}

// DeleteAllUserFilesFromStorage removes a user's objects ahead of account
// deletion. The rows go with the user through ON DELETE CASCADE.
func (s *FileService) DeleteAllUserFilesFromStorage(ctx context.Context, userID string) error {
	if !s.Enabled() {
		return nil
	}

	files, err := s.fileRepo.AllUserFiles(userID)
	if err != nil {
		return fmt.Errorf("failed to get user files: %w", err)
	}

	for _, file := range files {
		if err := s.storage.Delete(ctx, file.StoragePath); err != nil {
			// The object may already be gone.
			slog.Warn("failed to delete file from storage", "storage_path", file.StoragePath, "error", err)
		}
	}

	return nil
}

// remove deletes the object best effort, then the row.
func (s *FileService) remove(ctx context.Context, file *model.File) {
	if s.Enabled() {
		if err := s.storage.Delete(ctx, file.StoragePath); err != nil {
			slog.Error("failed to delete file from storage", "error", err, "path", file.StoragePath)
		}
	}
	if err := s.fileRepo.Delete(file.ID); err != nil && !errors.Is(err, repository.ErrFileNotFound) {
		slog.Error("failed to delete file record", "error", err, "file_id", file.ID)
	}
}
