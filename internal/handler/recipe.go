package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/templui/fittrack/internal/service"
	"github.com/templui/fittrack/internal/validation"
)

const (
	maxImportBytes = 256 << 10
	maxUploadBytes = 6 << 20
)

type RecipeHandler struct {
	recipeService *service.RecipeService
}

func NewRecipeHandler(recipeService *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipeService.List(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipes)
}

func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.RecipeInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	recipe, err := h.recipeService.Create(r.Context(), currentUser(r).ID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, recipe)
}

func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.recipeService.Detail(r.Context(), currentUser(r).ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.RecipeInput
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	recipe, err := h.recipeService.Update(r.Context(), currentUser(r).ID, r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.recipeService.Delete(r.Context(), currentUser(r).ID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Import reads a markdown document with YAML frontmatter from the raw body.
func (h *RecipeHandler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, r, validation.Newf("document", "must not exceed %d KB", maxImportBytes>>10))
		return
	}

	recipe, err := h.recipeService.Import(r.Context(), currentUser(r).ID, body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, recipe)
}

func (h *RecipeHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, validation.Newf("image", "invalid upload: file too large or malformed"))
		return
	}

	_, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		writeError(w, r, validation.Newf("image", "is required"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	recipe, err := h.recipeService.UploadImage(r.Context(), currentUser(r).ID, r.PathValue("id"), header)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	if err := h.recipeService.DeleteImage(r.Context(), currentUser(r).ID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
