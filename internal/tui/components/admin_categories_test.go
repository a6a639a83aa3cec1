package components

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cape-app/cape/internal/api"
	"github.com/cape-app/cape/internal/icons"
	"github.com/cape-app/cape/internal/model"
	"github.com/cape-app/cape/internal/toast"
	"github.com/cape-app/cape/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategoryService struct {
	categories []model.Category
	created    []model.CreateCategoryInput
	deleted    []string
	orphaned   int
}

func (f *fakeCategoryService) ListCategories(context.Context) ([]model.Category, error) {
	return f.categories, nil
}

func (f *fakeCategoryService) CreateCategory(_ context.Context, input model.CreateCategoryInput) (*model.Category, error) {
	f.created = append(f.created, input)
	return &model.Category{ID: "cat-new", Name: input.Name}, nil
}

func (f *fakeCategoryService) UpdateCategory(_ context.Context, id string, input model.UpdateCategoryInput) (*model.Category, error) {
	return &model.Category{ID: id, Name: input.Name}, nil
}

func (f *fakeCategoryService) DeleteCategory(_ context.Context, id string) (*api.DeleteCategoryResult, error) {
	f.deleted = append(f.deleted, id)
	return &api.DeleteCategoryResult{OrphanedTransactions: f.orphaned}, nil
}

func newCatsModel(t *testing.T, svc *fakeCategoryService) (AdminCategoriesModel, *toast.Store) {
	t.Helper()
	toasts := toast.NewStore()
	recents := icons.NewRecents(filepath.Join(t.TempDir(), "recent_icons.json"))
	return NewAdminCategories(context.Background(), svc, toasts, recents, themes.Default), toasts
}

func drainCats(t *testing.T, m AdminCategoriesModel, cmd tea.Cmd) AdminCategoriesModel {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = drainCats(t, m, c)
		}
		return m
	}
	var next tea.Cmd
	m, next = m.Update(msg)
	return drainCats(t, m, next)
}

func TestAdminCategoriesDeleteSurfacesOrphanCount(t *testing.T) {
	svc := &fakeCategoryService{
		categories: []model.Category{{ID: "cat-food", Name: "Makanan"}},
		orphaned:   3,
	}
	m, toasts := newCatsModel(t, svc)

	var cmd tea.Cmd
	m, cmd = m.Init()
	m = drainCats(t, m, cmd)

	m, _ = m.Update(keyMsg("d"))
	m, cmd = m.Update(keyMsg("y"))
	m = drainCats(t, m, cmd)

	require.Equal(t, []string{"cat-food"}, svc.deleted)

	active := toasts.Active()
	require.NotEmpty(t, active)
	assert.Contains(t, active[len(active)-1].Detail, "3 transaksi menjadi tanpa kategori")
}

func TestAdminCategoriesPickerPutsRecentsFirst(t *testing.T) {
	svc := &fakeCategoryService{}
	m, _ := newCatsModel(t, svc)
	m.recents.Add("car")
	m.recents.Add("utensils") // most recent

	slugs := m.pickerSlugs()
	require.Greater(t, len(slugs), 2)
	assert.Equal(t, "utensils", slugs[0], "most recently used leads")
	assert.Equal(t, "car", slugs[1])

	// No duplicates later in the list.
	seen := map[string]int{}
	for _, slug := range slugs {
		seen[slug]++
	}
	assert.Equal(t, 1, seen["utensils"])
	assert.Equal(t, 1, seen["car"])
}

func TestAdminCategoriesPickAddsToRecents(t *testing.T) {
	svc := &fakeCategoryService{}
	m, _ := newCatsModel(t, svc)

	m.openForm(nil)
	m, _ = m.handleFormKeys(tea.KeyMsg{Type: tea.KeyCtrlO})
	require.True(t, m.pickerOpen)

	m = m.handlePickerKeys(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.pickerOpen)
	assert.NotEmpty(t, m.pickerSlug)
	assert.Equal(t, m.pickerSlug, m.recents.List()[0])
}

func TestAdminCategoriesFormValidation(t *testing.T) {
	svc := &fakeCategoryService{}
	m, _ := newCatsModel(t, svc)

	m.openForm(nil)
	m.formInputs[1].SetValue("not-a-color")

	next, cmd := m.submitForm()
	assert.Nil(t, cmd)
	assert.Contains(t, next.formErrs[0], "Nama")
	assert.Contains(t, next.formErrs[1], "warna")
	assert.Empty(t, svc.created)
}

func TestAdminCategoriesCreateSubmits(t *testing.T) {
	svc := &fakeCategoryService{}
	m, _ := newCatsModel(t, svc)

	m.openForm(nil)
	m.formInputs[0].SetValue("Makanan")
	m.formInputs[1].SetValue("#f59e0b")
	m.formInputs[2].SetValue("makan, kuliner")
	m.pickerSlug = "utensils"

	next, cmd := m.submitForm()
	require.NotNil(t, cmd)
	next = drainCats(t, next, cmd)

	require.Len(t, svc.created, 1)
	assert.Equal(t, "Makanan", svc.created[0].Name)
	assert.Equal(t, "utensils", svc.created[0].IconSlug)
	assert.Equal(t, []string{"makan", "kuliner"}, svc.created[0].Keywords)
	assert.Equal(t, adminCatsBrowse, next.mode)
}
