package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/campusmap/internal/adapters/memory"
	"github.com/samirrijal/campusmap/internal/core/domain"
)

func TestSlots_GetMissing(t *testing.T) {
	s := memory.New()
	_, err := s.Get(context.Background(), "places_list")
	if !errors.Is(err, domain.ErrSlotEmpty) {
		t.Fatalf("expected ErrSlotEmpty, got %v", err)
	}
}

func TestSlots_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	if err := s.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "k", []byte("v2")); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v2" {
		t.Errorf("expected v2, got %s", got)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, domain.ErrSlotEmpty) {
		t.Errorf("expected ErrSlotEmpty after delete, got %v", err)
	}
}

func TestSlots_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	buf := []byte("abc")
	_ = s.Set(ctx, "k", buf)
	buf[0] = 'x'

	got, _ := s.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller buffer: %s", got)
	}
}
