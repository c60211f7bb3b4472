package tests

import (
	"context"
	"errors"
	"testing"

	"busbook/internal/repository"
	"busbook/internal/service"
)

func TestBus_CreateNormalizesNumber(t *testing.T) {
	t.Parallel()

	svc := service.NewBusService(NewMockBusRepository())

	coach, err := svc.CreateBus(context.Background(), service.BusInput{
		Name:       " Kaveri Express ",
		Number:     "ka05 mn 4321",
		CoachType:  "Non-AC Sleeper",
		TotalSeats: 30,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if coach.ID == "" {
		t.Error("expected generated ID")
	}
	if coach.Name != "Kaveri Express" || coach.Number != "KA05 MN 4321" {
		t.Errorf("expected trimmed fields, got %q / %q", coach.Name, coach.Number)
	}
	if coach.Amenities == nil {
		t.Error("expected non-nil amenities")
	}

	_, err = svc.CreateBus(context.Background(), service.BusInput{
		Name: "Copy", Number: "KA05 MN 4321", CoachType: "AC Seater", TotalSeats: 40,
	})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestBus_Validation(t *testing.T) {
	t.Parallel()

	svc := service.NewBusService(NewMockBusRepository())
	valid := service.BusInput{Name: "Bus", Number: "TN01", CoachType: "AC Seater", TotalSeats: 40}

	tests := []struct {
		name   string
		mutate func(*service.BusInput)
	}{
		{"blank name", func(in *service.BusInput) { in.Name = " " }},
		{"blank number", func(in *service.BusInput) { in.Number = "" }},
		{"blank coach type", func(in *service.BusInput) { in.CoachType = "" }},
		{"no seats", func(in *service.BusInput) { in.TotalSeats = 0 }},
		{"too many seats", func(in *service.BusInput) { in.TotalSeats = service.MaxCoachSeats + 1 }},
	}

	for _, tt := range tests {
		in := valid
		tt.mutate(&in)
		if _, err := svc.CreateBus(context.Background(), in); !errors.Is(err, service.ErrInvalidBus) {
			t.Errorf("%s: expected ErrInvalidBus, got %v", tt.name, err)
		}
	}
}

func TestBus_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	repo := NewMockBusRepository()
	svc := service.NewBusService(repo)
	ctx := context.Background()

	coach, err := svc.CreateBus(ctx, service.BusInput{Name: "Bus", Number: "TN01", CoachType: "AC Seater", TotalSeats: 40})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateBus(ctx, coach.ID, service.BusInput{
		Name: "Bus Gold", Number: "tn01", CoachType: "AC Sleeper", TotalSeats: 30, Amenities: []string{"wifi"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Bus Gold" || updated.TotalSeats != 30 || updated.Number != "TN01" {
		t.Errorf("unexpected update %+v", updated)
	}

	if _, err := svc.UpdateBus(ctx, "missing", service.BusInput{Name: "x", Number: "y", CoachType: "z", TotalSeats: 1}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	repo.DeleteError = repository.ErrInUse
	if err := svc.DeleteBus(ctx, coach.ID); !errors.Is(err, repository.ErrInUse) {
		t.Errorf("expected ErrInUse, got %v", err)
	}

	repo.DeleteError = nil
	if err := svc.DeleteBus(ctx, coach.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetBus(ctx, coach.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected deleted bus to be gone, got %v", err)
	}
}
