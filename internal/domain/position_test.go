package domain

import (
	"encoding/json"
	"testing"
)

func TestNewPosition(t *testing.T) {
	pos := NewPosition(15, 10, -3.5)

	if pos.X() != 15 {
		t.Errorf("expected X=15, got %f", pos.X())
	}
	if pos.Y() != 10 {
		t.Errorf("expected Y=10, got %f", pos.Y())
	}
	if pos.Z() != -3.5 {
		t.Errorf("expected Z=-3.5, got %f", pos.Z())
	}
}

func TestPositionJSON(t *testing.T) {
	data, err := json.Marshal(NewPosition(1, 2, 3))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[1,2,3]" {
		t.Errorf("expected array encoding, got %s", data)
	}
}

func TestCentroid(t *testing.T) {
	t.Run("empty is origin", func(t *testing.T) {
		if c := Centroid(nil); c != (Position{}) {
			t.Errorf("expected origin, got %v", c)
		}
	})

	t.Run("mean of positions", func(t *testing.T) {
		domains := []Domain{
			{ID: "a", Position: NewPosition(0, 0, 0)},
			{ID: "b", Position: NewPosition(10, -4, 2)},
		}
		c := Centroid(domains)
		if c != NewPosition(5, -2, 1) {
			t.Errorf("expected (5,-2,1), got %v", c)
		}
	})
}
